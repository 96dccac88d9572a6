package hexaddr

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeBrosOfficial/cidreg/pkg/errors"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []byte
	}{
		{"plain zero", "00", []byte{0}},
		{"prefixed zero", "0x00", []byte{0}},
		{"prefixed digits", "0x99", []byte{9*16 + 9}},
		{"upper case", "0xA7", []byte{10*16 + 7}},
		{"mixed case", "Ba", []byte{11*16 + 10}},
		{"upper marker", "0XfF", []byte{0xff}},
		{"empty after marker", "0x", []byte{}},
		{"empty after upper marker", "0X", []byte{}},
		{"address", "0x084c7D6B56267b811748A1Af3b3973da95641f50", common.FromHex("084c7D6B56267b811748A1Af3b3973da95641f50")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"odd length", "abc"},
		{"odd length prefixed", "0xabc"},
		{"non hex", "zz"},
		{"non hex prefixed", "0xgg"},
		{"marker stripped once", "0x0x00"},
		{"upper marker stripped once", "0X0X00"},
		{"whitespace", " 00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			require.Error(t, err)
			assert.True(t, errors.IsDecoding(err), "expected DecodingError, got %T", err)
			assert.Nil(t, got, "no partial result on failure")
		})
	}
}

func TestParseAddress(t *testing.T) {
	t.Run("with prefix", func(t *testing.T) {
		addr, err := ParseAddress("0x084c7D6B56267b811748A1Af3b3973da95641f50")
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0x084c7D6B56267b811748A1Af3b3973da95641f50"), addr)
	})

	t.Run("without prefix", func(t *testing.T) {
		addr, err := ParseAddress("eaff8422d499714ffe4382f681c9087dde36d414")
		require.NoError(t, err)
		assert.Equal(t, "0xeaff8422d499714ffe4382f681c9087dde36d414", hex0x(addr))
	})

	t.Run("with upper prefix", func(t *testing.T) {
		addr, err := ParseAddress("0X084c7D6B56267b811748A1Af3b3973da95641f50")
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0x084c7D6B56267b811748A1Af3b3973da95641f50"), addr)
	})

	t.Run("wrong width", func(t *testing.T) {
		_, err := ParseAddress("0xdeadbeef")
		require.Error(t, err)
		assert.True(t, errors.IsDecoding(err))
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseAddress("not-an-address")
		require.Error(t, err)
		assert.True(t, errors.IsDecoding(err))
	})
}

func TestDecode_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("prefix is optional and stripped exactly once", prop.ForAll(
		func(b []byte) bool {
			enc := hex.EncodeToString(b)
			plain, err1 := Decode(enc)
			prefixed, err2 := Decode("0x" + enc)
			if err1 != nil || err2 != nil {
				return false
			}
			return bytes.Equal(plain, b) && bytes.Equal(prefixed, b)
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("output is half the stripped length", prop.ForAll(
		func(b []byte) bool {
			out, err := Decode("0x" + hex.EncodeToString(b))
			return err == nil && len(out) == len(b)
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("odd digit counts always fail", prop.ForAll(
		func(b []byte) bool {
			_, err := Decode(hex.EncodeToString(b) + "a")
			return errors.IsDecoding(err)
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("non hex characters always fail", prop.ForAll(
		func(s string) bool {
			_, err := Decode("zz" + s)
			return errors.IsDecoding(err)
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func hex0x(a common.Address) string {
	return "0x" + hex.EncodeToString(a.Bytes())
}
