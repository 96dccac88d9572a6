// Package hexaddr turns textual hexadecimal input, such as contract and
// account addresses given on the command line, into canonical bytes.
package hexaddr

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/DeBrosOfficial/cidreg/pkg/errors"
)

// Decode decodes a hexadecimal string into bytes. A single leading "0x" or
// "0X" marker is stripped before decoding. The remaining characters must be
// an even number of hexadecimal digits; upper and lower case are accepted.
//
// Decode("0x00") and Decode("00") both return []byte{0}.
func Decode(s string) ([]byte, error) {
	b, err := hex.DecodeString(stripPrefix(s))
	if err != nil {
		return nil, errors.NewDecodingError(s, err)
	}
	return b, nil
}

// ParseAddress decodes s and checks that it is exactly one address wide.
func ParseAddress(s string) (common.Address, error) {
	b, err := Decode(s)
	if err != nil {
		return common.Address{}, err
	}
	if len(b) != common.AddressLength {
		return common.Address{}, errors.NewDecodingError(s,
			fmt.Errorf("expected %d bytes, got %d", common.AddressLength, len(b)))
	}
	return common.BytesToAddress(b), nil
}

func stripPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
