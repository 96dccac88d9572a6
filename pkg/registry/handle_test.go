package registry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/DeBrosOfficial/cidreg/pkg/errors"
	"github.com/DeBrosOfficial/cidreg/pkg/registry"
	"github.com/DeBrosOfficial/cidreg/pkg/registry/registrytest"
)

var account = common.HexToAddress("0x084c7D6B56267b811748A1Af3b3973da95641f50")

func TestHandle_GetUnsetSlot(t *testing.T) {
	h, _ := registrytest.Bind(t)

	cid, err := h.Get(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, "", cid)
}

func TestHandle_SetThenGet(t *testing.T) {
	h, c := registrytest.Bind(t)
	ctx := context.Background()

	tx, err := h.Set(ctx, account, "QmTest123")
	require.NoError(t, err)
	assert.NotEqual(t, common.Hash{}, tx)

	require.Len(t, c.Sends, 1)
	assert.Equal(t, account, c.Sends[0].From)
	assert.Equal(t, registrytest.DefaultAddress, c.Sends[0].To)

	cid, err := h.Get(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, "QmTest123", cid)

	require.Len(t, c.Calls, 1)
	assert.Equal(t, account, c.Calls[0].From)
}

func TestHandle_LastWriteWins(t *testing.T) {
	h, _ := registrytest.Bind(t)
	ctx := context.Background()
	other := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	tx1, err := h.Set(ctx, account, "QmFirst")
	require.NoError(t, err)
	tx2, err := h.Set(ctx, other, "QmSecond")
	require.NoError(t, err)
	assert.NotEqual(t, tx1, tx2)

	cid, err := h.Get(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, "QmSecond", cid)
}

func TestHandle_SetFailure(t *testing.T) {
	h, c := registrytest.Bind(t)
	c.SendErr = registrytest.ErrExecutionReverted

	_, err := h.Set(context.Background(), account, "QmTest")
	require.Error(t, err)
	assert.True(t, cerrors.IsRegistry(err))
	assert.ErrorIs(t, err, registrytest.ErrExecutionReverted)
	assert.Equal(t, "", c.Value())
}

func TestHandle_GetFailures(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		h, c := registrytest.Bind(t)
		c.CallErr = errors.New("connection refused")

		_, err := h.Get(context.Background(), account)
		require.Error(t, err)
		assert.True(t, cerrors.IsRegistry(err))
	})

	t.Run("empty return data", func(t *testing.T) {
		h, c := registrytest.Bind(t)
		c.RawReturn = []byte{}

		_, err := h.Get(context.Background(), account)
		require.Error(t, err)
		assert.True(t, cerrors.IsRegistry(err))
	})

	t.Run("truncated return data", func(t *testing.T) {
		h, c := registrytest.Bind(t)
		c.RawReturn = common.FromHex("0x0000000000000000000000000000000000000000000000000000000000000020")

		_, err := h.Get(context.Background(), account)
		require.Error(t, err)
		assert.True(t, cerrors.IsRegistry(err))
	})
}

func TestHandle_WaitMined(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, _ := registrytest.Bind(t, registry.WithPollInterval(time.Millisecond))
		ctx := context.Background()

		tx, err := h.Set(ctx, account, "QmMined")
		require.NoError(t, err)

		receipt, err := h.WaitMined(ctx, tx)
		require.NoError(t, err)
		assert.Equal(t, tx, receipt.TxHash)
	})

	t.Run("reverted", func(t *testing.T) {
		h, c := registrytest.Bind(t, registry.WithPollInterval(time.Millisecond))
		c.FailReceipts = true
		ctx := context.Background()

		tx, err := h.Set(ctx, account, "QmReverted")
		require.NoError(t, err)

		_, err = h.WaitMined(ctx, tx)
		require.Error(t, err)
		assert.True(t, cerrors.IsRegistry(err))
		assert.ErrorIs(t, err, cerrors.ErrReverted)
		assert.Equal(t, "", c.Value())
	})

	t.Run("cancelled while pending", func(t *testing.T) {
		h, _ := registrytest.Bind(t, registry.WithPollInterval(time.Millisecond))
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := h.WaitMined(ctx, common.HexToHash("0x01"))
		require.Error(t, err)
		assert.True(t, cerrors.IsRegistry(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestHandle_ConcurrentUse(t *testing.T) {
	h, _ := registrytest.Bind(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Set(ctx, account, "QmConcurrent")
			assert.NoError(t, err)
			_, err = h.Get(ctx, account)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
