// Package registry binds the single-slot Storage contract: a string value
// that can be replaced with set and read back with get.
package registry

import (
	"context"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/cidreg/pkg/errors"
	"github.com/DeBrosOfficial/cidreg/pkg/hexaddr"
)

// DefaultPollInterval is how often WaitMined asks for a receipt.
const DefaultPollInterval = time.Second

// Handle is a typed binding to a deployed registry contract.
// It is read-only after construction and safe for concurrent use.
type Handle struct {
	transport    Transport
	address      common.Address
	abi          abi.ABI
	pollInterval time.Duration
	logger       *zap.Logger
}

type bindOptions struct {
	schema       SchemaLoader
	pollInterval time.Duration
	logger       *zap.Logger
}

// BindOption customizes Bind.
type BindOption func(*bindOptions)

// WithSchema replaces the embedded artifact with another loader.
func WithSchema(loader SchemaLoader) BindOption {
	return func(o *bindOptions) { o.schema = loader }
}

// WithPollInterval sets how often WaitMined polls for a receipt.
func WithPollInterval(d time.Duration) BindOption {
	return func(o *bindOptions) { o.pollInterval = d }
}

// WithLogger sets the logger used for call tracing.
func WithLogger(logger *zap.Logger) BindOption {
	return func(o *bindOptions) { o.logger = logger }
}

// Bind parses the contract interface and the textual contract address and
// returns a handle that talks to the contract through t.
func Bind(t Transport, address string, opts ...BindOption) (*Handle, error) {
	o := bindOptions{
		schema:       EmbeddedSchema{},
		pollInterval: DefaultPollInterval,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.pollInterval <= 0 {
		o.pollInterval = DefaultPollInterval
	}

	parsed, err := LoadABI(o.schema)
	if err != nil {
		return nil, err
	}
	addr, err := hexaddr.ParseAddress(address)
	if err != nil {
		return nil, err
	}

	return &Handle{
		transport:    t,
		address:      addr,
		abi:          parsed,
		pollInterval: o.pollInterval,
		logger:       o.logger,
	}, nil
}

// Address returns the contract address the handle is bound to.
func (h *Handle) Address() common.Address {
	return h.address
}

// ABI returns the parsed contract interface.
func (h *Handle) ABI() abi.ABI {
	return h.abi
}

// Set submits a transaction from the given account replacing the stored
// value with cid. The transaction hash is returned once the node accepts it.
func (h *Handle) Set(ctx context.Context, from common.Address, cid string) (common.Hash, error) {
	data, err := h.abi.Pack(MethodSet, cid)
	if err != nil {
		return common.Hash{}, errors.NewRegistryError(MethodSet, err)
	}

	h.logger.Debug("Submitting registry transaction",
		zap.String("contract", h.address.Hex()),
		zap.String("from", from.Hex()),
		zap.String("cid", cid))

	hash, err := h.transport.SendTransaction(ctx, TxArgs{From: from, To: h.address, Data: data})
	if err != nil {
		return common.Hash{}, errors.NewRegistryError(MethodSet, withRevertReason(err))
	}
	return hash, nil
}

// Get reads the stored value. An unset slot yields the empty string.
func (h *Handle) Get(ctx context.Context, from common.Address) (string, error) {
	data, err := h.abi.Pack(MethodGet)
	if err != nil {
		return "", errors.NewRegistryError(MethodGet, err)
	}

	to := h.address
	out, err := h.transport.CallContract(ctx, ethereum.CallMsg{From: from, To: &to, Data: data}, nil)
	if err != nil {
		return "", errors.NewRegistryError(MethodGet, withRevertReason(err))
	}

	values, err := h.abi.Unpack(MethodGet, out)
	if err != nil {
		return "", errors.NewRegistryError(MethodGet, fmt.Errorf("malformed return data 0x%s: %w", hex.EncodeToString(out), err))
	}
	if len(values) != 1 {
		return "", errors.NewRegistryError(MethodGet, fmt.Errorf("expected 1 return value, got %d", len(values)))
	}
	cid, ok := values[0].(string)
	if !ok {
		return "", errors.NewRegistryError(MethodGet, fmt.Errorf("expected string return value, got %T", values[0]))
	}
	return cid, nil
}

// WaitMined blocks until the transaction has a receipt and reports a failed
// execution status as a registry error. Cancellation is left to ctx.
func (h *Handle) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := h.transport.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && receipt != nil:
			if receipt.Status == types.ReceiptStatusFailed {
				return receipt, errors.NewRegistryError(MethodSet, fmt.Errorf("transaction %s: %w", hash.Hex(), errors.ErrReverted))
			}
			return receipt, nil
		case err != nil && !stderrors.Is(err, ethereum.NotFound):
			return nil, errors.NewRegistryError(MethodSet, err)
		}

		h.logger.Debug("Transaction not yet mined", zap.String("tx", hash.Hex()))

		select {
		case <-ctx.Done():
			return nil, errors.NewRegistryError(MethodSet, ctx.Err())
		case <-ticker.C:
		}
	}
}

// withRevertReason decorates err with the decoded Error(string) payload a
// node attaches to reverted calls, when there is one.
func withRevertReason(err error) error {
	var de rpc.DataError
	if !stderrors.As(err, &de) {
		return err
	}
	raw, ok := de.ErrorData().(string)
	if !ok {
		return err
	}
	data, decodeErr := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
	if decodeErr != nil {
		return err
	}
	reason, unpackErr := abi.UnpackRevert(data)
	if unpackErr != nil {
		return err
	}
	return fmt.Errorf("%w: %s", err, reason)
}
