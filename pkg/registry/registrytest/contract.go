// Package registrytest provides an in-memory registry contract that speaks
// the real ABI encoding, for tests that need a registry without a chain.
package registrytest

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/DeBrosOfficial/cidreg/pkg/registry"
)

// ErrExecutionReverted mirrors the message nodes return for reverted calls.
var ErrExecutionReverted = errors.New("execution reverted")

// Contract is a single-slot string store behind the registry.Transport
// interface. Transactions are "mined" immediately. The zero value is not
// usable; call New.
type Contract struct {
	mu       sync.Mutex
	abi      abi.ABI
	address  common.Address
	chainID  *big.Int
	slot     string
	nonce    uint64
	receipts map[common.Hash]*types.Receipt

	// SendErr, when set, is returned by SendTransaction before any state change.
	SendErr error
	// CallErr, when set, is returned by CallContract.
	CallErr error
	// FailReceipts makes mined transactions report a failed status without
	// touching the slot.
	FailReceipts bool
	// RawReturn, when non-nil, is returned verbatim by CallContract.
	RawReturn []byte

	Sends []registry.TxArgs
	Calls []ethereum.CallMsg
}

// DefaultAddress is where Bind deploys the contract.
var DefaultAddress = common.HexToAddress("0xeaff8422d499714ffe4382f681c9087dde36d414")

// New returns an empty contract deployed at address, using the embedded
// registry interface.
func New(address common.Address) (*Contract, error) {
	parsed, err := registry.LoadABI(registry.EmbeddedSchema{})
	if err != nil {
		return nil, err
	}
	return &Contract{
		abi:      parsed,
		address:  address,
		chainID:  big.NewInt(1337),
		receipts: make(map[common.Hash]*types.Receipt),
	}, nil
}

// Bind deploys a fresh contract at DefaultAddress and binds a handle to it.
func Bind(t testing.TB, opts ...registry.BindOption) (*registry.Handle, *Contract) {
	t.Helper()

	c, err := New(DefaultAddress)
	if err != nil {
		t.Fatalf("failed to create contract: %v", err)
	}
	h, err := registry.Bind(c, DefaultAddress.Hex(), opts...)
	if err != nil {
		t.Fatalf("failed to bind registry: %v", err)
	}
	return h, c
}

// Value returns the current slot content.
func (c *Contract) Value() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slot
}

// SendTransaction implements registry.Transport.
func (c *Contract) SendTransaction(ctx context.Context, tx registry.TxArgs) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Sends = append(c.Sends, tx)
	if c.SendErr != nil {
		return common.Hash{}, c.SendErr
	}
	if tx.To != c.address {
		return common.Hash{}, fmt.Errorf("no contract at %s", tx.To.Hex())
	}

	method, args, err := c.decode(tx.Data)
	if err != nil {
		return common.Hash{}, err
	}
	if method.Name != registry.MethodSet {
		return common.Hash{}, fmt.Errorf("%s is not a transaction", method.Name)
	}

	c.nonce++
	var seed [8]byte
	binary.BigEndian.PutUint64(seed[:], c.nonce)
	hash := crypto.Keccak256Hash(tx.From.Bytes(), seed[:], tx.Data)

	status := types.ReceiptStatusSuccessful
	if c.FailReceipts {
		status = types.ReceiptStatusFailed
	} else {
		c.slot = args[0].(string)
	}
	c.receipts[hash] = &types.Receipt{
		Status:      status,
		TxHash:      hash,
		BlockNumber: new(big.Int).SetUint64(c.nonce),
	}
	return hash, nil
}

// CallContract implements registry.Transport.
func (c *Contract) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Calls = append(c.Calls, msg)
	if c.CallErr != nil {
		return nil, c.CallErr
	}
	if c.RawReturn != nil {
		return c.RawReturn, nil
	}
	if msg.To == nil || *msg.To != c.address {
		return nil, nil
	}

	method, _, err := c.decode(msg.Data)
	if err != nil {
		return nil, err
	}
	if method.Name != registry.MethodGet {
		return nil, ErrExecutionReverted
	}
	return method.Outputs.Pack(c.slot)
}

// TransactionReceipt implements registry.Transport.
func (c *Contract) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

// ChainID implements registry.Transport.
func (c *Contract) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(c.chainID), nil
}

func (c *Contract) decode(data []byte) (*abi.Method, []interface{}, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("call data too short: %d bytes", len(data))
	}
	method, err := c.abi.MethodById(data[:4])
	if err != nil {
		return nil, nil, err
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, nil, err
	}
	return method, args, nil
}
