package registry

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxArgs describes a contract call to be signed and submitted by the node on
// behalf of From. Gas and fee fields are left to the node's defaults.
type TxArgs struct {
	From common.Address
	To   common.Address
	Data []byte
}

// Transport is the connection to the chain the registry lives on.
type Transport interface {
	// SendTransaction submits a state-mutating call and returns its hash.
	SendTransaction(ctx context.Context, tx TxArgs) (common.Hash, error)
	// CallContract executes a read-only call at the given block (nil = latest).
	CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error)
	// TransactionReceipt returns ethereum.NotFound while the transaction is pending.
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	// ChainID returns the chain identifier of the connected network.
	ChainID(ctx context.Context) (*big.Int, error)
}
