package registry

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// RPCTransport talks to an Ethereum JSON-RPC endpoint. Transactions are sent
// with eth_sendTransaction, so the node must hold (or proxy) the key for the
// sending account.
type RPCTransport struct {
	rpc *rpc.Client
	eth *ethclient.Client
}

// DialRPC connects to the JSON-RPC endpoint at rawURL (http, https, ws, wss or
// an absolute IPC socket path).
func DialRPC(ctx context.Context, rawURL string) (*RPCTransport, error) {
	c, err := rpc.DialContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rawURL, err)
	}
	return NewRPCTransport(c), nil
}

// NewRPCTransport wraps an existing RPC client.
func NewRPCTransport(c *rpc.Client) *RPCTransport {
	return &RPCTransport{rpc: c, eth: ethclient.NewClient(c)}
}

type sendTxArgs struct {
	From common.Address `json:"from"`
	To   common.Address `json:"to"`
	Data hexutil.Bytes  `json:"data"`
}

// SendTransaction implements Transport.
func (t *RPCTransport) SendTransaction(ctx context.Context, tx TxArgs) (common.Hash, error) {
	var hash common.Hash
	args := sendTxArgs{From: tx.From, To: tx.To, Data: tx.Data}
	if err := t.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// CallContract implements Transport.
func (t *RPCTransport) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	return t.eth.CallContract(ctx, msg, block)
}

// TransactionReceipt implements Transport.
func (t *RPCTransport) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return t.eth.TransactionReceipt(ctx, hash)
}

// ChainID implements Transport.
func (t *RPCTransport) ChainID(ctx context.Context) (*big.Int, error) {
	return t.eth.ChainID(ctx)
}

// Close releases the underlying connection.
func (t *RPCTransport) Close() {
	t.rpc.Close()
}
