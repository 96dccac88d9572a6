// Package anchor publishes files to a content-addressed store and pins the
// resulting content identifier in an on-chain registry, and resolves the
// registry entry back to a local file.
//
// The two systems are not updated atomically. Publish only touches the
// registry after the storage write succeeded; if the registry write then
// fails, the object stays in storage and the registry keeps its old value.
// Storage writes are idempotent by content hash, so retrying a failed
// Publish is always safe and yields the same identifier.
package anchor

import (
	"context"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/DeBrosOfficial/cidreg/pkg/ipfs"
)

// Storage is the content-addressed store.
type Storage interface {
	// Add stores the bytes of reader as a single file and returns the
	// entries the store reports; for one file that is one entry.
	Add(ctx context.Context, reader io.Reader, name string) ([]ipfs.AddResponse, error)
	// Cat streams the object addressed by cid.
	Cat(ctx context.Context, cid string) (io.ReadCloser, error)
}

// Registry is the single-slot on-chain pointer.
type Registry interface {
	Set(ctx context.Context, from common.Address, cid string) (common.Hash, error)
	Get(ctx context.Context, from common.Address) (string, error)
}

// ReceiptWaiter is implemented by registries that can wait for a submitted
// transaction to be mined.
type ReceiptWaiter interface {
	WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// PublishOutcome is the result of a successful Publish.
type PublishOutcome struct {
	CID    string
	TxHash common.Hash
}
