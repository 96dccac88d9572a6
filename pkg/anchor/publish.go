package anchor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/cidreg/pkg/errors"
)

// Publish uploads the file at path to store and records the returned content
// identifier in reg on behalf of account.
//
// Failures are reported as IOError (a path that is not a readable regular
// file), StorageError (the add call or an empty response) or RegistryError
// (the set transaction). Nothing is retried. A RegistryError means the
// object is already in storage.
func Publish(ctx context.Context, reg Registry, account common.Address, store Storage, path string, opts ...PublishOption) (*PublishOutcome, error) {
	o := newPublishOptions(opts)
	logger := o.logger.With(zap.String("path", path))

	var waiter ReceiptWaiter
	if o.waitReceipt {
		w, ok := reg.(ReceiptWaiter)
		if !ok {
			return nil, errors.NewInternalError(fmt.Sprintf("registry %T cannot wait for receipts", reg), nil).WithOperation("publish")
		}
		waiter = w
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.NewIOError(path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.NewIOError(path, fmt.Errorf("not a regular file"))
	}

	src := &sourceReader{r: f}
	logger.Debug("Uploading file", zap.Int64("bytes", info.Size()))
	entries, err := store.Add(ctx, src, filepath.Base(path))
	if err != nil {
		return nil, addError(path, src, err)
	}
	if len(entries) == 0 || entries[0].Hash == "" {
		return nil, errors.NewStorageError("add", errors.ErrEmptyResponse)
	}
	cid := entries[0].Hash
	logger.Info("File uploaded", zap.String("cid", cid))

	logger.Debug("Saving CID to registry", zap.String("account", account.Hex()))
	tx, err := reg.Set(ctx, account, cid)
	if err != nil {
		logger.Warn("Registry not updated; content remains in storage",
			zap.String("cid", cid), zap.Error(err))
		return nil, asRegistryError(err)
	}

	if waiter != nil {
		logger.Debug("Waiting for transaction receipt", zap.String("tx", tx.Hex()))
		if _, err := waiter.WaitMined(ctx, tx); err != nil {
			return nil, asRegistryError(err)
		}
	}

	logger.Info("CID saved to registry", zap.String("cid", cid), zap.String("tx", tx.Hex()))
	return &PublishOutcome{CID: cid, TxHash: tx}, nil
}

// sourceReader remembers the first failure reading the local file, so it can
// be told apart from a storage failure once Add returns. Add may read from
// another goroutine.
type sourceReader struct {
	r   io.Reader
	mu  sync.Mutex
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		s.mu.Lock()
		if s.err == nil {
			s.err = err
		}
		s.mu.Unlock()
	}
	return n, err
}

func (s *sourceReader) readErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// addError classifies a failed Add: a local read failure is an IOError,
// anything else is the store's.
func addError(path string, src *sourceReader, err error) error {
	if readErr := src.readErr(); readErr != nil {
		return errors.NewIOError(path, readErr)
	}
	return errors.NewStorageError("add", err)
}

func asRegistryError(err error) error {
	if errors.IsRegistry(err) {
		return err
	}
	return errors.NewRegistryError("set", err)
}
