package anchor

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/cidreg/pkg/errors"
)

// Resolve reads the content identifier currently stored in reg and writes
// the addressed object to output, or to a file named after the identifier in
// the working directory when output is empty. Existing files are truncated.
//
// The object is streamed chunk by chunk, so memory use does not grow with
// its size. If streaming fails the partially written file is left in place
// unless WithRemovePartial is given. Resolve never writes to the registry.
func Resolve(ctx context.Context, reg Registry, account common.Address, store Storage, output string, opts ...ResolveOption) (string, error) {
	o := newResolveOptions(opts)

	cid, err := reg.Get(ctx, account)
	if err != nil {
		if !errors.IsRegistry(err) {
			err = errors.NewRegistryError("get", err)
		}
		return "", err
	}
	logger := o.logger.With(zap.String("cid", cid))
	logger.Info("CID read from registry")

	dest := output
	if dest == "" {
		dest = cid
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", errors.NewIOError(dest, err)
	}

	logger.Debug("Downloading file", zap.String("dest", dest))
	written, err := download(ctx, store, cid, f, dest, o.chunkSize)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = errors.NewIOError(dest, closeErr)
	}
	if err != nil {
		if o.removePartial {
			if rmErr := os.Remove(dest); rmErr != nil && !stderrors.Is(rmErr, os.ErrNotExist) {
				logger.Warn("Failed to remove partial file", zap.String("dest", dest), zap.Error(rmErr))
			}
		} else {
			logger.Warn("Partial file left in place", zap.String("dest", dest), zap.Int64("bytes", written))
		}
		return "", err
	}

	logger.Info("File downloaded", zap.String("dest", dest), zap.Int64("bytes", written))
	return cid, nil
}

// download copies the object into w one chunk at a time. Read failures are
// storage errors and write failures are filesystem errors.
func download(ctx context.Context, store Storage, cid string, w io.Writer, dest string, chunkSize int) (int64, error) {
	body, err := store.Cat(ctx, cid)
	if err != nil {
		return 0, errors.NewStorageError("cat", err).WithCID(cid)
	}
	defer body.Close()

	buf := make([]byte, chunkSize)
	var written int64
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return written, errors.NewIOError(dest, werr)
			}
			written += int64(n)
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, errors.NewStorageError("cat", rerr).WithCID(cid)
		}
	}
}
