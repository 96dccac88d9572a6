// Package ipfstest provides an in-memory content-addressed store with the
// same Add/Cat surface as the Kubo client, for tests that need storage
// without a node.
package ipfstest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	cerrors "github.com/DeBrosOfficial/cidreg/pkg/errors"
	"github.com/DeBrosOfficial/cidreg/pkg/ipfs"
)

// ErrInterrupted is returned by a Cat stream cut short with InterruptAfter.
var ErrInterrupted = errors.New("stream interrupted")

// Store keeps objects in memory keyed by a CIDv0 of their sha2-256 digest.
// Identical content always yields the identical identifier.
type Store struct {
	mu      sync.Mutex
	objects map[string][]byte

	// AddErr, when set, fails every Add without storing anything.
	AddErr error
	// EmptyAdd makes Add succeed with no entries.
	EmptyAdd bool
	// ChunkSize limits how many bytes a single Read of a Cat stream returns.
	ChunkSize int
	// InterruptAfter, when positive, fails Cat streams with ErrInterrupted
	// once that many bytes were delivered.
	InterruptAfter int

	// MaxChunk records the largest single Read a Cat stream served.
	MaxChunk int
	Adds     int
	Cats     []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{objects: make(map[string][]byte)}
}

// CIDFor returns the identifier Add assigns to content.
func CIDFor(content []byte) (string, error) {
	mh, err := multihash.Sum(content, multihash.SHA2_256, -1)
	if err != nil {
		return "", err
	}
	return cid.NewCidV0(mh).String(), nil
}

// Add implements the storage Add operation.
func (s *Store) Add(ctx context.Context, reader io.Reader, name string) ([]ipfs.AddResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.Adds++
	addErr, empty := s.AddErr, s.EmptyAdd
	s.mu.Unlock()

	if addErr != nil {
		return nil, addErr
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	if empty {
		return nil, nil
	}

	id, err := CIDFor(data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.objects[id] = data
	s.mu.Unlock()

	return []ipfs.AddResponse{{Name: name, Hash: id, Size: strconv.Itoa(len(data))}}, nil
}

// Cat implements the storage Cat operation.
func (s *Store) Cat(ctx context.Context, id string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Cats = append(s.Cats, id)
	if id == "" {
		return nil, fmt.Errorf("cat: empty content identifier")
	}
	data, ok := s.objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", cerrors.ErrNotFound, id)
	}
	return &stream{store: s, r: bytes.NewReader(data)}, nil
}

// Get returns a stored object directly, bypassing Cat.
func (s *Store) Get(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[id]
	return bytes.Clone(data), ok
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type stream struct {
	store     *Store
	r         *bytes.Reader
	delivered int
	closed    bool
}

func (st *stream) Read(p []byte) (int, error) {
	if st.closed {
		return 0, errors.New("read on closed stream")
	}

	st.store.mu.Lock()
	chunk, interrupt := st.store.ChunkSize, st.store.InterruptAfter
	st.store.mu.Unlock()

	if interrupt > 0 && st.delivered >= interrupt {
		return 0, ErrInterrupted
	}
	if chunk > 0 && len(p) > chunk {
		p = p[:chunk]
	}
	if interrupt > 0 && len(p) > interrupt-st.delivered {
		p = p[:interrupt-st.delivered]
	}

	n, err := st.r.Read(p)
	st.delivered += n

	st.store.mu.Lock()
	if n > st.store.MaxChunk {
		st.store.MaxChunk = n
	}
	st.store.mu.Unlock()

	return n, err
}

func (st *stream) Close() error {
	st.closed = true
	return nil
}
