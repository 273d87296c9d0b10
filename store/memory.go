package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/btree"
)

type memEntry struct {
	key  string
	data []byte
}

// MemoryStore keeps archives in an ordered in-memory tree. Safe for concurrent
// use; handles themselves are not.
type MemoryStore struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[memEntry]
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tree: btree.NewG[memEntry](2, func(a, b memEntry) bool { return a.key < b.key }),
	}
}

type memWriter struct {
	s      *MemoryStore
	key    string
	buf    bytes.Buffer
	closed bool
}

func (w *memWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("store: write to closed archive %s", w.key)
	}
	return w.buf.Write(p)
}

func (w *memWriter) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.buf.Reset()
	return nil
}

func (w *memWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.s.put(w.key, bytes.Clone(w.buf.Bytes()))
	return nil
}

func (s *MemoryStore) put(key string, data []byte) {
	s.mu.Lock()
	s.tree.ReplaceOrInsert(memEntry{key: key, data: data})
	s.mu.Unlock()
}

// Put stores data under key directly.
func (s *MemoryStore) Put(key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.put(key, bytes.Clone(data))
	return nil
}

// Get returns a copy of the archive stored under key.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.tree.Get(memEntry{key: key})
	if !ok {
		return nil, false
	}
	return bytes.Clone(e.data), true
}

func (s *MemoryStore) Create(ctx context.Context, key string) (Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return &memWriter{s: s, key: key}, nil
}

func (s *MemoryStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := s.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *MemoryStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, s.tree.Len())
	s.tree.Ascend(func(e memEntry) bool {
		keys = append(keys, e.key)
		return true
	})
	return keys, nil
}

func (s *MemoryStore) Close() error { return nil }
