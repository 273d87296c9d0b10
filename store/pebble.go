package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/pebble"
)

// PebbleStore keeps archives as values of a Pebble database.
type PebbleStore struct {
	db *pebble.DB
}

// NewPebbleStore opens (or creates) the database at path.
func NewPebbleStore(path string) (*PebbleStore, error) {
	if path == "" {
		return nil, errors.New("store: pebble store needs a path")
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create store dir: %w", err)
	}
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble store: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

type pebbleWriter struct {
	db     *pebble.DB
	key    string
	buf    bytes.Buffer
	closed bool
}

func (w *pebbleWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("store: write to closed archive %s", w.key)
	}
	return w.buf.Write(p)
}

func (w *pebbleWriter) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.buf.Reset()
	return nil
}

func (w *pebbleWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.db.Set([]byte(w.key), w.buf.Bytes(), pebble.Sync); err != nil {
		return fmt.Errorf("failed to store archive %s: %w", w.key, err)
	}
	return nil
}

func (s *PebbleStore) Create(ctx context.Context, key string) (Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return &pebbleWriter{db: s.db, key: key}, nil
}

func (s *PebbleStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, closer, err := s.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read archive %s: %w", key, err)
	}
	defer closer.Close()
	return io.NopCloser(bytes.NewReader(bytes.Clone(data))), nil
}

func (s *PebbleStore) Keys(ctx context.Context) ([]string, error) {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var keys []string
	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		keys = append(keys, string(iter.Key()))
	}
	return keys, iter.Error()
}

func (s *PebbleStore) Close() error { return s.db.Close() }
