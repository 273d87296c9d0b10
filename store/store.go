// Package store provides byte sinks and sources for archives: a directory of
// files, an ordered in-memory map and a Pebble database. The engine itself
// never touches a Store; the round-trip driver opens handles here and hands
// the io.Writer / io.Reader to a backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/segmentio/ksuid"
)

// ErrNotFound is returned by Open for an unknown key.
var ErrNotFound = errors.New("store: archive not found")

// Store persists one archive per key. Handles returned by Create and Open are
// owned by the caller and must be released.
type Store interface {
	Create(ctx context.Context, key string) (Writer, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Writer is a Create handle. Close publishes the written bytes under the key;
// Abort discards them and leaves any previous archive in place. Once either has
// been called, further calls to both are no-ops.
type Writer interface {
	io.WriteCloser
	Abort() error
}

// Kind names a Store implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindMemory Kind = "memory"
	KindPebble Kind = "pebble"
)

// Options selects and configures a Store.
type Options struct {
	Kind Kind
	Path string // directory for file and pebble stores
}

// New opens the store described by opt.
func New(opt Options) (Store, error) {
	switch opt.Kind {
	case KindFile, "":
		return NewFileStore(opt.Path)
	case KindMemory:
		return NewMemoryStore(), nil
	case KindPebble:
		return NewPebbleStore(opt.Path)
	}
	return nil, fmt.Errorf("store: unknown kind %q", opt.Kind)
}

// NewRunID returns a sortable, globally unique identifier used to namespace the
// archives of one driver run.
func NewRunID() string { return ksuid.New().String() }

// JoinKey joins key segments with '/'.
func JoinKey(parts ...string) string { return strings.Join(parts, "/") }

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") || strings.Contains(key, `\`) {
		return fmt.Errorf("store: invalid key %q", key)
	}
	return nil
}
