package store_test

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/verskema/store"
)

func openStores(t *testing.T) map[string]store.Store {
	t.Helper()
	fileStore, err := store.NewFileStore(filepath.Join(t.TempDir(), "files"))
	require.NoError(t, err)
	pebbleStore, err := store.NewPebbleStore(filepath.Join(t.TempDir(), "pebble"))
	require.NoError(t, err)
	stores := map[string]store.Store{
		"file":   fileStore,
		"memory": store.NewMemoryStore(),
		"pebble": pebbleStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func put(t *testing.T, s store.Store, key, data string) {
	t.Helper()
	w, err := s.Create(context.Background(), key)
	require.NoError(t, err)
	_, err = io.WriteString(w, data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func get(t *testing.T, s store.Store, key string) string {
	t.Helper()
	r, err := s.Open(context.Background(), key)
	require.NoError(t, err)
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

func TestStores_CreateOpenKeys(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			put(t, s, "run/b.json", "second")
			put(t, s, "run/a.bin", "first")
			put(t, s, "run/a.bin", "overwritten")

			assert.Equal(t, "overwritten", get(t, s, "run/a.bin"))
			assert.Equal(t, "second", get(t, s, "run/b.json"))

			keys, err := s.Keys(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []string{"run/a.bin", "run/b.json"}, keys)
		})
	}
}

func TestStores_NotFound(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Open(context.Background(), "missing")
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestStores_InvalidKeys(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "/abs", "../escape", `win\path`} {
				_, err := s.Create(context.Background(), key)
				assert.Error(t, err, "key %q", key)
			}
		})
	}
}

func TestStores_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Create(ctx, "k")
			assert.ErrorIs(t, err, context.Canceled)
			_, err = s.Open(ctx, "k")
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestMemoryStore_PublishesOnClose(t *testing.T) {
	s := store.NewMemoryStore()
	w, err := s.Create(context.Background(), "k")
	require.NoError(t, err)
	_, err = w.Write([]byte("data"))
	require.NoError(t, err)

	_, ok := s.Get("k")
	assert.False(t, ok, "archive visible before Close")

	require.NoError(t, w.Close())
	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "data", string(got))

	_, err = w.Write([]byte("late"))
	assert.Error(t, err)
}

func TestStores_AbortKeepsPreviousArchive(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			put(t, s, "run/a.json", "good")

			w, err := s.Create(context.Background(), "run/a.json")
			require.NoError(t, err)
			_, err = io.WriteString(w, "partial")
			require.NoError(t, err)
			require.NoError(t, w.Abort())
			require.NoError(t, w.Close(), "Close after Abort is a no-op")

			assert.Equal(t, "good", get(t, s, "run/a.json"))
			keys, err := s.Keys(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []string{"run/a.json"}, keys)
		})
	}
}

func TestFileStore_PendingWriteIsInvisible(t *testing.T) {
	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	w, err := s.Create(context.Background(), "a.bin")
	require.NoError(t, err)
	_, err = io.WriteString(w, "data")
	require.NoError(t, err)

	keys, err := s.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
	_, err = s.Open(context.Background(), "a.bin")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, w.Close())
	assert.Equal(t, "data", get(t, s, "a.bin"))
}

func TestNew(t *testing.T) {
	s, err := store.New(store.Options{Kind: store.KindMemory})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = store.New(store.Options{Kind: "s3"})
	assert.Error(t, err)

	fs, err := store.New(store.Options{Kind: store.KindFile, Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &store.FileStore{}, fs)
}

func TestNewRunID(t *testing.T) {
	a, b := store.NewRunID(), store.NewRunID()
	assert.Len(t, a, 27)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "x/y/z", store.JoinKey("x", "y", "z"))
	assert.False(t, strings.Contains(a, "/"))
}
