// Package roundtrip orchestrates encode/decode against a store: it acquires a
// sink or source, runs an adapter, and always releases the handle.
package roundtrip

import (
	"context"
	"errors"

	"go.uber.org/zap"

	verskema "github.com/reoring/verskema"
	"github.com/reoring/verskema/store"
)

// Save encodes rec with a into a new archive stored under key. The archive is
// published only when encoding succeeds; otherwise the handle is aborted and a
// previous archive under key is left untouched. A release failure is reported
// as an IOError.
func Save[T any](ctx context.Context, st store.Store, b verskema.Backend, key string, a *verskema.Adapter[T], rec T) (err error) {
	w, err := st.Create(ctx, key)
	if err != nil {
		return verskema.IOError("creating archive "+key, err)
	}
	published := false
	defer func() {
		if published {
			return
		}
		if aerr := w.Abort(); aerr != nil {
			err = errors.Join(err, verskema.IOError("discarding archive "+key, aerr))
		}
	}()
	if err := verskema.EncodeTo(b, w, a, rec); err != nil {
		return err
	}
	published = true
	if err := w.Close(); err != nil {
		return verskema.IOError("closing archive "+key, err)
	}
	verskema.Logger().Debug("archive saved", zap.String("key", key), zap.String("format", string(b.Format())))
	return nil
}

// Load decodes the archive stored under key with a.
func Load[T any](ctx context.Context, st store.Store, b verskema.Backend, key string, a *verskema.Adapter[T]) (T, error) {
	dm, err := LoadWithMeta(ctx, st, b, key, a)
	return dm.Value, err
}

// LoadWithMeta is Load plus presence metadata.
func LoadWithMeta[T any](ctx context.Context, st store.Store, b verskema.Backend, key string, a *verskema.Adapter[T]) (dm verskema.Decoded[T], err error) {
	r, err := st.Open(ctx, key)
	if err != nil {
		return dm, verskema.IOError("opening archive "+key, err)
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			dm = verskema.Decoded[T]{}
			err = errors.Join(err, verskema.IOError("closing archive "+key, cerr))
		}
	}()
	dm, err = verskema.DecodeFromWithMeta(b, r, a)
	if err != nil {
		return verskema.Decoded[T]{}, err
	}
	verskema.Logger().Debug("archive loaded", zap.String("key", key), zap.String("format", string(b.Format())))
	return dm, nil
}

// Transfer saves rec with the writer adapter and loads it back with the reader
// adapter. With different revisions of one record type this is a forward or
// backward compatibility check.
func Transfer[W, R any](ctx context.Context, st store.Store, b verskema.Backend, key string, wa *verskema.Adapter[W], rec W, ra *verskema.Adapter[R]) (R, error) {
	if err := Save(ctx, st, b, key, wa, rec); err != nil {
		var zero R
		return zero, err
	}
	return Load(ctx, st, b, key, ra)
}

// Inspect returns the header of the archive stored under key.
func Inspect(ctx context.Context, st store.Store, b verskema.Backend, key string) (hdr verskema.ArchiveHeader, err error) {
	r, err := st.Open(ctx, key)
	if err != nil {
		return hdr, verskema.IOError("opening archive "+key, err)
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			err = errors.Join(err, verskema.IOError("closing archive "+key, cerr))
		}
	}()
	return verskema.Inspect(b, r)
}
