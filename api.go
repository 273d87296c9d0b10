package verskema

import "io"

// EncodeTo encodes rec with adapter a into a fresh archive written to w using
// backend b.
func EncodeTo[T any](b Backend, w io.Writer, a *Adapter[T], rec T) error {
	return a.Encode(rec, b.NewWriter(w))
}

// DecodeFrom opens an archive from r with backend b and decodes one record with
// adapter a. On failure no record is returned.
func DecodeFrom[T any](b Backend, r io.Reader, a *Adapter[T]) (T, error) {
	dm, err := DecodeFromWithMeta(b, r, a)
	if err != nil {
		var zero T
		return zero, err
	}
	return dm.Value, nil
}

// DecodeFromWithMeta is DecodeFrom plus presence metadata.
func DecodeFromWithMeta[T any](b Backend, r io.Reader, a *Adapter[T]) (Decoded[T], error) {
	ar, err := b.NewReader(r)
	if err != nil {
		return Decoded[T]{}, err
	}
	return a.DecodeWithMeta(ar)
}
