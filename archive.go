package verskema

import "io"

// ArchiveWriter is the write half of the token-stream contract shared by all
// backends. A writer carries exactly one record; EndRecord hands the encoded
// archive to the underlying sink.
type ArchiveWriter interface {
	BeginRecord(typeName string, version SchemaVersion) error
	WritePrimitive(tok Token) error
	EndRecord() error
}

// ArchiveReader is the read half of the token-stream contract. BeginRecord must
// be called first and returns the header written by the producer.
type ArchiveReader interface {
	BeginRecord() (ArchiveHeader, error)
	// ReadPrimitive returns the primitive for name (text) or the next primitive
	// (binary). kind is the kind the caller expects; backends whose persisted form
	// is untyped use it to interpret the stored value.
	ReadPrimitive(name string, kind Kind) (Value, error)
	EndRecord() error
}

// Backend is a physical archive encoding.
type Backend interface {
	Format() Format
	NewWriter(w io.Writer) ArchiveWriter
	// NewReader opens an archive. Malformed or truncated input fails with
	// CorruptArchive; source failures with IOError.
	NewReader(r io.Reader) (ArchiveReader, error)
}

// Inspect opens an archive and returns its header without decoding any field.
func Inspect(b Backend, r io.Reader) (ArchiveHeader, error) {
	ar, err := b.NewReader(r)
	if err != nil {
		return ArchiveHeader{}, err
	}
	return ar.BeginRecord()
}
