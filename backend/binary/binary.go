// Package binary implements the compact archive backend. The layout is fixed
// and little-endian regardless of host byte order:
//
//	magic "VSK" | format 0x01 | payload length u32 | CRC32-IEEE(payload) u32 | payload
//
// The payload holds the header (type name as u16 length + bytes, version u32)
// followed by the primitives in write order, each as a kind byte and a value:
// int64, uint64 and float64 bits take 8 bytes, bools 1 byte, strings a u32
// length and the raw bytes. Primitives carry no names; readers must issue reads
// in the order the writer issued writes.
package binary

import (
	"bytes"
	enc "encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"math"

	verskema "github.com/reoring/verskema"
)

const (
	// FormatVersion is the frame revision written after the magic bytes.
	FormatVersion byte = 0x01
	// HeaderSize is the size of the frame header preceding the payload.
	HeaderSize = 12
)

var (
	// MagicBytes identify a binary archive (VSK).
	MagicBytes = []byte{0x56, 0x53, 0x4b}

	errRecordState = verskema.FramingError("binary")
)

// Backend is the binary archive encoding.
type Backend struct {
	maxPayload uint32
}

// Option configures a Backend.
type Option func(*Backend)

// WithMaxPayload rejects archives whose payload exceeds n bytes (0 = unlimited).
func WithMaxPayload(n uint32) Option { return func(b *Backend) { b.maxPayload = n } }

// New returns a binary backend.
func New(opts ...Option) *Backend {
	b := &Backend{}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Backend) Format() verskema.Format { return verskema.FormatBinary }

// ---- writer ----

type writer struct {
	w       io.Writer
	state   int // 0 idle, 1 open, 2 done
	payload []byte
}

func (b *Backend) NewWriter(w io.Writer) verskema.ArchiveWriter { return &writer{w: w} }

func (w *writer) BeginRecord(typeName string, version verskema.SchemaVersion) error {
	if w.state != 0 {
		return errRecordState
	}
	if len(typeName) > math.MaxUint16 {
		return verskema.Issues{{Path: "/type", Code: verskema.CodeInvalidSchema, Message: "record type name too long", Offset: -1}}
	}
	w.state = 1
	w.payload = enc.LittleEndian.AppendUint16(w.payload, uint16(len(typeName)))
	w.payload = append(w.payload, typeName...)
	w.payload = enc.LittleEndian.AppendUint32(w.payload, uint32(version))
	return nil
}

func (w *writer) WritePrimitive(tok verskema.Token) error {
	if w.state != 1 {
		return errRecordState
	}
	v := tok.Value
	switch v.Kind() {
	case verskema.KindInt, verskema.KindUint, verskema.KindFloat:
		w.payload = append(w.payload, byte(v.Kind()))
		// Int, Uint and FloatBits share the same 64-bit payload.
		w.payload = enc.LittleEndian.AppendUint64(w.payload, v.FloatBits())
	case verskema.KindBool:
		w.payload = append(w.payload, byte(v.Kind()))
		if v.Bool() {
			w.payload = append(w.payload, 1)
		} else {
			w.payload = append(w.payload, 0)
		}
	case verskema.KindString:
		s := v.Str()
		if uint64(len(s)) > math.MaxUint32 {
			return verskema.Issues{{Path: verskema.FieldPath(tok.Name), Code: verskema.CodeInvalidSchema, Message: "string too long", Offset: -1}}
		}
		w.payload = append(w.payload, byte(v.Kind()))
		w.payload = enc.LittleEndian.AppendUint32(w.payload, uint32(len(s)))
		w.payload = append(w.payload, s...)
	default:
		return verskema.Issues{{Path: verskema.FieldPath(tok.Name), Code: verskema.CodeInvalidSchema, Message: "unsupported kind " + v.Kind().String(), Offset: -1}}
	}
	return nil
}

func (w *writer) EndRecord() error {
	if w.state != 1 {
		return errRecordState
	}
	w.state = 2
	if uint64(len(w.payload)) > math.MaxUint32 {
		return verskema.Issues{{Path: "/", Code: verskema.CodeInvalidSchema, Message: "record too large", Offset: -1}}
	}
	frame := make([]byte, 0, HeaderSize+len(w.payload))
	frame = append(frame, MagicBytes...)
	frame = append(frame, FormatVersion)
	frame = enc.LittleEndian.AppendUint32(frame, uint32(len(w.payload)))
	frame = enc.LittleEndian.AppendUint32(frame, crc32.ChecksumIEEE(w.payload))
	frame = append(frame, w.payload...)

	n, err := w.w.Write(frame)
	if err == nil && n < len(frame) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return verskema.IOError("writing binary archive", err)
	}
	return nil
}

// ---- reader ----

func (b *Backend) NewReader(r io.Reader) (verskema.ArchiveReader, error) {
	hdr := make([]byte, HeaderSize)
	if n, err := io.ReadFull(r, hdr); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, verskema.CorruptArchive("/", "truncated frame header", int64(n), err)
		}
		return nil, verskema.IOError("reading binary archive", err)
	}
	if !bytes.Equal(hdr[:3], MagicBytes) {
		return nil, verskema.CorruptArchive("/", "invalid magic bytes - not a binary archive", 0, nil)
	}
	if hdr[3] != FormatVersion {
		return nil, verskema.CorruptArchive("/", "unsupported frame format", 3, nil)
	}
	size := enc.LittleEndian.Uint32(hdr[4:8])
	sum := enc.LittleEndian.Uint32(hdr[8:12])
	if b.maxPayload > 0 && size > b.maxPayload {
		return nil, verskema.CorruptArchive("/", "payload exceeds limit", 4, nil)
	}

	var payload bytes.Buffer
	n, err := io.CopyN(&payload, r, int64(size))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, verskema.CorruptArchive("/", "truncated payload", HeaderSize+n, err)
		}
		return nil, verskema.IOError("reading binary archive", err)
	}
	// Anything after the declared payload means the frame length is wrong.
	var extra [1]byte
	switch m, err := r.Read(extra[:]); {
	case m > 0:
		return nil, verskema.CorruptArchive("/", "trailing bytes after payload", HeaderSize+int64(size), nil)
	case err != nil && !errors.Is(err, io.EOF):
		return nil, verskema.IOError("reading binary archive", err)
	}
	if crc32.ChecksumIEEE(payload.Bytes()) != sum {
		return nil, verskema.CorruptArchive("/", "checksum mismatch", 8, nil)
	}
	return &reader{cur: cursor{buf: payload.Bytes()}}, nil
}

type reader struct {
	cur   cursor
	begun bool
}

func (r *reader) BeginRecord() (verskema.ArchiveHeader, error) {
	if r.begun {
		return verskema.ArchiveHeader{}, errRecordState
	}
	r.begun = true
	n, ok := r.cur.u16()
	if !ok {
		return verskema.ArchiveHeader{}, r.corrupt("/type", "truncated record type")
	}
	name, ok := r.cur.bytes(int(n))
	if !ok {
		return verskema.ArchiveHeader{}, r.corrupt("/type", "truncated record type")
	}
	ver, ok := r.cur.u32()
	if !ok {
		return verskema.ArchiveHeader{}, r.corrupt("/version", "truncated version")
	}
	return verskema.ArchiveHeader{TypeName: string(name), Version: verskema.SchemaVersion(ver)}, nil
}

func (r *reader) ReadPrimitive(name string, kind verskema.Kind) (verskema.Value, error) {
	if !r.begun {
		return verskema.Value{}, errRecordState
	}
	path := verskema.FieldPath(name)
	if r.cur.remaining() == 0 {
		return verskema.Value{}, verskema.MissingField(path, "archive has no more primitives", r.offset())
	}
	tag, _ := r.cur.u8()
	got := verskema.Kind(tag)
	if got != kind {
		return verskema.Value{}, r.corrupt(path, "expected "+kind.String()+", found "+got.String())
	}
	switch kind {
	case verskema.KindInt, verskema.KindUint, verskema.KindFloat:
		bits, ok := r.cur.u64()
		if !ok {
			break
		}
		switch kind {
		case verskema.KindInt:
			return verskema.IntValue(int64(bits)), nil
		case verskema.KindUint:
			return verskema.UintValue(bits), nil
		}
		return verskema.FloatBitsValue(bits), nil
	case verskema.KindBool:
		b, ok := r.cur.u8()
		if !ok {
			break
		}
		if b > 1 {
			return verskema.Value{}, r.corrupt(path, "invalid bool byte")
		}
		return verskema.BoolValue(b == 1), nil
	case verskema.KindString:
		n, ok := r.cur.u32()
		if !ok {
			break
		}
		s, ok := r.cur.bytes(int(n))
		if !ok {
			break
		}
		return verskema.StringValue(string(s)), nil
	}
	return verskema.Value{}, r.corrupt(path, "truncated "+kind.String())
}

// EndRecord leaves trailing primitives unread: they belong to fields of a later
// revision.
func (r *reader) EndRecord() error {
	if !r.begun {
		return errRecordState
	}
	return nil
}

func (r *reader) offset() int64 { return HeaderSize + int64(r.cur.pos) }

func (r *reader) corrupt(path, msg string) error {
	return verskema.CorruptArchive(path, msg, r.offset(), nil)
}
