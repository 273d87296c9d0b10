// Package text implements the textual archive backend: a self-describing JSON
// document whose fields are tagged by name.
//
//	{
//	  "type": "pet",
//	  "version": 110,
//	  "fields": {
//	    "cat": 400,
//	    "dog": -0.743,
//	    "foo": "foo"
//	  }
//	}
//
// Readers look fields up by name, so field order in the document does not matter.
// Non-finite floats are written as the strings "NaN", "+Inf" and "-Inf"; strings
// that are not valid UTF-8 are written as {"base64": "..."}.
package text

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"math"
	"strconv"
	"unicode/utf8"

	j "github.com/goccy/go-json"

	verskema "github.com/reoring/verskema"
	"github.com/reoring/verskema/source"
)

const (
	keyType    = "type"
	keyVersion = "version"
	keyFields  = "fields"
	keyBase64  = "base64"

	// document -> fields -> base64 string object
	maxDepth = 3
)

var errRecordState = verskema.FramingError("text")

// Backend is the textual archive encoding. The zero value is not usable; call New.
type Backend struct {
	driver   source.Driver
	compact  bool
	maxBytes int64
}

// Option configures a Backend.
type Option func(*Backend)

// WithDriver selects the JSON token driver used by readers.
func WithDriver(d source.Driver) Option {
	return func(b *Backend) {
		if d != nil {
			b.driver = d
		}
	}
}

// WithCompact writes archives on a single line.
func WithCompact() Option { return func(b *Backend) { b.compact = true } }

// WithMaxBytes rejects archives larger than n bytes (0 = unlimited).
func WithMaxBytes(n int64) Option { return func(b *Backend) { b.maxBytes = n } }

// New returns a textual backend using the go-json driver unless overridden.
func New(opts ...Option) *Backend {
	b := &Backend{driver: source.Default()}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Backend) Format() verskema.Format { return verskema.FormatText }

// Driver returns the name of the JSON token driver.
func (b *Backend) Driver() string { return b.driver.Name() }

// ---- writer ----

type writer struct {
	w       io.Writer
	compact bool
	state   int // 0 idle, 1 open, 2 done
	header  verskema.ArchiveHeader
	tokens  []verskema.Token
	names   map[string]struct{}
}

func (b *Backend) NewWriter(w io.Writer) verskema.ArchiveWriter {
	return &writer{w: w, compact: b.compact}
}

func (w *writer) BeginRecord(typeName string, version verskema.SchemaVersion) error {
	if w.state != 0 {
		return errRecordState
	}
	w.state = 1
	w.header = verskema.ArchiveHeader{TypeName: typeName, Version: version}
	w.names = make(map[string]struct{})
	return nil
}

func (w *writer) WritePrimitive(tok verskema.Token) error {
	if w.state != 1 {
		return errRecordState
	}
	if _, dup := w.names[tok.Name]; dup {
		return verskema.Issues{{Path: verskema.FieldPath(tok.Name), Code: verskema.CodeInvalidSchema, Message: "field written twice", Offset: -1}}
	}
	w.names[tok.Name] = struct{}{}
	w.tokens = append(w.tokens, tok)
	return nil
}

func (w *writer) EndRecord() error {
	if w.state != 1 {
		return errRecordState
	}
	w.state = 2
	doc, err := w.render()
	if err != nil {
		return err
	}
	n, err := w.w.Write(doc)
	if err == nil && n < len(doc) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return verskema.IOError("writing text archive", err)
	}
	return nil
}

func (w *writer) render() ([]byte, error) {
	var buf bytes.Buffer
	nl, ind, sep := "\n", "  ", " "
	if w.compact {
		nl, ind, sep = "", "", ""
	}
	name, err := j.Marshal(w.header.TypeName)
	if err != nil {
		return nil, err
	}
	buf.WriteString("{" + nl)
	buf.WriteString(ind + `"` + keyType + `":` + sep)
	buf.Write(name)
	buf.WriteString("," + nl + ind + `"` + keyVersion + `":` + sep)
	buf.WriteString(strconv.FormatUint(uint64(w.header.Version), 10))
	buf.WriteString("," + nl + ind + `"` + keyFields + `":` + sep + "{")
	for i, tok := range w.tokens {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := j.Marshal(tok.Name)
		if err != nil {
			return nil, err
		}
		val, err := encodeValue(tok.Value)
		if err != nil {
			return nil, verskema.Issues{{Path: verskema.FieldPath(tok.Name), Code: verskema.CodeInvalidSchema, Message: err.Error(), Offset: -1}}
		}
		buf.WriteString(nl + ind + ind)
		buf.Write(key)
		buf.WriteString(":" + sep)
		buf.Write(val)
	}
	if len(w.tokens) > 0 {
		buf.WriteString(nl + ind)
	}
	buf.WriteString("}" + nl + "}\n")
	return buf.Bytes(), nil
}

func encodeValue(v verskema.Value) ([]byte, error) {
	switch v.Kind() {
	case verskema.KindInt:
		return strconv.AppendInt(nil, v.Int(), 10), nil
	case verskema.KindUint:
		return strconv.AppendUint(nil, v.Uint(), 10), nil
	case verskema.KindFloat:
		f := v.Float()
		switch {
		case math.IsNaN(f):
			return []byte(`"NaN"`), nil
		case math.IsInf(f, 1):
			return []byte(`"+Inf"`), nil
		case math.IsInf(f, -1):
			return []byte(`"-Inf"`), nil
		}
		return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
	case verskema.KindString:
		if !utf8.ValidString(v.Str()) {
			return []byte(`{"` + keyBase64 + `":"` + base64.StdEncoding.EncodeToString([]byte(v.Str())) + `"}`), nil
		}
		return j.Marshal(v.Str())
	case verskema.KindBool:
		return strconv.AppendBool(nil, v.Bool()), nil
	}
	return nil, errors.New("unsupported kind " + v.Kind().String())
}
