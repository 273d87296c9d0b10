package text

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"

	j "github.com/goccy/go-json"

	verskema "github.com/reoring/verskema"
	eng "github.com/reoring/verskema/internal/engine"
)

type reader struct {
	header verskema.ArchiveHeader
	fields map[string]any
	begun  bool
}

func (b *Backend) NewReader(r io.Reader) (verskema.ArchiveReader, error) {
	src := r
	if b.maxBytes > 0 {
		src = io.LimitReader(r, b.maxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, verskema.IOError("reading text archive", err)
	}
	if b.maxBytes > 0 && int64(len(data)) > b.maxBytes {
		return nil, verskema.CorruptArchive("/", "archive exceeds "+strconv.FormatInt(b.maxBytes, 10)+" bytes", b.maxBytes, nil)
	}
	if err := checkSyntax(data); err != nil {
		return nil, err
	}
	return parse(b.driver.NewReader(bytes.NewReader(data)))
}

// checkSyntax rejects documents that are not well-formed JSON. Token drivers
// only see values and delimiters, so separators are checked here.
func checkSyntax(data []byte) error {
	if j.Valid(data) {
		return nil
	}
	var v any
	err := j.Unmarshal(data, &v)
	offset := int64(-1)
	var se *j.SyntaxError
	if errors.As(err, &se) {
		offset = se.Offset
	}
	return verskema.CorruptArchive("/", "malformed JSON", offset, err)
}

func parse(ts eng.TokenSource) (*reader, error) {
	src := eng.WrapWithEnforcement(ts, eng.EnforceOptions{RejectDuplicates: true, MaxDepth: maxDepth})
	doc, err := eng.DecodeAnyFromSource(src)
	if err != nil {
		return nil, toCorrupt(err, src.Location())
	}
	if err := eng.ExpectEOF(src); err != nil {
		return nil, toCorrupt(errors.New("trailing data after archive"), src.Location())
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, verskema.CorruptArchive("/", "archive is not an object", -1, nil)
	}
	name, ok := m[keyType].(string)
	if !ok {
		return nil, verskema.CorruptArchive("/"+keyType, "missing or non-string record type", -1, nil)
	}
	num, ok := m[keyVersion].(json.Number)
	if !ok {
		return nil, verskema.CorruptArchive("/"+keyVersion, "missing or non-numeric version", -1, nil)
	}
	ver, err := strconv.ParseUint(num.String(), 10, 32)
	if err != nil {
		return nil, verskema.CorruptArchive("/"+keyVersion, "version is not a 32-bit unsigned integer", -1, err)
	}
	fields, ok := m[keyFields].(map[string]any)
	if !ok {
		return nil, verskema.CorruptArchive("/"+keyFields, "missing or non-object fields", -1, nil)
	}
	return &reader{
		header: verskema.ArchiveHeader{TypeName: name, Version: verskema.SchemaVersion(ver)},
		fields: fields,
	}, nil
}

func toCorrupt(err error, offset int64) error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return verskema.CorruptArchive(ie.Path, ie.Message, ie.Offset, nil)
	}
	return verskema.CorruptArchive("/", "malformed JSON", offset, err)
}

func (r *reader) BeginRecord() (verskema.ArchiveHeader, error) {
	if r.begun {
		return verskema.ArchiveHeader{}, errRecordState
	}
	r.begun = true
	return r.header, nil
}

func (r *reader) ReadPrimitive(name string, kind verskema.Kind) (verskema.Value, error) {
	if !r.begun {
		return verskema.Value{}, errRecordState
	}
	path := verskema.FieldPath(name)
	raw, ok := r.fields[name]
	if !ok {
		return verskema.Value{}, verskema.MissingField(path, "field not present in archive", -1)
	}
	v, err := decodeValue(raw, kind)
	if err != nil {
		return verskema.Value{}, verskema.CorruptArchive(path, err.Error(), -1, nil)
	}
	return v, nil
}

func (r *reader) EndRecord() error {
	if !r.begun {
		return errRecordState
	}
	return nil
}

func decodeValue(raw any, kind verskema.Kind) (verskema.Value, error) {
	switch kind {
	case verskema.KindInt:
		if n, ok := raw.(json.Number); ok {
			i, err := strconv.ParseInt(n.String(), 10, 64)
			if err != nil {
				return verskema.Value{}, errors.New("not a 64-bit integer: " + n.String())
			}
			return verskema.IntValue(i), nil
		}
	case verskema.KindUint:
		if n, ok := raw.(json.Number); ok {
			u, err := strconv.ParseUint(n.String(), 10, 64)
			if err != nil {
				return verskema.Value{}, errors.New("not a 64-bit unsigned integer: " + n.String())
			}
			return verskema.UintValue(u), nil
		}
	case verskema.KindFloat:
		switch t := raw.(type) {
		case json.Number:
			f, err := strconv.ParseFloat(t.String(), 64)
			if err != nil {
				return verskema.Value{}, errors.New("not a float: " + t.String())
			}
			return verskema.FloatValue(f), nil
		case string:
			switch t {
			case "NaN":
				return verskema.FloatValue(math.NaN()), nil
			case "+Inf":
				return verskema.FloatValue(math.Inf(1)), nil
			case "-Inf":
				return verskema.FloatValue(math.Inf(-1)), nil
			}
		}
	case verskema.KindString:
		switch t := raw.(type) {
		case string:
			return verskema.StringValue(t), nil
		case map[string]any:
			if enc, ok := t[keyBase64].(string); ok && len(t) == 1 {
				b, err := base64.StdEncoding.DecodeString(enc)
				if err != nil {
					return verskema.Value{}, errors.New("invalid base64 string")
				}
				return verskema.StringValue(string(b)), nil
			}
		}
	case verskema.KindBool:
		if b, ok := raw.(bool); ok {
			return verskema.BoolValue(b), nil
		}
	}
	return verskema.Value{}, errors.New("expected " + kind.String() + ", found " + describe(raw))
}

func describe(raw any) string {
	switch raw.(type) {
	case json.Number:
		return "number"
	case string:
		return "string"
	case bool:
		return "bool"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	}
	return "unknown"
}
