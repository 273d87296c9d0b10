package verskema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeIOError        = "io_error"
	CodeCorruptArchive = "corrupt_archive"
	CodeMissingField   = "missing_field"
	CodeInvalidSchema  = "invalid_schema"
)

// Sentinels matched by errors.Is against Issues carrying the corresponding code.
var (
	ErrIO             = errors.New("verskema: i/o error")
	ErrCorruptArchive = errors.New("verskema: corrupt archive")
	ErrMissingField   = errors.New("verskema: missing field")
	ErrInvalidSchema  = errors.New("verskema: invalid schema")

	// ErrRecordFraming is the cause carried by FramingError.
	ErrRecordFraming = errors.New("verskema: record framing out of order")
)

// Issue represents a single failure entry.
type Issue struct {
	Path    string // Field path inside the archive (for example: /fields/foo).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	Offset  int64 // Byte offset in the archive (-1 when unknown).
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. missing_field at /fields/foo: field not present
		fmt.Fprintf(b, "%s at %s", it.Code, it.pathOrRoot())
		if it.Message != "" {
			b.WriteString(": ")
			b.WriteString(it.Message)
		}
		if it.Cause != nil {
			b.WriteString(" (")
			b.WriteString(it.Cause.Error())
			b.WriteByte(')')
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports whether any issue carries the code that target stands for.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		if sentinelFor(it.Code) == target {
			return true
		}
	}
	return false
}

// Unwrap exposes the underlying causes to errors.Is/As.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// HasCode reports whether any issue carries code.
func (iss Issues) HasCode(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

func (it Issue) pathOrRoot() string {
	if it.Path == "" {
		return "/"
	}
	return it.Path
}

func sentinelFor(code string) error {
	switch code {
	case CodeIOError:
		return ErrIO
	case CodeCorruptArchive:
		return ErrCorruptArchive
	case CodeMissingField:
		return ErrMissingField
	case CodeInvalidSchema:
		return ErrInvalidSchema
	}
	return nil
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IOError wraps a sink/source failure.
func IOError(msg string, cause error) error {
	return Issues{{Code: CodeIOError, Message: msg, Cause: cause, Offset: -1}}
}

// CorruptArchive reports structurally invalid archive bytes.
func CorruptArchive(path, msg string, offset int64, cause error) error {
	return Issues{{Path: path, Code: CodeCorruptArchive, Message: msg, Cause: cause, Offset: offset}}
}

// MissingField reports a primitive the archive cannot supply.
func MissingField(path, msg string, offset int64) error {
	return Issues{{Path: path, Code: CodeMissingField, Message: msg, Offset: offset}}
}

// FramingError reports an archive writer or reader whose BeginRecord,
// primitive and EndRecord calls were made out of order.
func FramingError(backend string) error {
	return Issues{{Path: "/", Code: CodeInvalidSchema, Message: backend + ": record framing out of order", Cause: ErrRecordFraming, Offset: -1}}
}

// FieldPath renders the archive path of a named field.
func FieldPath(name string) string { return "/fields/" + name }

func invalidSchema(path, format string, args ...any) Issue {
	return Issue{Path: path, Code: CodeInvalidSchema, Message: fmt.Sprintf(format, args...), Offset: -1}
}
