package verskema

import "strconv"

// SchemaVersion identifies a record type revision. Versions are totally ordered;
// there is no major/minor split.
type SchemaVersion uint32

func (v SchemaVersion) String() string { return strconv.FormatUint(uint64(v), 10) }

// Kind enumerates the primitive kinds carried by the token stream.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt          // Signed integer, carried as int64.
	KindUint         // Unsigned integer, carried as uint64.
	KindFloat        // IEEE-754 double.
	KindString       // UTF-8 or arbitrary bytes; length is preserved exactly.
	KindBool
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindInt:     "int",
	KindUint:    "uint",
	KindFloat:   "float",
	KindString:  "string",
	KindBool:    "bool",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k names a supported primitive kind.
func (k Kind) Valid() bool { return k > KindInvalid && k <= KindBool }

// Format names a physical archive encoding.
type Format string

const (
	FormatText   Format = "text"   // Self-describing, field-name tagged (JSON).
	FormatBinary Format = "binary" // Compact, position tagged, little-endian.
)

// Field describes one field of a record type revision.
//
// Since is the revision that introduced the field. Until, when non-zero, is the
// revision that dropped it; archives written at Until or later no longer carry it.
type Field struct {
	Name  string
	Kind  Kind
	Since SchemaVersion
	Until SchemaVersion
}

// VisibleAt reports whether an archive written at version v carries the field.
func (f Field) VisibleAt(v SchemaVersion) bool {
	if v < f.Since {
		return false
	}
	return f.Until == 0 || v < f.Until
}

// Retired reports whether the field is no longer part of a revision at version v.
func (f Field) Retired(v SchemaVersion) bool { return f.Until != 0 && v >= f.Until }

// RecordType is a named, ordered field list plus the revision it belongs to.
// Revisions of the same logical entity share Name.
type RecordType struct {
	Name    string
	Version SchemaVersion
	Fields  []Field
}

// ArchiveHeader is written once per archive ahead of any field.
type ArchiveHeader struct {
	TypeName string
	Version  SchemaVersion
}
