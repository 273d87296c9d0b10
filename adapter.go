package verskema

import "go.uber.org/zap"

// Signed, Unsigned and Floating constrain the Go types a binding may select.
type (
	Signed interface {
		~int | ~int8 | ~int16 | ~int32 | ~int64
	}
	Unsigned interface {
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
	}
	Floating interface {
		~float32 | ~float64
	}
)

// FieldBinding ties a Field descriptor to accessors on the record type T.
// Bindings are the only way the codec reaches into a record; build them with
// Int, Uint, Float, String, Bool, Via or Retired.
type FieldBinding[T any] struct {
	desc Field
	get  func(*T) Value
	set  func(*T, Value) error // nil for retired fields
}

// Since marks the revision that introduced the field.
func (b FieldBinding[T]) Since(v SchemaVersion) FieldBinding[T] {
	b.desc.Since = v
	return b
}

// Until marks the revision that dropped the field.
func (b FieldBinding[T]) Until(v SchemaVersion) FieldBinding[T] {
	b.desc.Until = v
	return b
}

// Field returns the descriptor of the binding.
func (b FieldBinding[T]) Field() Field { return b.desc }

// Int binds a signed integer field.
func Int[T any, N Signed](name string, sel func(*T) *N) FieldBinding[T] {
	return FieldBinding[T]{
		desc: Field{Name: name, Kind: KindInt},
		get:  func(r *T) Value { return IntValue(int64(*sel(r))) },
		set: func(r *T, v Value) error {
			n := N(v.Int())
			if int64(n) != v.Int() {
				return CorruptArchive(FieldPath(name), "integer "+v.String()+" overflows field", -1, nil)
			}
			*sel(r) = n
			return nil
		},
	}
}

// Uint binds an unsigned integer field.
func Uint[T any, N Unsigned](name string, sel func(*T) *N) FieldBinding[T] {
	return FieldBinding[T]{
		desc: Field{Name: name, Kind: KindUint},
		get:  func(r *T) Value { return UintValue(uint64(*sel(r))) },
		set: func(r *T, v Value) error {
			n := N(v.Uint())
			if uint64(n) != v.Uint() {
				return CorruptArchive(FieldPath(name), "integer "+v.String()+" overflows field", -1, nil)
			}
			*sel(r) = n
			return nil
		},
	}
}

// Float binds a floating point field. float32 fields are widened on encode and
// narrowed on decode.
func Float[T any, N Floating](name string, sel func(*T) *N) FieldBinding[T] {
	return FieldBinding[T]{
		desc: Field{Name: name, Kind: KindFloat},
		get:  func(r *T) Value { return FloatValue(float64(*sel(r))) },
		set: func(r *T, v Value) error {
			*sel(r) = N(v.Float())
			return nil
		},
	}
}

// String binds a string field.
func String[T any, S ~string](name string, sel func(*T) *S) FieldBinding[T] {
	return FieldBinding[T]{
		desc: Field{Name: name, Kind: KindString},
		get:  func(r *T) Value { return StringValue(string(*sel(r))) },
		set: func(r *T, v Value) error {
			*sel(r) = S(v.Str())
			return nil
		},
	}
}

// Bool binds a boolean field.
func Bool[T any, B ~bool](name string, sel func(*T) *B) FieldBinding[T] {
	return FieldBinding[T]{
		desc: Field{Name: name, Kind: KindBool},
		get:  func(r *T) Value { return BoolValue(bool(*sel(r))) },
		set: func(r *T, v Value) error {
			*sel(r) = B(v.Bool())
			return nil
		},
	}
}

// Codec maps a Go type that is not a primitive onto one primitive kind.
type Codec[V any] interface {
	Kind() Kind
	Encode(v V) Value
	Decode(v Value) (V, error)
}

// Via binds a field whose value is converted by c. A Decode failure is a
// CorruptArchive failure of that field.
func Via[T, V any](name string, c Codec[V], sel func(*T) *V) FieldBinding[T] {
	return FieldBinding[T]{
		desc: Field{Name: name, Kind: c.Kind()},
		get:  func(r *T) Value { return c.Encode(*sel(r)) },
		set: func(r *T, v Value) error {
			d, err := c.Decode(v)
			if err != nil {
				return CorruptArchive(FieldPath(name), err.Error(), -1, err)
			}
			*sel(r) = d
			return nil
		},
	}
}

// Retired declares a field that existed in [since, until) and is no longer part
// of T. Archives from that range still carry it, so it is read and discarded.
func Retired[T any](name string, kind Kind, since, until SchemaVersion) FieldBinding[T] {
	return FieldBinding[T]{desc: Field{Name: name, Kind: kind, Since: since, Until: until}}
}

// Adapter maps records of one record type revision to and from archives.
// An Adapter is immutable and safe for concurrent use.
type Adapter[T any] struct {
	typ       RecordType
	bindings  []FieldBinding[T]
	newRecord func() T
	sink      Sink
}

// NewAdapter builds the adapter of a record type revision. newRecord returns a
// default-initialized record; its field values are the defaults kept for fields
// an older archive does not carry. A nil newRecord yields the zero T.
func NewAdapter[T any](name string, version SchemaVersion, newRecord func() T, bindings ...FieldBinding[T]) (*Adapter[T], error) {
	var iss Issues
	if name == "" {
		iss = AppendIssues(iss, invalidSchema("/", "record type name is empty"))
	}
	seen := make(map[string]struct{}, len(bindings))
	fields := make([]Field, 0, len(bindings))
	for _, b := range bindings {
		f := b.desc
		path := FieldPath(f.Name)
		switch {
		case f.Name == "":
			iss = AppendIssues(iss, invalidSchema("/fields", "field name is empty"))
		case !f.Kind.Valid():
			iss = AppendIssues(iss, invalidSchema(path, "unsupported kind %s", f.Kind))
		case f.Since > version:
			iss = AppendIssues(iss, invalidSchema(path, "introduced at %d after declared version %d", f.Since, version))
		case f.Until != 0 && f.Until <= f.Since:
			iss = AppendIssues(iss, invalidSchema(path, "retired at %d before introduction at %d", f.Until, f.Since))
		case b.set == nil && !f.Retired(version):
			iss = AppendIssues(iss, invalidSchema(path, "field has no accessor but is live at %d", version))
		}
		if _, dup := seen[f.Name]; dup && f.Name != "" {
			iss = AppendIssues(iss, invalidSchema(path, "duplicate field"))
		}
		seen[f.Name] = struct{}{}
		fields = append(fields, f)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	if newRecord == nil {
		newRecord = func() T { var zero T; return zero }
	}
	return &Adapter[T]{
		typ:       RecordType{Name: name, Version: version, Fields: fields},
		bindings:  append([]FieldBinding[T](nil), bindings...),
		newRecord: newRecord,
		sink:      NopSink{},
	}, nil
}

// MustAdapter is like NewAdapter but panics on an invalid field list. Intended
// for package-level adapter variables.
func MustAdapter[T any](name string, version SchemaVersion, newRecord func() T, bindings ...FieldBinding[T]) *Adapter[T] {
	a, err := NewAdapter(name, version, newRecord, bindings...)
	if err != nil {
		panic("verskema.MustAdapter: " + err.Error())
	}
	return a
}

// WithSink returns a copy of a that reports diagnostics to s.
func (a *Adapter[T]) WithSink(s Sink) *Adapter[T] {
	if s == nil {
		s = NopSink{}
	}
	cp := *a
	cp.sink = s
	return &cp
}

// Type returns the record type revision the adapter handles.
func (a *Adapter[T]) Type() RecordType {
	rt := a.typ
	rt.Fields = append([]Field(nil), a.typ.Fields...)
	return rt
}

// Version returns the declared version.
func (a *Adapter[T]) Version() SchemaVersion { return a.typ.Version }

// New returns a default-initialized record.
func (a *Adapter[T]) New() T { return a.newRecord() }

// Encode writes the header with the declared version, then every field defined
// at that version.
func (a *Adapter[T]) Encode(rec T, w ArchiveWriter) error {
	if err := w.BeginRecord(a.typ.Name, a.typ.Version); err != nil {
		return err
	}
	for _, b := range a.bindings {
		if !b.desc.VisibleAt(a.typ.Version) {
			continue
		}
		if err := WritePrimitive(w, b.desc.Name, b.get(&rec)); err != nil {
			return err
		}
	}
	if err := w.EndRecord(); err != nil {
		return err
	}
	Logger().Debug("record encoded",
		zap.String("type", a.typ.Name),
		zap.Uint32("version", uint32(a.typ.Version)))
	return nil
}

// Decode reads one record. The fields read are exactly those visible at the
// archive's version; see FieldsVisibleAt.
func (a *Adapter[T]) Decode(r ArchiveReader) (T, error) {
	dm, err := a.DecodeWithMeta(r)
	return dm.Value, err
}

// DecodeWithMeta is Decode plus per-field presence and the archive header.
func (a *Adapter[T]) DecodeWithMeta(r ArchiveReader) (Decoded[T], error) {
	var zero Decoded[T]
	hdr, err := r.BeginRecord()
	if err != nil {
		return zero, err
	}
	if hdr.TypeName != a.typ.Name {
		return zero, CorruptArchive("/type", "record type "+hdr.TypeName+" does not match "+a.typ.Name, -1, nil)
	}

	rec := a.newRecord()
	pm := make(PresenceMap, len(a.bindings))
	for _, b := range a.bindings {
		f := b.desc
		if !f.VisibleAt(hdr.Version) {
			if !f.Retired(a.typ.Version) {
				pm[FieldPath(f.Name)] = PresenceDefaultApplied
			}
			continue
		}
		v, err := ReadPrimitive(r, f.Name, f.Kind)
		if err != nil {
			return zero, err
		}
		if b.set == nil {
			continue
		}
		if err := b.set(&rec, v); err != nil {
			return zero, err
		}
		pm[FieldPath(f.Name)] = PresenceSeen
	}
	if err := r.EndRecord(); err != nil {
		return zero, err
	}

	if hdr.Version > a.typ.Version {
		emit(a.sink, Diagnostic{
			Kind:            FutureVersionFieldsIgnored,
			RecordType:      a.typ.Name,
			ArchiveVersion:  hdr.Version,
			DeclaredVersion: a.typ.Version,
		})
	}
	if missing := fieldsMissingAt(a.typ, hdr.Version); len(missing) > 0 {
		emit(a.sink, Diagnostic{
			Kind:            PastVersionFieldsDefaulted,
			RecordType:      a.typ.Name,
			ArchiveVersion:  hdr.Version,
			DeclaredVersion: a.typ.Version,
			Fields:          missing,
		})
	}
	Logger().Debug("record decoded",
		zap.String("type", a.typ.Name),
		zap.Uint32("archive_version", uint32(hdr.Version)),
		zap.Uint32("declared_version", uint32(a.typ.Version)))
	return Decoded[T]{Value: rec, Header: hdr, Presence: pm}, nil
}
