package verskema

// Field codec: typed helpers over ArchiveWriter/ArchiveReader. Every backend sees
// the same primitive sequence for the same calls.

// WritePrimitive appends a named primitive to the token stream.
func WritePrimitive(w ArchiveWriter, name string, v Value) error {
	return w.WritePrimitive(Token{Name: name, Value: v})
}

// ReadPrimitive consumes the next primitive. Text archives match by name, binary
// archives by position. A value of another kind is a CorruptArchive failure.
func ReadPrimitive(r ArchiveReader, name string, kind Kind) (Value, error) {
	v, err := r.ReadPrimitive(name, kind)
	if err != nil {
		return Value{}, err
	}
	if v.Kind() != kind {
		return Value{}, CorruptArchive(FieldPath(name), "expected "+kind.String()+", found "+v.Kind().String(), -1, nil)
	}
	return v, nil
}

func WriteInt(w ArchiveWriter, name string, v int64) error {
	return WritePrimitive(w, name, IntValue(v))
}

func WriteUint(w ArchiveWriter, name string, v uint64) error {
	return WritePrimitive(w, name, UintValue(v))
}

func WriteFloat(w ArchiveWriter, name string, v float64) error {
	return WritePrimitive(w, name, FloatValue(v))
}

func WriteString(w ArchiveWriter, name string, v string) error {
	return WritePrimitive(w, name, StringValue(v))
}

func WriteBool(w ArchiveWriter, name string, v bool) error {
	return WritePrimitive(w, name, BoolValue(v))
}

func ReadInt(r ArchiveReader, name string) (int64, error) {
	v, err := ReadPrimitive(r, name, KindInt)
	return v.Int(), err
}

func ReadUint(r ArchiveReader, name string) (uint64, error) {
	v, err := ReadPrimitive(r, name, KindUint)
	return v.Uint(), err
}

func ReadFloat(r ArchiveReader, name string) (float64, error) {
	v, err := ReadPrimitive(r, name, KindFloat)
	return v.Float(), err
}

func ReadString(r ArchiveReader, name string) (string, error) {
	v, err := ReadPrimitive(r, name, KindString)
	return v.Str(), err
}

func ReadBool(r ArchiveReader, name string) (bool, error) {
	v, err := ReadPrimitive(r, name, KindBool)
	return v.Bool(), err
}
