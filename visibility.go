package verskema

// FieldsVisibleAt returns, in declaration order, the fields of rt that an archive
// written at archiveVersion carries. It is the single source of truth for which
// primitives Encode writes (archiveVersion == rt.Version) and which ones Decode
// reads.
func FieldsVisibleAt(rt RecordType, archiveVersion SchemaVersion) []Field {
	out := make([]Field, 0, len(rt.Fields))
	for _, f := range rt.Fields {
		if f.VisibleAt(archiveVersion) {
			out = append(out, f)
		}
	}
	return out
}

// fieldsMissingAt returns the names of live fields of rt introduced after
// archiveVersion. These keep their default value on decode.
func fieldsMissingAt(rt RecordType, archiveVersion SchemaVersion) []string {
	var out []string
	for _, f := range rt.Fields {
		if f.Retired(rt.Version) {
			continue
		}
		if f.Since > archiveVersion {
			out = append(out, f.Name)
		}
	}
	return out
}
