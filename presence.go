package verskema

// Presence is the bit flag collected by DecodeWithMeta.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field was read from the archive.
	PresenceDefaultApplied                      // Field kept its default value.
)

// PresenceMap maps field paths (for example "/fields/foo", see FieldPath) to
// Presence flags.
type PresenceMap map[string]Presence

// Decoded carries the decoded record along with presence metadata and the
// archive header it was read from.
type Decoded[T any] struct {
	Value    T
	Header   ArchiveHeader
	Presence PresenceMap
}

// Seen reports whether field was read from the archive.
func (d Decoded[T]) Seen(field string) bool {
	return d.Presence[FieldPath(field)]&PresenceSeen != 0
}

// DefaultApplied reports whether field kept its default value.
func (d Decoded[T]) DefaultApplied(field string) bool {
	return d.Presence[FieldPath(field)]&PresenceDefaultApplied != 0
}
