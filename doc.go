// Package verskema provides:
//
// - Versioned record serialization: an Adapter per record type revision decides,
// field by field, what to write and what to read based on the archive's version tag
// - Pluggable physical encodings behind ArchiveWriter/ArchiveReader (backend/text,
// backend/binary)
// - A stable error model via Issues (path, code, message) with ErrIO,
// ErrCorruptArchive and ErrMissingField sentinels
// - Schema-drift diagnostics delivered to a Sink rather than printed
//
// Design policy:
// - Keep the engine in the root package; put backends under backend/, token drivers
// under source/, orchestration under roundtrip/ and the CLI under cmd/verskema.
// - No process-wide registries: adapters and backends are values passed explicitly.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	type PetV2 struct {
//		Cat int
//		Dog float64
//		Foo string
//	}
//
//	var petV2 = verskema.MustAdapter("pet", 110,
//		func() PetV2 { return PetV2{Foo: "default"} },
//		verskema.Int("cat", func(p *PetV2) *int { return &p.Cat }).Since(100),
//		verskema.Float("dog", func(p *PetV2) *float64 { return &p.Dog }).Since(100),
//		verskema.String("foo", func(p *PetV2) *string { return &p.Foo }).Since(110),
//	)
//
//	err := verskema.EncodeTo(text.New(), w, petV2, PetV2{Cat: 400, Dog: -0.743, Foo: "foo"})
//	p, err := verskema.DecodeFrom(binary.New(), r, petV2.WithSink(collector))
//
// Binary archives are positional: a later revision must append new fields after
// the ones it inherits so that older readers stop before them.
package verskema
