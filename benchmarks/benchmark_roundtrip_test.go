package verskema_test

import (
	"bytes"
	"testing"

	verskema "github.com/reoring/verskema"
	"github.com/reoring/verskema/backend/binary"
	"github.com/reoring/verskema/backend/text"
	"github.com/reoring/verskema/source"
)

// ---- Helpers ----

type sample struct {
	ID     uint64
	Name   string
	Score  float64
	Count  int
	Active bool
	Note   string
}

func sampleAdapter(tb testing.TB) *verskema.Adapter[sample] {
	tb.Helper()
	a, err := verskema.NewAdapter("sample", 3, nil,
		verskema.Uint("id", func(s *sample) *uint64 { return &s.ID }).Since(1),
		verskema.String("name", func(s *sample) *string { return &s.Name }).Since(1),
		verskema.Float("score", func(s *sample) *float64 { return &s.Score }).Since(1),
		verskema.Int("count", func(s *sample) *int { return &s.Count }).Since(2),
		verskema.Bool("active", func(s *sample) *bool { return &s.Active }).Since(2),
		verskema.String("note", func(s *sample) *string { return &s.Note }).Since(3),
	)
	if err != nil {
		tb.Fatalf("adapter build failed: %v", err)
	}
	return a
}

func sampleRecord() sample {
	return sample{ID: 42, Name: "alice", Score: 98.25, Count: -3, Active: true, Note: "benchmark record"}
}

func backendsUnderTest() map[string]verskema.Backend {
	return map[string]verskema.Backend{
		"text-gojson":  text.New(),
		"text-stdlib":  text.New(text.WithDriver(source.Stdlib())),
		"text-compact": text.New(text.WithCompact()),
		"binary":       binary.New(),
	}
}

// ---- Benchmarks ----

func BenchmarkEncode(b *testing.B) {
	a := sampleAdapter(b)
	rec := sampleRecord()
	for name, be := range backendsUnderTest() {
		b.Run(name, func(b *testing.B) {
			var buf bytes.Buffer
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				buf.Reset()
				if err := verskema.EncodeTo(be, &buf, a, rec); err != nil {
					b.Fatal(err)
				}
			}
			b.SetBytes(int64(buf.Len()))
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	a := sampleAdapter(b)
	for name, be := range backendsUnderTest() {
		b.Run(name, func(b *testing.B) {
			var buf bytes.Buffer
			if err := verskema.EncodeTo(be, &buf, a, sampleRecord()); err != nil {
				b.Fatal(err)
			}
			data := buf.Bytes()
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := verskema.DecodeFrom(be, bytes.NewReader(data), a); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkDecodeOlderArchive reads a revision-1 archive with the revision-3
// adapter, which emits a PastVersionFieldsDefaulted diagnostic per decode.
func BenchmarkDecodeOlderArchive(b *testing.B) {
	newer := sampleAdapter(b)
	older := verskema.MustAdapter("sample", 1, nil,
		verskema.Uint("id", func(s *sample) *uint64 { return &s.ID }).Since(1),
		verskema.String("name", func(s *sample) *string { return &s.Name }).Since(1),
		verskema.Float("score", func(s *sample) *float64 { return &s.Score }).Since(1),
	)
	col := &verskema.Collector{}
	reader := newer.WithSink(col)
	for name, be := range backendsUnderTest() {
		b.Run(name, func(b *testing.B) {
			var buf bytes.Buffer
			if err := verskema.EncodeTo(be, &buf, older, sampleRecord()); err != nil {
				b.Fatal(err)
			}
			data := buf.Bytes()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := verskema.DecodeFrom(be, bytes.NewReader(data), reader); err != nil {
					b.Fatal(err)
				}
				if i%1024 == 0 {
					col.Reset()
				}
			}
		})
	}
}
