package verskema

import (
	"fmt"
	"strings"
	"sync"
)

// DiagnosticKind classifies a schema-drift signal. Diagnostics are not errors:
// the decode that produced them completed successfully.
type DiagnosticKind uint8

const (
	// FutureVersionFieldsIgnored: the archive came from a later revision; fields
	// this revision does not know were skipped.
	FutureVersionFieldsIgnored DiagnosticKind = iota + 1
	// PastVersionFieldsDefaulted: the archive came from an earlier revision; fields
	// introduced since keep their default value.
	PastVersionFieldsDefaulted
)

func (k DiagnosticKind) String() string {
	switch k {
	case FutureVersionFieldsIgnored:
		return "future_version_fields_ignored"
	case PastVersionFieldsDefaulted:
		return "past_version_fields_defaulted"
	}
	return fmt.Sprintf("diagnostic(%d)", uint8(k))
}

// Diagnostic is one schema-drift event.
type Diagnostic struct {
	Kind            DiagnosticKind
	RecordType      string
	ArchiveVersion  SchemaVersion
	DeclaredVersion SchemaVersion
	// Fields lists the defaulted fields for PastVersionFieldsDefaulted. It is empty
	// for FutureVersionFieldsIgnored since the skipped fields are unknown.
	Fields []string
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s archive=%d declared=%d", d.Kind, d.RecordType, d.ArchiveVersion, d.DeclaredVersion)
	if len(d.Fields) > 0 {
		s += " fields=" + strings.Join(d.Fields, ",")
	}
	return s
}

// Sink receives diagnostics. Emit must not block; it cannot fail the decode.
type Sink interface {
	Emit(Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Emit(d Diagnostic) { f(d) }

// NopSink drops every diagnostic.
type NopSink struct{}

func (NopSink) Emit(Diagnostic) {}

// Collector retains diagnostics in emission order. Safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	events []Diagnostic
}

func (c *Collector) Emit(d Diagnostic) {
	c.mu.Lock()
	c.events = append(c.events, d)
	c.mu.Unlock()
}

// Events returns a copy of the collected diagnostics.
func (c *Collector) Events() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.events...)
}

// Count returns the number of collected diagnostics of kind k.
func (c *Collector) Count(k DiagnosticKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.events {
		if d.Kind == k {
			n++
		}
	}
	return n
}

// Reset drops collected diagnostics.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.events = nil
	c.mu.Unlock()
}

// emit hands d to s. A panicking sink is contained here so that observability
// never changes the outcome of a decode.
func emit(s Sink, d Diagnostic) {
	if s == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			Logger().Sugar().Warnf("diagnostic sink panicked: %v", r)
		}
	}()
	s.Emit(d)
}
