package zapsink_test

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	verskema "github.com/reoring/verskema"
	"github.com/reoring/verskema/diag/zapsink"
	"github.com/reoring/verskema/i18n"
)

func TestSink_LogsWarnWithFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := zapsink.New(zap.New(core), i18n.New("en"))
	s.Emit(verskema.Diagnostic{
		Kind:            verskema.PastVersionFieldsDefaulted,
		RecordType:      "pet",
		ArchiveVersion:  100,
		DeclaredVersion: 110,
		Fields:          []string{"foo"},
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.WarnLevel || e.LoggerName != "diagnostics" {
		t.Fatalf("unexpected entry %+v", e.Entry)
	}
	if want := "Warning: reading pet from a previous version (100); foo not initialized."; e.Message != want {
		t.Fatalf("message = %q, want %q", e.Message, want)
	}
	ctx := e.ContextMap()
	if ctx["kind"] != "past_version_fields_defaulted" || ctx["record_type"] != "pet" || ctx["archive_version"] != uint32(100) {
		t.Fatalf("unexpected context %v", ctx)
	}
}

func TestMessage_Future(t *testing.T) {
	msg := zapsink.Message(i18n.New("en"), verskema.Diagnostic{
		Kind:            verskema.FutureVersionFieldsIgnored,
		RecordType:      "pet",
		ArchiveVersion:  110,
		DeclaredVersion: 100,
	})
	if want := "Warning: reading pet from a future version (110); unsupported fields have been ignored."; msg != want {
		t.Fatalf("got %q", msg)
	}
}

func TestSink_UsableAsAdapterSink(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	var s verskema.Sink = zapsink.New(zap.New(core), nil)
	s.Emit(verskema.Diagnostic{Kind: verskema.FutureVersionFieldsIgnored, RecordType: "r"})
	if logs.Len() != 1 {
		t.Fatalf("expected one entry")
	}
}
