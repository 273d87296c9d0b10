package verskema_test

import (
	"strings"
	"sync"
	"testing"

	verskema "github.com/reoring/verskema"
)

func TestCollector_ConcurrentEmit(t *testing.T) {
	col := &verskema.Collector{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				col.Emit(verskema.Diagnostic{Kind: verskema.FutureVersionFieldsIgnored})
			}
		}()
	}
	wg.Wait()
	if n := col.Count(verskema.FutureVersionFieldsIgnored); n != 800 {
		t.Fatalf("count = %d, want 800", n)
	}
	col.Reset()
	if len(col.Events()) != 0 {
		t.Fatalf("reset did not clear events")
	}
}

func TestDiagnostic_String(t *testing.T) {
	d := verskema.Diagnostic{
		Kind:            verskema.PastVersionFieldsDefaulted,
		RecordType:      "pet",
		ArchiveVersion:  100,
		DeclaredVersion: 110,
		Fields:          []string{"foo"},
	}
	s := d.String()
	for _, want := range []string{"past_version_fields_defaulted", "pet", "archive=100", "declared=110", "fields=foo"} {
		if !strings.Contains(s, want) {
			t.Fatalf("%q missing %q", s, want)
		}
	}
}
