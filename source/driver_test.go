package source_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	eng "github.com/reoring/verskema/internal/engine"
	"github.com/reoring/verskema/source"
)

func kinds(t *testing.T, ts eng.TokenSource) []eng.Kind {
	t.Helper()
	var out []eng.Kind
	for {
		tok, err := ts.NextToken()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		out = append(out, tok.Kind)
	}
}

func TestDrivers_TokenStreamsAgree(t *testing.T) {
	doc := `{"type":"pet","version":110,"fields":{"cat":400,"dog":-0.743,"s":"v","b":true,"n":null,"a":[1,"x"]}}`
	want := []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindString,
		eng.KindKey, eng.KindNumber,
		eng.KindKey, eng.KindBeginObject,
		eng.KindKey, eng.KindNumber,
		eng.KindKey, eng.KindNumber,
		eng.KindKey, eng.KindString,
		eng.KindKey, eng.KindBool,
		eng.KindKey, eng.KindNull,
		eng.KindKey, eng.KindBeginArray, eng.KindNumber, eng.KindString, eng.KindEndArray,
		eng.KindEndObject,
		eng.KindEndObject,
	}
	for _, d := range []source.Driver{source.Default(), source.Stdlib()} {
		got := kinds(t, d.NewReader(strings.NewReader(doc)))
		if len(got) != len(want) {
			t.Fatalf("%s: %d tokens, want %d", d.Name(), len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s: token %d kind %v, want %v", d.Name(), i, got[i], want[i])
			}
		}
	}
}

func TestDrivers_NumbersKeepText(t *testing.T) {
	for _, d := range []source.Driver{source.Default(), source.Stdlib()} {
		v, err := eng.DecodeAnyFromSource(d.NewReader(strings.NewReader(`18446744073709551615`)))
		if err != nil {
			t.Fatalf("%s: %v", d.Name(), err)
		}
		if s, ok := v.(interface{ String() string }); !ok || s.String() != "18446744073709551615" {
			t.Fatalf("%s: number lost precision: %v", d.Name(), v)
		}
	}
}

func TestByName(t *testing.T) {
	cases := map[string]string{
		"":              "go-json",
		"go-json":       "go-json",
		"gojson":        "go-json",
		"encoding/json": "encoding/json",
		"stdlib":        "encoding/json",
	}
	for in, want := range cases {
		d, ok := source.ByName(in)
		if !ok || d.Name() != want {
			t.Fatalf("ByName(%q) = %v, %v", in, d, ok)
		}
	}
	if _, ok := source.ByName("jsonv2"); ok {
		t.Fatalf("unknown driver accepted")
	}
}
