package engine

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"testing"
)

type sliceSource struct {
	toks []Token
	i    int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *sliceSource) Location() int64 { return int64(s.i) }

func obj(toks ...Token) []Token {
	out := []Token{{Kind: KindBeginObject}}
	out = append(out, toks...)
	return append(out, Token{Kind: KindEndObject})
}

func key(s string) Token { return Token{Kind: KindKey, String: s} }
func num(s string) Token { return Token{Kind: KindNumber, Number: s} }

func TestDecodeAnyFromSource(t *testing.T) {
	src := &sliceSource{toks: obj(
		key("a"), num("1"),
		key("b"), Token{Kind: KindBeginArray}, Token{Kind: KindBool, Bool: true}, Token{Kind: KindNull}, Token{Kind: KindEndArray},
		key("c"), Token{Kind: KindString, String: "x"},
	)}
	got, err := DecodeAnyFromSource(src)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"a": json.Number("1"), "b": []any{true, nil}, "c": "x"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
	if err := ExpectEOF(src); err != nil {
		t.Fatalf("ExpectEOF: %v", err)
	}
}

func TestDecodeAnyFromSource_Truncated(t *testing.T) {
	full := obj(key("a"), num("1"))
	for n := 0; n < len(full); n++ {
		_, err := DecodeAnyFromSource(&sliceSource{toks: full[:n]})
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Fatalf("prefix %d: got %v", n, err)
		}
	}
}

func TestExpectEOF_Trailing(t *testing.T) {
	src := &sliceSource{toks: append(obj(), Token{Kind: KindNull})}
	if _, err := DecodeAnyFromSource(src); err != nil {
		t.Fatal(err)
	}
	if err := ExpectEOF(src); !errors.Is(err, ErrUnexpectedToken) {
		t.Fatalf("got %v", err)
	}
}

func TestEnforcement(t *testing.T) {
	cases := []struct {
		name string
		toks []Token
		opt  EnforceOptions
		path string
	}{
		{"duplicate", obj(key("a"), num("1"), key("a"), num("2")), EnforceOptions{RejectDuplicates: true}, "/a"},
		{"nested duplicate", obj(key("f"), Token{Kind: KindBeginObject}, key("x/y"), num("1"), key("x/y"), num("2"), Token{Kind: KindEndObject}), EnforceOptions{RejectDuplicates: true}, "/f/x~1y"},
		{"depth", obj(key("a"), Token{Kind: KindBeginObject}, Token{Kind: KindEndObject}), EnforceOptions{MaxDepth: 1}, "/a"},
		{"bytes", obj(key("a"), num("1"), key("b"), num("2")), EnforceOptions{MaxBytes: 2}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeAnyFromSource(WrapWithEnforcement(&sliceSource{toks: tc.toks}, tc.opt))
			var ie IssueError
			if !errors.As(err, &ie) {
				t.Fatalf("expected IssueError, got %v", err)
			}
			if ie.Code != "corrupt_archive" {
				t.Fatalf("code = %q", ie.Code)
			}
			if tc.path != "" && ie.Path != tc.path {
				t.Fatalf("path = %q, want %q", ie.Path, tc.path)
			}
		})
	}
}

func TestEnforcement_DuplicatesAllowed(t *testing.T) {
	toks := obj(key("a"), num("1"), key("a"), num("2"))
	got, err := DecodeAnyFromSource(WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{}))
	if err != nil {
		t.Fatal(err)
	}
	if got.(map[string]any)["a"] != json.Number("2") {
		t.Fatalf("last value should win, got %v", got)
	}
}
