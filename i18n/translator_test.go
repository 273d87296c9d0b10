package i18n

import (
	"strings"
	"testing"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	en := New("")
	if msg := en.Message("corrupt_archive", nil); msg == "corrupt_archive" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	ja := New("ja")
	if msg := ja.Message("corrupt_archive", nil); msg == "corrupt archive" {
		t.Fatalf("expected japanese message, got %q", msg)
	}
}

func TestTranslator_ExpandsPlaceholders(t *testing.T) {
	msg := New("en").Message("past_version_fields_defaulted", map[string]string{
		"type":    "pet",
		"archive": "100",
		"fields":  "foo",
	})
	for _, want := range []string{"pet", "100", "foo not initialized"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q does not contain %q", msg, want)
		}
	}
	if strings.Contains(msg, "{") {
		t.Fatalf("unexpanded placeholder in %q", msg)
	}
}

func TestTranslator_UnknownCodeEchoes(t *testing.T) {
	if msg := New("en").Message("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected code echo, got %q", msg)
	}
}
