package i18n

import (
	"strings"
	"testing"
)

func TestDefaultMessages(t *testing.T) {
	if got := T("invalid_type", map[string]any{"expected": "string", "got": "number"}); got != "expected string, got number" {
		t.Fatalf("got %q", got)
	}
	if got := T("too_small", map[string]any{"minimum": 3}); !strings.Contains(got, "3") {
		t.Fatalf("got %q", got)
	}
	if got := T("invalid_string", map[string]any{"format": "email"}); got != "invalid email" {
		t.Fatalf("got %q", got)
	}
	if got := T("unrecognized_keys", map[string]any{"key": "extra"}); !strings.Contains(got, `"extra"`) {
		t.Fatalf("got %q", got)
	}
	// messages degrade gracefully without parameters
	if got := T("too_big", nil); got != "too big" {
		t.Fatalf("got %q", got)
	}
	// unknown codes echo the code itself
	if got := T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("got %q", got)
	}
}

func TestSetLanguage(t *testing.T) {
	SetLanguage("ja")
	defer SetLanguage("en")
	if got := T("invalid_type", nil); got != "型が不正です" {
		t.Fatalf("got %q", got)
	}
	// unsupported languages fall back to english
	SetLanguage("xx")
	if got := T("too_small", nil); got != "too small" {
		t.Fatalf("got %q", got)
	}
}

type prefixTranslator struct{}

func (prefixTranslator) Message(code string, data map[string]any) string { return "E:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(prefixTranslator{})
	defer SetTranslator(nil)
	if got := T("too_small", nil); got != "E:too_small" {
		t.Fatalf("got %q", got)
	}
	SetTranslator(nil)
	if got := T("too_small", nil); got != "too small" {
		t.Fatalf("got %q", got)
	}
}
