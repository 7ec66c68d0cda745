package secret

import (
	"strings"
	"testing"
)

func TestExpandEnvStrict_SubstitutesBracedRefs(t *testing.T) {
	t.Setenv("SEARCHGATE_REMOTE_URL", "https://search.example.com")
	t.Setenv("SEARCHGATE_API_KEY", "pk-1")

	doc := "base_url: ${SEARCHGATE_REMOTE_URL}\napi_key: ${SEARCHGATE_API_KEY}\n"
	out, err := ExpandEnvStrict(doc)
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	want := "base_url: https://search.example.com\napi_key: pk-1\n"
	if out != want {
		t.Errorf("ExpandEnvStrict() = %q, want %q", out, want)
	}
}

func TestExpandEnvStrict_UnsetVariablesListedOnce(t *testing.T) {
	t.Setenv("SEARCHGATE_PRESENT", "ok")

	_, err := ExpandEnvStrict("${SEARCHGATE_GONE} ${SEARCHGATE_PRESENT} ${SEARCHGATE_GONE} ${SEARCHGATE_ALSO_GONE}")
	if err == nil {
		t.Fatal("expected error for unset variables")
	}
	msg := err.Error()
	if !strings.Contains(msg, "SEARCHGATE_ALSO_GONE, SEARCHGATE_GONE") {
		t.Errorf("expected sorted unset names in error, got: %v", err)
	}
	if strings.Count(msg, "SEARCHGATE_GONE") != 2 {
		// once standalone, once inside SEARCHGATE_ALSO_GONE
		t.Errorf("expected repeated variable reported once, got: %v", err)
	}
	if strings.Contains(msg, "SEARCHGATE_PRESENT") {
		t.Errorf("set variable should not be reported: %v", err)
	}
}

func TestExpandEnvStrict_DollarEscape(t *testing.T) {
	t.Setenv("SEARCHGATE_API_KEY", "pk-1")

	out, err := ExpandEnvStrict("cost: $$5, key: ${SEARCHGATE_API_KEY}")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if out != "cost: $5, key: pk-1" {
		t.Errorf("ExpandEnvStrict() = %q", out)
	}
}

func TestExpandEnvStrict_PlainTextUntouched(t *testing.T) {
	out, err := ExpandEnvStrict("query: applicant:\"Acme Corp\"")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if out != "query: applicant:\"Acme Corp\"" {
		t.Errorf("ExpandEnvStrict() = %q, want input unchanged", out)
	}
}
