package validation_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formkit/pkg/validation"
)

func TestSanitizeHTML_StripsMarkup(t *testing.T) {
	got := validation.SanitizeHTML(`<script>alert(1)</script><b>Hello</b> & "friends"`)
	if strings.Contains(got, "<") || strings.Contains(got, "script") {
		t.Fatalf("markup survived sanitising: %q", got)
	}
	if !strings.Contains(got, "Hello") {
		t.Fatalf("text content lost: %q", got)
	}
	if !strings.Contains(got, "&amp;") {
		t.Fatalf("expected ampersand to be escaped: %q", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd": "etcpasswd",
		"my report.pdf":    "myreport.pdf",
		"<>":               "file",
		"ok_name-1.txt":    "ok_name-1.txt",
	}
	for in, want := range cases {
		if got := validation.SanitizeFilename(in); got != want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
