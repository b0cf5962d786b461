package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-formkit/internal/config"
)

func TestValidateFile_ReportsSafeName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quarterly report (final).txt")
	if err := os.WriteFile(path, []byte("plain text body\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	result, safeName, err := validateFile(path)
	if err != nil {
		t.Fatalf("validate file: %v", err)
	}
	if safeName != "quarterlyreportfinal.txt" {
		t.Fatalf("unexpected safe name %q", safeName)
	}
	if !result.IsValid {
		t.Fatalf("expected plain text file to pass, got %v", result.Errors)
	}
}

func TestValidateAPIKey_UsesConfiguredKey(t *testing.T) {
	prev := cfg
	t.Cleanup(func() { cfg = prev })

	cfg = config.Config{APIKey: "fk_live_0123456789"}
	if got := validateAPIKey("fk_live_0123456789"); !got.IsValid {
		t.Fatalf("expected configured key to match, got %v", got.Errors)
	}
	if got := validateAPIKey("fk_live_wrong"); got.IsValid {
		t.Fatalf("expected mismatch to be rejected")
	}
}
