package render_test

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formkit/pkg/render"
)

func TestBoundary_ErrorShowsFallbackUntilReset(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	resets := 0
	boundary := render.NewBoundary("users-table",
		render.WithBoundaryLogger(zap.New(core)),
		render.WithOnReset(func() { resets++ }),
	)

	calls := 0
	failing := func() (string, error) {
		calls++
		return "", errors.New("template exploded: secret-internal-id-42")
	}

	out := boundary.Render(failing)
	if out != render.DefaultFallbackView {
		t.Fatalf("expected fallback view, got %q", out)
	}
	if strings.Contains(out, "secret-internal-id-42") {
		t.Fatalf("fallback leaked internal details")
	}
	failed, id := boundary.Failed()
	if !failed || id == "" {
		t.Fatalf("expected failed boundary with error id, got %v %q", failed, id)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected failure to be logged once, got %d", logs.Len())
	}

	boundary.Render(failing)
	if calls != 1 {
		t.Fatalf("view must not be retried before Reset, calls = %d", calls)
	}

	boundary.Reset()
	if resets != 1 {
		t.Fatalf("expected reset hook to run")
	}
	out = boundary.Render(func() (string, error) { return "<table></table>", nil })
	if out != "<table></table>" {
		t.Fatalf("expected view output after reset, got %q", out)
	}
}

func TestBoundary_RecoversPanics(t *testing.T) {
	boundary := render.NewBoundary("form", render.WithFallbackView("<p>fallback</p>"))
	out := boundary.Render(func() (string, error) {
		var m map[string]int
		m["boom"] = 1
		return "unreachable", nil
	})
	if out != "<p>fallback</p>" {
		t.Fatalf("expected custom fallback, got %q", out)
	}
	if failed, _ := boundary.Failed(); !failed {
		t.Fatalf("expected boundary to be failed after panic")
	}
}
