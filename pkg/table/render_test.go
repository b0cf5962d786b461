package table_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goliatone/go-formkit/pkg/render/views"
	"github.com/goliatone/go-formkit/pkg/table"
)

func TestRenderHTML_EscapesUntrustedCells(t *testing.T) {
	engine, err := views.NewEngine()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	state := table.State{
		Rows: []table.Record{
			{"id": "1", "username": `<script>alert("x")</script>`, "email": "a@example.com"},
			{"id": `"><img src=x onerror=alert(1)>`, "username": "bob"},
		},
		Selected: map[string]bool{"1": true},
		Sort:     table.SortSpec{Column: "username", Direction: table.Descending},
		Page:     table.Pagination{Page: 1, PageSize: 10, TotalCount: 2, TotalPages: 1},
	}

	out, err := table.RenderHTML(engine, userColumns, state, true)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<script>") || strings.Contains(out, "<img") {
		t.Fatalf("untrusted markup rendered unescaped:\n%s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatalf("expected escaped script text:\n%s", out)
	}
	if !strings.Contains(out, `aria-sort="descending"`) {
		t.Fatalf("expected sort indicator:\n%s", out)
	}
	if !strings.Contains(out, "is-selected") {
		t.Fatalf("expected selected row marker:\n%s", out)
	}
}

func TestRenderHTML_EmptyAndError(t *testing.T) {
	engine, err := views.NewEngine()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	state := table.State{
		Error: "The request timed out. Please try again.",
		Page:  table.Pagination{Page: 1, TotalPages: 1},
	}
	out, err := table.RenderHTML(engine, userColumns, state, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{table.EmptyMessage, `data-action="retry"`, "timed out"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderText(t *testing.T) {
	state := table.State{
		Rows: []table.Record{
			{"id": float64(1), "username": "alice\x1b[2J", "email": "alice@example.com", "age": float64(30)},
		},
		Selected: map[string]bool{"1": true},
		Sort:     table.SortSpec{Column: "username", Direction: table.Ascending},
		Page:     table.Pagination{Page: 1, PageSize: 10, TotalCount: 1, TotalPages: 1},
	}

	var buf bytes.Buffer
	if err := table.RenderText(&buf, userColumns, state); err != nil {
		t.Fatalf("render text: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b") {
		t.Fatalf("escape sequence leaked into terminal output: %q", out)
	}
	for _, want := range []string{"Username ^", "* ", "alice[2J", "page 1 of 1 (1 records)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
