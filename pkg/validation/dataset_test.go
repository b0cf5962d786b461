package validation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/validation"
)

func TestValidateDataset_RejectsOversizedInput(t *testing.T) {
	items := make([]any, validation.MaxDatasetItems+1)
	calls := 0
	got, err := validation.ValidateDataset(context.Background(), items, validation.WithProgress(func(int, int) { calls++ }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsValid {
		t.Fatalf("expected oversized dataset to be rejected")
	}
	if calls != 0 {
		t.Fatalf("oversized dataset must be rejected before any batch, got %d batches", calls)
	}
}

func TestValidateDataset_BatchesAndDuplicates(t *testing.T) {
	items := make([]any, 0, 250)
	for i := 0; i < 250; i++ {
		items = append(items, map[string]any{"id": i})
	}
	items[249] = map[string]any{"id": 3}
	items[10] = nil

	var progress [][2]int
	got, err := validation.ValidateDataset(context.Background(), items, validation.WithProgress(func(done, total int) {
		progress = append(progress, [2]int{done, total})
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantProgress := [][2]int{{100, 250}, {200, 250}, {250, 250}}
	if diff := cmp.Diff(wantProgress, progress); diff != "" {
		t.Fatalf("progress mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Item 10 is empty"}, got.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Item 249 duplicates item 3"}, got.Warnings); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateDataset_CanonicalKeyIgnoresMapOrder(t *testing.T) {
	a := map[string]any{"a": 1, "b": 2}
	b := map[string]any{"b": 2, "a": 1}
	got, err := validation.ValidateDataset(context.Background(), []any{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Warnings) != 1 {
		t.Fatalf("expected one duplicate warning, got %v", got.Warnings)
	}
}

func TestValidateDataset_ItemCheck(t *testing.T) {
	items := []any{"ok", "bad", "ok2"}
	got, err := validation.ValidateDataset(context.Background(), items, validation.WithItemCheck(func(_ int, item any) error {
		if item == "bad" {
			return fmt.Errorf("value is not allowed")
		}
		return nil
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"Item 1: value is not allowed"}, got.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateDataset_StopsOnCancellation(t *testing.T) {
	items := make([]any, 500)
	for i := range items {
		items[i] = i
	}

	ctx, cancel := context.WithCancel(context.Background())
	batches := 0
	_, err := validation.ValidateDataset(ctx, items, validation.WithProgress(func(int, int) {
		batches++
		if batches == 2 {
			cancel()
		}
	}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if batches != 2 {
		t.Fatalf("expected the pass to stop after 2 batches, got %d", batches)
	}
}

func TestValidateDataset_NilInput(t *testing.T) {
	got, err := validation.ValidateDataset(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsValid {
		t.Fatalf("expected nil dataset to be invalid")
	}
}
