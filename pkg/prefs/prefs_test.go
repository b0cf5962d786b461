package prefs_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formkit/pkg/prefs"
)

type tableSettings struct {
	PageSize int    `json:"pageSize"`
	SortBy   string `json:"sortBy"`
}

type brokenStore struct {
	panicOnGet bool
}

func (b brokenStore) Get(context.Context, string) ([]byte, error) {
	if b.panicOnGet {
		panic("storage backend exploded")
	}
	return nil, errors.New("disk unavailable")
}

func (brokenStore) Set(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

func (brokenStore) Delete(context.Context, string) error {
	return errors.New("read only")
}

func TestLoadSave_RoundTripMemory(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore()

	def := tableSettings{PageSize: 10}
	if got := prefs.Load(ctx, store, "users", def, nil); got != def {
		t.Fatalf("missing key should return default, got %+v", got)
	}

	want := tableSettings{PageSize: 50, SortBy: "email"}
	if !prefs.Save(ctx, store, "users", want, nil) {
		t.Fatalf("save failed")
	}
	if diff := cmp.Diff(want, prefs.Load(ctx, store, "users", def, nil)); diff != "" {
		t.Fatalf("loaded settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_CorruptEntryFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore()
	if err := store.Set(ctx, "users", []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	core, logs := observer.New(zapcore.WarnLevel)
	def := tableSettings{PageSize: 25}
	if got := prefs.Load(ctx, store, "users", def, zap.New(core)); got != def {
		t.Fatalf("expected default for corrupt entry, got %+v", got)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected corrupt entry to be logged, got %d entries", logs.Len())
	}
}

func TestLoadSave_FailingBackendDegrades(t *testing.T) {
	ctx := context.Background()
	def := tableSettings{PageSize: 5}

	if got := prefs.Load(ctx, brokenStore{}, "k", def, nil); got != def {
		t.Fatalf("expected default on read error, got %+v", got)
	}
	if got := prefs.Load(ctx, brokenStore{panicOnGet: true}, "k", def, nil); got != def {
		t.Fatalf("expected default on panic, got %+v", got)
	}
	if prefs.Save(ctx, brokenStore{}, "k", def, nil) {
		t.Fatalf("expected save to report failure")
	}
	if prefs.Remove(ctx, brokenStore{}, "k", nil) {
		t.Fatalf("expected remove to report failure")
	}
	if got := prefs.Load[tableSettings](ctx, nil, "k", def, nil); got != def {
		t.Fatalf("nil store must return default")
	}
}

func TestSQLiteStore_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	store, err := prefs.OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	want := tableSettings{PageSize: 20, SortBy: "username"}
	if !prefs.Save(ctx, store, "table:users", want, nil) {
		t.Fatalf("save failed")
	}
	if !prefs.Save(ctx, store, "table:users", want, nil) {
		t.Fatalf("upsert failed")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := prefs.OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer reopened.Close()

	if diff := cmp.Diff(want, prefs.Load(ctx, reopened, "table:users", tableSettings{}, nil)); diff != "" {
		t.Fatalf("persisted settings mismatch (-want +got):\n%s", diff)
	}

	if !prefs.Remove(ctx, reopened, "table:users", nil) {
		t.Fatalf("remove failed")
	}
	if _, err := reopened.Get(ctx, "table:users"); !errors.Is(err, prefs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
