// Package prefs stores lightweight client preferences as JSON values under
// string keys. Reads never fail from the caller's point of view: missing,
// corrupt or unreadable entries degrade to the caller's default and the cause
// is logged.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrNotFound is returned by stores when a key has no value.
var ErrNotFound = errors.New("prefs: key not found")

// Store is the raw key/value backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Load decodes the value stored under key into a T, returning def when the key
// is missing or anything goes wrong, including a panicking backend.
func Load[T any](ctx context.Context, store Store, key string, def T, logger *zap.Logger) (out T) {
	logger = orNop(logger)
	out = def
	if store == nil {
		return def
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("prefs: read panicked", zap.String("key", key), zap.Any("panic", r))
			out = def
		}
	}()

	raw, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("prefs: read failed", zap.String("key", key), zap.Error(err))
		}
		return def
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		logger.Warn("prefs: corrupt entry", zap.String("key", key), zap.Error(err))
		return def
	}
	return value
}

// Save encodes value as JSON under key. It reports false when the value could
// not be persisted; the failure is logged, never propagated.
func Save[T any](ctx context.Context, store Store, key string, value T, logger *zap.Logger) (ok bool) {
	logger = orNop(logger)
	if store == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("prefs: write panicked", zap.String("key", key), zap.Any("panic", r))
			ok = false
		}
	}()

	raw, err := json.Marshal(value)
	if err != nil {
		logger.Warn("prefs: encode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := store.Set(ctx, key, raw); err != nil {
		logger.Warn("prefs: write failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Remove deletes key, logging failures.
func Remove(ctx context.Context, store Store, key string, logger *zap.Logger) bool {
	if store == nil {
		return false
	}
	if err := store.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		orNop(logger).Warn("prefs: delete failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.values[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
