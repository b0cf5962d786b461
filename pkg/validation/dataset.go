package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
)

const (
	// DatasetBatchSize is the number of items checked between yields.
	DatasetBatchSize = 100
	// MaxDatasetItems is the hard cap; larger datasets are rejected outright.
	MaxDatasetItems = 10000
)

// DatasetOption customises ValidateDataset.
type DatasetOption func(*datasetConfig)

type datasetConfig struct {
	check    func(index int, item any) error
	progress func(processed, total int)
}

// WithItemCheck runs check against every item; a non-nil error becomes an
// "Item N: ..." entry in the result.
func WithItemCheck(check func(index int, item any) error) DatasetOption {
	return func(cfg *datasetConfig) {
		cfg.check = check
	}
}

// WithProgress reports progress after every batch.
func WithProgress(fn func(processed, total int)) DatasetOption {
	return func(cfg *datasetConfig) {
		cfg.progress = fn
	}
}

// ValidateDataset walks items in batches, yielding between batches so other
// goroutines get scheduled. Empty items are errors, duplicates (by canonical
// JSON form) are warnings. The returned error is non-nil only when ctx ends
// before the pass completes.
func ValidateDataset(ctx context.Context, items []any, opts ...DatasetOption) (Result, error) {
	cfg := datasetConfig{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if items == nil {
		return invalid("Dataset is required"), nil
	}
	if len(items) > MaxDatasetItems {
		return invalid(fmt.Sprintf("Dataset is too large (maximum %d items)", MaxDatasetItems)), nil
	}

	result := NewResult()
	seen := make(map[string]int, len(items))
	total := len(items)

	for start := 0; start < total; start += DatasetBatchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := min(start+DatasetBatchSize, total)
		for i := start; i < end; i++ {
			item := items[i]
			if item == nil {
				result.AddError(fmt.Sprintf("Item %d is empty", i))
				continue
			}

			key, err := canonicalKey(item)
			if err != nil {
				result.AddError(fmt.Sprintf("Item %d cannot be serialized", i))
				continue
			}
			if first, dup := seen[key]; dup {
				result.AddWarning(fmt.Sprintf("Item %d duplicates item %d", i, first))
			} else {
				seen[key] = i
			}

			if cfg.check != nil {
				if err := cfg.check(i, item); err != nil {
					result.AddError(fmt.Sprintf("Item %d: %s", i, err.Error()))
				}
			}
		}

		if cfg.progress != nil {
			cfg.progress(end, total)
		}
		runtime.Gosched()
	}
	return result, nil
}

// canonicalKey relies on encoding/json sorting map keys, which makes equal
// maps serialise identically regardless of insertion order.
func canonicalKey(item any) (string, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
