package table

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/prefs"
)

// Mode selects where search, sort and pagination run.
type Mode int

const (
	// ClientSide fetches the whole dataset once per load and runs the
	// pipeline locally.
	ClientSide Mode = iota
	// ServerSide sends every parameter change to the collaborator.
	ServerSide
)

// DefaultDebounce is the quiet period applied to search input.
const DefaultDebounce = 300 * time.Millisecond

// Option configures a Controller.
type Option func(*Controller)

// WithMode selects client- or server-side processing.
func WithMode(mode Mode) Option {
	return func(c *Controller) {
		c.mode = mode
	}
}

// WithPageSize sets the initial page size.
func WithPageSize(size int) Option {
	return func(c *Controller) {
		if size > 0 {
			c.state.Page.PageSize = size
		}
	}
}

// WithInitialSort sets the sort applied before the first load.
func WithInitialSort(by SortSpec) Option {
	return func(c *Controller) {
		c.state.Sort = by
	}
}

// WithPollInterval re-fetches on a fixed interval once Start is called.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Controller) {
		c.pollInterval = interval
	}
}

// WithDebounce overrides the search input quiet period.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPreferences persists sort and page size under key.
func WithPreferences(store prefs.Store, key string) Option {
	return func(c *Controller) {
		c.prefsStore = store
		c.prefsKey = key
	}
}
