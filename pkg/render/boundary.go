package render

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/apperr"
)

// DefaultFallbackView is shown in place of a failed view. It never includes
// error details; the retry action is expected to call Boundary.Reset.
const DefaultFallbackView = `<div class="error-boundary" role="alert">` +
	`<p>Something went wrong while displaying this section.</p>` +
	`<button type="button" data-action="retry">Try again</button>` +
	`</div>`

// BoundaryOption configures a Boundary.
type BoundaryOption func(*Boundary)

// WithBoundaryLogger routes failures to logger.
func WithBoundaryLogger(logger *zap.Logger) BoundaryOption {
	return func(b *Boundary) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithFallbackView overrides the markup shown after a failure.
func WithFallbackView(view string) BoundaryOption {
	return func(b *Boundary) {
		if view != "" {
			b.fallback = view
		}
	}
}

// WithOnReset registers a hook invoked by Reset, typically used to reload the
// data behind the view.
func WithOnReset(fn func()) BoundaryOption {
	return func(b *Boundary) {
		b.onReset = fn
	}
}

// Boundary contains failures of a view function: errors and panics are
// logged with an error id and replaced by a fallback view until Reset.
type Boundary struct {
	mu       sync.Mutex
	name     string
	logger   *zap.Logger
	fallback string
	onReset  func()

	failed  bool
	errorID string
}

// NewBoundary constructs a Boundary identified by name in logs.
func NewBoundary(name string, opts ...BoundaryOption) *Boundary {
	b := &Boundary{
		name:     name,
		logger:   zap.NewNop(),
		fallback: DefaultFallbackView,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Render runs view unless the boundary already failed. Any error or panic
// switches the boundary into the failed state and yields the fallback view.
func (b *Boundary) Render(view func() (string, error)) string {
	b.mu.Lock()
	if b.failed {
		fallback := b.fallback
		b.mu.Unlock()
		return fallback
	}
	b.mu.Unlock()

	out, err := b.run(view)
	if err == nil {
		return out
	}

	id := apperr.Log(b.logger, err, zap.String("boundary", b.name))

	b.mu.Lock()
	defer b.mu.Unlock()
	b.failed = true
	b.errorID = id
	return b.fallback
}

func (b *Boundary) run(view func() (string, error)) (out string, err error) {
	if view == nil {
		return "", fmt.Errorf("render: boundary %q: view is nil", b.name)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render: boundary %q: panic: %v", b.name, r)
		}
	}()
	return view()
}

// Failed reports whether the boundary shows its fallback, and the error id of
// the logged failure.
func (b *Boundary) Failed() (bool, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failed, b.errorID
}

// Reset clears the failure so the next Render retries the view.
func (b *Boundary) Reset() {
	b.mu.Lock()
	b.failed = false
	b.errorID = ""
	hook := b.onReset
	b.mu.Unlock()

	if hook != nil {
		hook()
	}
}
