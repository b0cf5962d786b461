package form

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/apperr"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/validation"
)

var (
	// ErrInvalid is returned when submission stops at client validation.
	ErrInvalid = errors.New("form: fields are invalid")
	// ErrSubmitInProgress is returned while a submission is in flight.
	ErrSubmitInProgress = errors.New("form: submission already in progress")
	// ErrRateLimited is returned when the advisory limiter refuses an attempt.
	ErrRateLimited = errors.New("form: too many attempts")
	// ErrClosed is returned by a closed controller.
	ErrClosed = errors.New("form: controller closed")
)

// Submitter sends a registration to the collaborator.
type Submitter interface {
	Register(ctx context.Context, reg Registration) (User, error)
}

// SubmitFunc adapts a function to Submitter.
type SubmitFunc func(ctx context.Context, reg Registration) (User, error)

func (f SubmitFunc) Register(ctx context.Context, reg Registration) (User, error) {
	return f(ctx, reg)
}

// Limiter is the advisory attempt limiter consulted before submitting. The
// collaborator remains authoritative.
type Limiter interface {
	Allow(id string) validation.RateLimitStatus
	Reset(id string)
}

// Option configures a Controller.
type Option func(*Controller)

// WithRateLimiter consults limiter, keyed by username, before each submission.
func WithRateLimiter(limiter Limiter) Option {
	return func(c *Controller) {
		c.limiter = limiter
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

// Controller serialises form transitions and notifies subscribers with a
// snapshot after each one.
type Controller struct {
	submitter Submitter
	limiter   Limiter
	logger    *zap.Logger

	mu        sync.Mutex
	state     State
	observers map[int]func(State)
	nextObs   int
	closed    bool
}

// NewController returns a controller in the pristine state.
func NewController(submitter Submitter, opts ...Option) *Controller {
	c := &Controller{
		submitter: submitter,
		logger:    zap.NewNop(),
		state:     Initial(),
		observers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn for post-transition snapshots and returns a function
// that unregisters it.
func (c *Controller) Subscribe(fn func(State)) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// Change sets a field value.
func (c *Controller) Change(field, value string) {
	c.transition(func(s State) State { return Change(s, field, value) })
}

// Blur marks a field touched and validates it.
func (c *Controller) Blur(field string) {
	c.transition(func(s State) State { return Blur(s, field) })
}

// Reset returns to the pristine form unless a submission is in flight.
func (c *Controller) Reset() {
	c.transition(func(s State) State {
		if s.IsSubmitting {
			return s
		}
		return Reset(s)
	})
}

// Submit validates every field and, when valid, sends the registration. It
// never reaches the network with invalid fields. Cancellation through ctx
// returns the context error but leaves no error in the state.
func (c *Controller) Submit(ctx context.Context) (User, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return User{}, ErrClosed
	}
	if c.state.IsSubmitting {
		c.mu.Unlock()
		return User{}, ErrSubmitInProgress
	}

	c.state = ValidateAll(c.state)
	if !c.state.IsValid {
		c.state.Phase = PhaseFailed
		snap, observers := c.snapshotLocked()
		c.mu.Unlock()
		notify(observers, snap)
		return User{}, ErrInvalid
	}

	reg := c.state.Registration()
	if c.limiter != nil {
		status := c.limiter.Allow(reg.Username)
		if !status.Allowed {
			c.state = SubmitFailed(c.state, nil, status.Result().FirstError())
			snap, observers := c.snapshotLocked()
			c.mu.Unlock()
			notify(observers, snap)
			return User{}, ErrRateLimited
		}
	}

	c.state = BeginSubmit(c.state)
	snap, observers := c.snapshotLocked()
	c.mu.Unlock()
	notify(observers, snap)

	user, err := c.submitter.Register(ctx, reg)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return user, err
	}
	switch {
	case err == nil:
		c.state = SubmitSucceeded(c.state)
		if c.limiter != nil {
			c.limiter.Reset(reg.Username)
		}
	case apperr.IsCanceled(err):
		c.state = SubmitCanceled(c.state)
	default:
		apperr.Log(c.logger, err, zap.String("component", "registration"))
		fieldErrors, formError := describeFailure(err)
		c.state = SubmitFailed(c.state, fieldErrors, formError)
	}
	snap, observers = c.snapshotLocked()
	c.mu.Unlock()
	notify(observers, snap)
	return user, err
}

// describeFailure maps a submission error to field errors and one form-level
// message. Only server validation messages reach fields; everything else is
// the fixed message for the error kind.
func describeFailure(err error) (map[string]string, string) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return nil, apperr.MessageFor(err)
	}

	payload := make(map[string][]string, len(appErr.ValidationErrors)+1)
	for k, v := range appErr.ValidationErrors {
		payload[k] = v
	}
	if appErr.Field != "" {
		msg := appErr.Message
		if appErr.Kind != apperr.KindValidation || msg == "" {
			msg = appErr.UserMessage()
		}
		payload[appErr.Field] = append(payload[appErr.Field], msg)
	}
	if len(payload) == 0 {
		return nil, appErr.UserMessage()
	}

	mapping := render.MapErrorPayload(Fields, payload)
	fieldErrors := mapping.FirstFieldErrors()
	if appErr.Kind != apperr.KindValidation || len(mapping.Form) == 0 {
		return fieldErrors, appErr.UserMessage()
	}

	// Form-level validation messages follow the fixed hint when fields are
	// highlighted too.
	var lead []string
	if len(fieldErrors) > 0 {
		lead = []string{appErr.UserMessage()}
	}
	return fieldErrors, strings.Join(render.MergeFormErrors(lead, mapping.Form...), " ")
}

// Close drops all subscribers and rejects further submissions.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.closed = true
	c.observers = make(map[int]func(State))
	c.mu.Unlock()
	return nil
}

func (c *Controller) transition(fn func(State) State) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state = fn(c.state)
	snap, observers := c.snapshotLocked()
	c.mu.Unlock()
	notify(observers, snap)
}

func (c *Controller) snapshotLocked() (State, []func(State)) {
	ids := make([]int, 0, len(c.observers))
	for id := range c.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	observers := make([]func(State), 0, len(ids))
	for _, id := range ids {
		observers = append(observers, c.observers[id])
	}
	return c.state.clone(), observers
}

func notify(observers []func(State), snap State) {
	for _, fn := range observers {
		fn(snap)
	}
}
