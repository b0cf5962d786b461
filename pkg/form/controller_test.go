package form_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/apperr"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/validation"
)

func fill(c *form.Controller, username, email, password, confirm string) {
	c.Change(form.FieldUsername, username)
	c.Change(form.FieldEmail, email)
	c.Change(form.FieldPassword, password)
	c.Change(form.FieldConfirmPassword, confirm)
}

func fillValid(c *form.Controller) {
	fill(c, "new_user", "new@example.com", "Str0ng!Passw0rd", "Str0ng!Passw0rd")
}

func TestSubmit_InvalidFieldsNeverReachNetwork(t *testing.T) {
	var calls atomic.Int32
	c := form.NewController(form.SubmitFunc(func(context.Context, form.Registration) (form.User, error) {
		calls.Add(1)
		return form.User{}, nil
	}))

	fill(c, "ab", "not-an-email", "weak", "different")
	_, err := c.Submit(context.Background())
	if !errors.Is(err, form.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if got := c.Snapshot().ErrorCount(); got != 4 {
		t.Fatalf("expected exactly four field errors, got %d: %v", got, c.Snapshot().Errors)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected zero network calls, got %d", calls.Load())
	}
}

func TestSubmit_SuccessResetsForm(t *testing.T) {
	var got form.Registration
	c := form.NewController(form.SubmitFunc(func(_ context.Context, reg form.Registration) (form.User, error) {
		got = reg
		return form.User{ID: float64(7), Username: reg.Username, Email: reg.Email}, nil
	}))

	var phases []form.Phase
	c.Subscribe(func(s form.State) { phases = append(phases, s.Phase) })

	fillValid(c)
	user, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if user.Username != "new_user" {
		t.Fatalf("unexpected user %+v", user)
	}
	want := form.Registration{Username: "new_user", Email: "new@example.com", Password: "Str0ng!Passw0rd"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("registration mismatch (-want +got):\n%s", diff)
	}

	snap := c.Snapshot()
	if snap.IsDirty || snap.Values[form.FieldPassword] != "" || snap.Phase != form.PhaseSucceeded {
		t.Fatalf("expected pristine values after success, got %+v", snap)
	}
	if phases[len(phases)-2] != form.PhaseSubmitting || phases[len(phases)-1] != form.PhaseSucceeded {
		t.Fatalf("unexpected phase sequence %v", phases)
	}
}

func TestSubmit_SingleInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	c := form.NewController(form.SubmitFunc(func(ctx context.Context, reg form.Registration) (form.User, error) {
		close(started)
		<-release
		return form.User{Username: reg.Username}, nil
	}))
	fillValid(c)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()
	<-started

	if !c.Snapshot().IsSubmitting {
		t.Fatalf("expected submitting state")
	}
	if _, err := c.Submit(context.Background()); !errors.Is(err, form.ErrSubmitInProgress) {
		t.Fatalf("expected ErrSubmitInProgress, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
}

func TestSubmit_ServerValidationMapsToFields(t *testing.T) {
	c := form.NewController(form.SubmitFunc(func(context.Context, form.Registration) (form.User, error) {
		return form.User{}, apperr.FromStatus(400, &apperr.Payload{
			Code:    "VALIDATION_ERROR",
			Message: "Validation failed",
			ValidationErrors: map[string][]string{
				"body.email": {"Email domain is not accepted"},
			},
		})
	}))
	fillValid(c)

	if _, err := c.Submit(context.Background()); apperr.Classify(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	snap := c.Snapshot()
	if got := snap.Errors[form.FieldEmail]; got != "Email domain is not accepted" {
		t.Fatalf("expected mapped email error, got %q", got)
	}
	if snap.FormError != apperr.UserMessage(apperr.KindValidation) {
		t.Fatalf("unexpected form error %q", snap.FormError)
	}
	if snap.Values[form.FieldPassword] != "" || snap.Values[form.FieldConfirmPassword] != "" {
		t.Fatalf("password fields must be cleared after failure")
	}
	if snap.Values[form.FieldUsername] != "new_user" {
		t.Fatalf("non-secret values must be kept")
	}
}

func TestSubmit_ServerFormLevelMessagesAreMerged(t *testing.T) {
	c := form.NewController(form.SubmitFunc(func(context.Context, form.Registration) (form.User, error) {
		return form.User{}, apperr.FromStatus(422, &apperr.Payload{
			Code: "VALIDATION_ERROR",
			ValidationErrors: map[string][]string{
				"email":            {"Email domain is not accepted"},
				"non_field_errors": {" Signups are paused ", "Signups are paused"},
				"body.nickname":    {"Nickname is not supported"},
			},
		})
	}))
	fillValid(c)

	_, _ = c.Submit(context.Background())
	snap := c.Snapshot()
	want := apperr.UserMessage(apperr.KindValidation) + " Nickname is not supported Signups are paused"
	if snap.FormError != want {
		t.Fatalf("form error mismatch:\nwant %q\ngot  %q", want, snap.FormError)
	}
	if got := snap.Errors[form.FieldEmail]; got != "Email domain is not accepted" {
		t.Fatalf("expected mapped email error, got %q", got)
	}
}

func TestSubmit_ConflictUsesFixedMessage(t *testing.T) {
	c := form.NewController(form.SubmitFunc(func(context.Context, form.Registration) (form.User, error) {
		return form.User{}, apperr.FromStatus(409, &apperr.Payload{
			Code:    "DUPLICATE",
			Message: "duplicate key value violates unique constraint users_username_key",
			Field:   "username",
		})
	}))
	fillValid(c)

	_, _ = c.Submit(context.Background())
	snap := c.Snapshot()
	conflict := apperr.UserMessage(apperr.KindConflict)
	if snap.FormError != conflict || snap.Errors[form.FieldUsername] != conflict {
		t.Fatalf("expected fixed conflict message, got form=%q field=%q", snap.FormError, snap.Errors[form.FieldUsername])
	}
}

func TestSubmit_TransportFailureMessages(t *testing.T) {
	cases := map[apperr.Kind]error{
		apperr.KindTimeout: context.DeadlineExceeded,
		apperr.KindServer:  apperr.FromStatus(503, nil),
		apperr.KindNetwork: errors.New("dial tcp: connection refused"),
	}
	for kind, failure := range cases {
		t.Run(string(kind), func(t *testing.T) {
			c := form.NewController(form.SubmitFunc(func(context.Context, form.Registration) (form.User, error) {
				return form.User{}, failure
			}))
			fillValid(c)
			_, _ = c.Submit(context.Background())
			if got := c.Snapshot().FormError; got != apperr.UserMessage(kind) {
				t.Fatalf("expected %q, got %q", apperr.UserMessage(kind), got)
			}
		})
	}
}

func TestSubmit_CancellationIsSilent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := form.NewController(form.SubmitFunc(func(ctx context.Context, _ form.Registration) (form.User, error) {
		cancel()
		<-ctx.Done()
		return form.User{}, ctx.Err()
	}))
	fillValid(c)

	_, err := c.Submit(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	snap := c.Snapshot()
	if snap.FormError != "" || snap.IsSubmitting || snap.Phase == form.PhaseFailed {
		t.Fatalf("cancellation must leave no trace, got %+v", snap)
	}
}

func TestSubmit_RateLimited(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := validation.NewRateLimiter(
		validation.WithMaxAttempts(2),
		validation.WithClock(func() time.Time { return now }),
	)
	var calls atomic.Int32
	c := form.NewController(form.SubmitFunc(func(context.Context, form.Registration) (form.User, error) {
		calls.Add(1)
		return form.User{}, apperr.FromStatus(500, nil)
	}), form.WithRateLimiter(limiter))

	for i := 0; i < 2; i++ {
		fillValid(c)
		_, _ = c.Submit(context.Background())
	}
	fillValid(c)
	_, err := c.Submit(context.Background())
	if !errors.Is(err, form.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected two network calls, got %d", calls.Load())
	}
	if got := c.Snapshot().FormError; got != "Too many attempts. Please try again in 15 minutes" {
		t.Fatalf("unexpected lockout message %q", got)
	}
}

func TestClose_StopsNotifications(t *testing.T) {
	c := form.NewController(nil)
	var count int
	c.Subscribe(func(form.State) { count++ })
	c.Change(form.FieldUsername, "a")
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	c.Change(form.FieldUsername, "ab")
	if count != 1 {
		t.Fatalf("expected one notification, got %d", count)
	}
	if _, err := c.Submit(context.Background()); !errors.Is(err, form.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
