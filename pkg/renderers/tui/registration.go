// Package tui drives the registration form and the data table from a
// terminal. Prompts go through a PromptDriver; the default one uses survey.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/apperr"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/table"
)

// RunRegistration prompts for every field, re-asking while a field is
// invalid, then confirms and submits through ctrl. After a failed submission
// the user may retry; only fields with errors and the cleared passwords are
// asked again.
func RunRegistration(ctx context.Context, ctrl *form.Controller, opts ...Option) (form.User, error) {
	if ctrl == nil {
		return form.User{}, errors.New("tui: form controller is required")
	}
	s := newSettings(opts)

	fields := form.Fields
	for {
		for _, field := range fields {
			if err := promptField(ctx, s, ctrl, field); err != nil {
				return form.User{}, err
			}
		}

		ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Create account?", Default: true})
		if err != nil {
			return form.User{}, err
		}
		if !ok {
			return form.User{}, ErrAborted
		}

		user, err := ctrl.Submit(ctx)
		switch {
		case err == nil:
			_ = s.driver.Info(ctx, s.theme.InfoPrefix+"Account created for "+table.TerminalText(user.Username))
			return user, nil
		case apperr.IsCanceled(err):
			return form.User{}, err
		}

		snap := ctrl.Snapshot()
		if snap.FormError != "" {
			_ = s.driver.Info(ctx, s.theme.ErrorPrefix+snap.FormError)
		}
		if errors.Is(err, form.ErrRateLimited) {
			return form.User{}, err
		}
		s.logger.Debug("tui: registration failed", zap.String("kind", string(apperr.Classify(err))))

		retry, promptErr := s.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
		if promptErr != nil {
			return form.User{}, promptErr
		}
		if !retry {
			return form.User{}, err
		}
		fields = retryFields(snap)
	}
}

// retryFields lists fields with errors plus any field whose value was
// cleared, in form order.
func retryFields(snap form.State) []string {
	var out []string
	for _, field := range form.Fields {
		if snap.Errors[field] != "" || snap.Values[field] == "" {
			out = append(out, field)
		}
	}
	return out
}

func promptField(ctx context.Context, s settings, ctrl *form.Controller, field string) error {
	for attempt := 0; attempt < s.maxPrompts; attempt++ {
		value, err := ask(ctx, s.driver, ctrl.Snapshot(), field)
		if err != nil {
			return err
		}
		ctrl.Change(field, value)
		ctrl.Blur(field)

		snap := ctrl.Snapshot()
		if msg := snap.Errors[field]; msg != "" {
			_ = s.driver.Info(ctx, s.theme.ErrorPrefix+msg)
			continue
		}
		for _, warning := range snap.Warnings[field] {
			_ = s.driver.Info(ctx, s.theme.WarningPrefix+warning)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTooManyInvalid, form.Label(field))
}

func ask(ctx context.Context, driver PromptDriver, snap form.State, field string) (string, error) {
	cfg := InputConfig{Message: form.Label(field)}
	if form.IsSecret(field) {
		return driver.Password(ctx, cfg)
	}
	cfg.Default = snap.Values[field]
	value, err := driver.Input(ctx, cfg)
	return strings.TrimSpace(value), err
}
