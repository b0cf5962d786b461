package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/apperr"
	"github.com/goliatone/go-formkit/pkg/client"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/validation"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a user interactively",
	RunE: func(cmd *cobra.Command, _ []string) error {
		api, err := client.New(cfg.BaseURL, client.WithTimeout(cfg.Timeout), client.WithLogger(logger))
		if err != nil {
			return err
		}
		limiter := validation.NewRateLimiter(
			validation.WithWindow(cfg.RateLimit.Window),
			validation.WithMaxAttempts(cfg.RateLimit.MaxAttempts),
		)
		ctrl := form.NewController(api, form.WithRateLimiter(limiter), form.WithLogger(logger))
		defer ctrl.Close()

		_, err = tui.RunRegistration(cmd.Context(), ctrl,
			tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())),
			tui.WithLogger(logger),
		)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, tui.ErrAborted), apperr.IsCanceled(err):
			return nil
		default:
			// The user already saw the fixed message; keep details out of stderr.
			return errors.New("registration failed")
		}
	},
}
