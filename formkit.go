// Package formkit is the top-level entry point: it re-exports the types most
// callers need and wires the client, form and table packages together.
package formkit

import (
	"github.com/goliatone/go-formkit/pkg/client"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/table"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// Result aliases validation.Result.
type Result = validation.Result

// Record aliases table.Record.
type Record = table.Record

// Column aliases table.Column.
type Column = table.Column

// TableState aliases table.State.
type TableState = table.State

// FormState aliases form.State.
type FormState = form.State

// Registration aliases form.Registration.
type Registration = form.Registration

// User aliases form.User.
type User = form.User

// NewClient exposes the collaborator client constructor from the top-level
// module.
func NewClient(baseURL string, options ...client.Option) (*client.Client, error) {
	return client.New(baseURL, options...)
}

// NewRegistrationForm returns a form controller submitting through api with an
// advisory rate limiter using the default window and attempt budget.
func NewRegistrationForm(api form.Submitter, options ...form.Option) *form.Controller {
	limiter := validation.NewRateLimiter()
	opts := append([]form.Option{form.WithRateLimiter(limiter)}, options...)
	return form.NewController(api, opts...)
}

// NewTable returns a table controller fetching endpoint through api.
func NewTable(api *client.Client, endpoint string, columns []Column, options ...table.Option) (*table.Controller, error) {
	return table.NewController(api.Records(endpoint), columns, options...)
}

// ValidateEmail, ValidatePassword and ValidateUsername are the field checks
// used by the registration form.
var (
	ValidateEmail    = validation.ValidateEmail
	ValidatePassword = validation.ValidatePassword
	ValidateUsername = validation.ValidateUsername
)
