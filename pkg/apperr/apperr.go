// Package apperr classifies failures into the small taxonomy shown to users:
// validation, timeout, not found, conflict, server and generic network
// failures. Cancellation is its own kind and is never surfaced.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind enumerates the user-facing error categories.
type Kind string

const (
	KindValidation Kind = "validation"
	KindTimeout    Kind = "timeout"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindServer     Kind = "server"
	KindNetwork    Kind = "network"
	KindCanceled   Kind = "canceled"
)

var userMessages = map[Kind]string{
	KindValidation: "Please correct the highlighted fields and try again.",
	KindTimeout:    "The request timed out. Please try again.",
	KindNotFound:   "The requested resource could not be found.",
	KindConflict:   "A user with this username or email already exists.",
	KindServer:     "A server error occurred. Please try again later.",
	KindNetwork:    "Something went wrong. Please check your connection and try again.",
}

// UserMessage returns the fixed message for kind. Canceled maps to "".
func UserMessage(kind Kind) string {
	if kind == KindCanceled {
		return ""
	}
	if msg, ok := userMessages[kind]; ok {
		return msg
	}
	return userMessages[KindNetwork]
}

// Error carries a classified failure. Message and ValidationErrors hold what
// the server sent; they are for field mapping and logs, not for display as-is.
type Error struct {
	Kind             Kind
	Status           int
	Code             string
	Message          string
	Field            string
	ValidationErrors map[string][]string
	Err              error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := []string{"apperr: " + string(e.Kind)}
	if e.Status > 0 {
		parts = append(parts, fmt.Sprintf("status %d", e.Status))
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	msg := strings.Join(parts, ": ")
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UserMessage returns the fixed message for the error's kind.
func (e *Error) UserMessage() string {
	if e == nil {
		return ""
	}
	return UserMessage(e.Kind)
}

// New wraps err with kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Payload mirrors the structured error body returned by the collaborator.
type Payload struct {
	Code             string              `json:"code"`
	Message          string              `json:"message"`
	Field            string              `json:"field,omitempty"`
	ValidationErrors map[string][]string `json:"validationErrors,omitempty"`
}

// FromStatus builds an Error from an HTTP status and an optional payload.
func FromStatus(status int, payload *Payload) *Error {
	e := &Error{Kind: KindFromStatus(status), Status: status}
	if payload != nil {
		e.Code = payload.Code
		e.Message = payload.Message
		e.Field = payload.Field
		e.ValidationErrors = payload.ValidationErrors
		if status == http.StatusBadRequest || status == http.StatusUnprocessableEntity {
			if e.Field != "" || len(e.ValidationErrors) > 0 {
				e.Kind = KindValidation
			}
		}
	}
	return e
}

// KindFromStatus maps an HTTP status to a kind.
func KindFromStatus(status int) Kind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return KindTimeout
	case status >= 500:
		return KindServer
	default:
		return KindNetwork
	}
}

// Classify reports the kind for any error. Unknown errors are generic network
// failures.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != "" {
		return appErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}

// IsCanceled reports whether err stems from cancellation.
func IsCanceled(err error) bool {
	return Classify(err) == KindCanceled
}

// MessageFor returns the fixed user message for err.
func MessageFor(err error) string {
	return UserMessage(Classify(err))
}
