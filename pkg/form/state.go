// Package form holds the registration form: pure reducers that return fresh
// State snapshots, and a Controller that serialises transitions, notifies
// subscribers and drives submission.
package form

import (
	"strings"

	"github.com/goliatone/go-formkit/pkg/validation"
)

// Field names.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// Fields lists the form fields in display order.
var Fields = []string{FieldUsername, FieldEmail, FieldPassword, FieldConfirmPassword}

// Phase is the lifecycle position of the form.
type Phase string

const (
	PhasePristine   Phase = "pristine"
	PhaseEditing    Phase = "editing"
	PhaseValidating Phase = "validating"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// Confirmation messages.
const (
	msgConfirmRequired = "Please confirm your password"
	msgPasswordsDiffer = "Passwords do not match"
)

// State is an immutable snapshot of the form. Errors hold at most one message
// per field. IsValid is true exactly when Errors is empty; CanSubmit reports
// whether every field, touched or not, passes client validation.
type State struct {
	Values       map[string]string
	Errors       map[string]string
	Warnings     map[string][]string
	Touched      map[string]bool
	IsSubmitting bool
	IsValid      bool
	CanSubmit    bool
	IsDirty      bool
	Phase        Phase
	FormError    string
}

// Registration is the payload sent to the collaborator.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the created account returned by the collaborator.
type User struct {
	ID        any    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Initial returns the pristine form.
func Initial() State {
	s := State{
		Values:   make(map[string]string, len(Fields)),
		Errors:   make(map[string]string),
		Warnings: make(map[string][]string),
		Touched:  make(map[string]bool),
		Phase:    PhasePristine,
	}
	for _, f := range Fields {
		s.Values[f] = ""
	}
	return s.derive()
}

// Registration builds the submission payload from the current values.
func (s State) Registration() Registration {
	return Registration{
		Username: strings.TrimSpace(s.Values[FieldUsername]),
		Email:    strings.TrimSpace(s.Values[FieldEmail]),
		Password: s.Values[FieldPassword],
	}
}

// ErrorCount returns the number of fields currently showing an error.
func (s State) ErrorCount() int {
	return len(s.Errors)
}

func (s State) clone() State {
	out := s
	out.Values = copyStrings(s.Values)
	out.Errors = copyStrings(s.Errors)
	out.Touched = make(map[string]bool, len(s.Touched))
	for k, v := range s.Touched {
		out.Touched[k] = v
	}
	out.Warnings = make(map[string][]string, len(s.Warnings))
	for k, v := range s.Warnings {
		out.Warnings[k] = append([]string(nil), v...)
	}
	return out
}

func copyStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// derive recomputes IsValid, CanSubmit and IsDirty.
func (s State) derive() State {
	s.IsValid = len(s.Errors) == 0
	s.CanSubmit = true
	s.IsDirty = false
	for _, f := range Fields {
		if s.Values[f] != "" {
			s.IsDirty = true
		}
		if msg, _ := validateField(f, s.Values); msg != "" {
			s.CanSubmit = false
		}
	}
	return s
}

func isField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}

// validateField returns the first error for field and any warnings.
func validateField(field string, values map[string]string) (string, []string) {
	var result validation.Result
	switch field {
	case FieldUsername:
		result = validation.ValidateUsername(values[FieldUsername])
	case FieldEmail:
		result = validation.ValidateEmail(values[FieldEmail])
	case FieldPassword:
		result = validation.ValidatePassword(values[FieldPassword])
	case FieldConfirmPassword:
		switch {
		case values[FieldConfirmPassword] == "":
			return msgConfirmRequired, nil
		case values[FieldConfirmPassword] != values[FieldPassword]:
			return msgPasswordsDiffer, nil
		default:
			return "", nil
		}
	default:
		return "", nil
	}
	return result.FirstError(), result.Warnings
}

func (s *State) applyFieldValidation(field string) {
	msg, warnings := validateField(field, s.Values)
	if msg == "" {
		delete(s.Errors, field)
	} else {
		s.Errors[field] = msg
	}
	if len(warnings) == 0 {
		delete(s.Warnings, field)
	} else {
		s.Warnings[field] = append([]string(nil), warnings...)
	}
}

// Change records a new value for field, clearing its stale error. Changing
// the password re-validates a touched confirmation.
func Change(s State, field, value string) State {
	if !isField(field) {
		return s
	}
	next := s.clone()
	next.Values[field] = value
	delete(next.Errors, field)
	delete(next.Warnings, field)
	next.FormError = ""
	if field == FieldPassword && next.Touched[FieldConfirmPassword] {
		next.applyFieldValidation(FieldConfirmPassword)
	}
	if !next.IsSubmitting {
		next.Phase = PhaseEditing
	}
	return next.derive()
}

// Blur marks field touched and validates it.
func Blur(s State, field string) State {
	if !isField(field) {
		return s
	}
	next := s.clone()
	next.Touched[field] = true
	next.applyFieldValidation(field)
	return next.derive()
}

// ValidateAll touches and validates every field.
func ValidateAll(s State) State {
	next := s.clone()
	for _, f := range Fields {
		next.Touched[f] = true
		next.applyFieldValidation(f)
	}
	next.Phase = PhaseValidating
	return next.derive()
}

// BeginSubmit marks the form as submitting.
func BeginSubmit(s State) State {
	next := s.clone()
	next.IsSubmitting = true
	next.FormError = ""
	next.Phase = PhaseSubmitting
	return next.derive()
}

// SubmitSucceeded returns the form to pristine values.
func SubmitSucceeded(State) State {
	next := Initial()
	next.Phase = PhaseSucceeded
	return next
}

// SubmitFailed ends a submission with field errors from the server and a
// form-level message. Password fields are cleared.
func SubmitFailed(s State, fieldErrors map[string]string, formError string) State {
	next := clearSecrets(s.clone())
	next.IsSubmitting = false
	next.Phase = PhaseFailed
	next.FormError = formError
	for field, msg := range fieldErrors {
		if !isField(field) || strings.TrimSpace(msg) == "" {
			continue
		}
		next.Touched[field] = true
		next.Errors[field] = msg
	}
	return next.derive()
}

// SubmitCanceled ends a submission without reporting anything.
func SubmitCanceled(s State) State {
	next := s.clone()
	next.IsSubmitting = false
	next.Phase = PhaseEditing
	return next.derive()
}

// Reset returns the pristine form.
func Reset(State) State {
	return Initial()
}

func clearSecrets(s State) State {
	s.Values[FieldPassword] = ""
	s.Values[FieldConfirmPassword] = ""
	delete(s.Warnings, FieldPassword)
	return s
}
