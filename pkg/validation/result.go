package validation

// Result is the outcome of a single validator call. IsValid always mirrors
// len(Errors) == 0; use the helpers instead of mutating the slices directly.
type Result struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewResult returns an empty, valid result.
func NewResult() Result {
	return Result{IsValid: true, Errors: []string{}, Warnings: []string{}}
}

// AddError appends a message and marks the result invalid.
func (r *Result) AddError(message string) {
	r.Errors = append(r.Errors, message)
	r.IsValid = false
}

// AddWarning appends a message without affecting validity.
func (r *Result) AddWarning(message string) {
	r.Warnings = append(r.Warnings, message)
}

// Merge folds other into r, preserving message order.
func (r *Result) Merge(other Result) {
	for _, msg := range other.Errors {
		r.AddError(msg)
	}
	for _, msg := range other.Warnings {
		r.AddWarning(msg)
	}
}

// FirstError returns the first error message or "" when valid.
func (r Result) FirstError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}

func invalid(message string) Result {
	r := NewResult()
	r.AddError(message)
	return r
}
