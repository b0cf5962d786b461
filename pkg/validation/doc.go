// Package validation holds the field validators used by the registration form
// and the data tooling around it: email, password, username, card, phone,
// upload and token checks, fixed-cost secret comparison, an advisory
// sliding-window rate limiter and a cooperative large-dataset pass.
//
// Every validator is total: empty or malformed input produces a Result with
// errors, never a panic. Messages are safe to show to end users and never echo
// the secret that was rejected.
package validation
