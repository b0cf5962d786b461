package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or declined to
	// submit.
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyInvalid is returned when a field stays invalid after the
	// allowed number of prompts.
	ErrTooManyInvalid = errors.New("tui: too many invalid answers")
)
