package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrIncomplete is returned when the session ends with required fields
	// still incomplete.
	ErrIncomplete = errors.New("tui: form incomplete")
	// ErrTooManyAttempts is returned when a field is rejected more often than
	// the configured attempt limit.
	ErrTooManyAttempts = errors.New("tui: too many attempts")
)
