package bridge

import "errors"

var (
	// ErrMalformedPayload wraps decode failures of descriptions and responses.
	ErrMalformedPayload = errors.New("bridge: malformed payload")
	// ErrRuntime wraps failures reported by the script runtime.
	ErrRuntime = errors.New("bridge: runtime failure")
)
