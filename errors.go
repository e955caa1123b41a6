package robbie

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrNoModels indicates the endpoint listed no models at startup.
	ErrNoModels = errors.New("no models available")

	// ErrInterrupted indicates the user aborted input with Ctrl+C.
	ErrInterrupted = errors.New("interrupted")
)
