package model

import "errors"

var (
	// ErrInvalidInput marks empty or otherwise unusable caller input,
	// e.g. a blank text passed to the embedding gateway. Recoverable by
	// supplying valid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured marks a missing credential or model identifier at
	// construction time. Fatal for the component instance; never raised
	// per classification call.
	ErrNotConfigured = errors.New("not configured")
)
