package poisson

import "errors"

// Sentinel kinds for probability-model input errors.
var (
	ErrInvalidRate  = errors.New("rate must be positive")
	ErrInvalidCount = errors.New("event count must be at least 1")
	ErrInvalidTime  = errors.New("time must be nonnegative")
)
