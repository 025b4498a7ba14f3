package review

import "errors"

// Sentinel errors for the review package. Use errors.Is to check.
var (
	ErrSessionInProgress = errors.New("review: session already in progress")
	ErrInvalidStage      = errors.New("review: invalid stage for timeout configuration")
	ErrInvalidTimeout    = errors.New("review: timeout out of bounds")
)
