package usecase

import "errors"

// Sentinel errors for the use case layer
var (
	// Immutability errors
	ErrExecutionSubmitted    = errors.New("test execution is already submitted")
	ErrExecutionNotSubmitted = errors.New("test execution is not submitted")
	ErrExecutionCancelled    = errors.New("test execution is cancelled")

	// Configuration errors
	ErrThresholdsNotConfigured = errors.New("risk thresholds are not configured")
)
