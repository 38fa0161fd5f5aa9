package services

import (
	"errors"
	"fmt"

	apperrors "github.com/linguaplay/scoring-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrValidationFailed = errors.New("validation failed")

	// Exercise errors
	ErrExerciseNotFound         = errors.New("exercise not found")
	ErrExerciseAlreadyAttempted = errors.New("exercise already attempted")

	// Progress errors
	ErrVersionConflict = errors.New("progress was modified concurrently")

	// ErrUpstreamUnavailable wraps cache, leaderboard and broker failures.
	// It is logged and never returned from a submission.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func upstream(component string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, component, err)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrExerciseNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	_, ok := apperrors.AsValidationErrors(err)
	return ok
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrExerciseAlreadyAttempted) ||
		errors.Is(err, ErrVersionConflict)
}

// IsUpstream checks if error came from an optional collaborator
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}

// AsValidationErrors flattens validation failures in err's chain.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	return apperrors.AsValidationErrors(err)
}
