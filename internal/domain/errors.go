package domain

import (
	"errors"
	"fmt"
)

// Error kinds of the identity core. Services wrap these with fmt.Errorf("%w")
// so callers can match the kind with errors.Is while keeping the detail.
var (
	ErrInvalidToken           = errors.New("invalid token")
	ErrTokenExpired           = errors.New("token has expired")
	ErrConflict               = errors.New("conflict")
	ErrNotFound               = errors.New("not found")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrValidation             = errors.New("validation failed")
	ErrDependencyFailure      = errors.New("dependency failure")
	ErrInvariantViolation     = errors.New("invariant violation")
)

// Conflictf wraps ErrConflict with a formatted detail message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Invariantf wraps ErrInvariantViolation with a formatted detail message.
func Invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// Dependencyf wraps ErrDependencyFailure with a formatted detail message.
func Dependencyf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDependencyFailure, fmt.Sprintf(format, args...))
}
