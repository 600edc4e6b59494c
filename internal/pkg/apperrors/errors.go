package apperrors

import (
	"errors"
	"fmt"
)

// Client-facing failures. The HTTP layer maps each to a status code.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrValidation      = errors.New("validation failed")
	ErrAlreadyExists   = errors.New("resource already exists")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	// ErrConflict means the record exists but is in the wrong state for the operation.
	ErrConflict = errors.New("resource conflict")
)

// Server-side failures.
var (
	ErrDatabase       = errors.New("database error")
	ErrInternalServer = errors.New("internal server error")
	// ErrUnavailable marks a dependency that is switched off or unreachable.
	ErrUnavailable = errors.New("service unavailable")
)

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {
	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

// Forbidden wraps ErrForbidden with a caller-facing reason.
func Forbidden(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}

// Unauthorized wraps ErrUnauthorized with a caller-facing reason.
func Unauthorized(reason string) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, reason)
}
