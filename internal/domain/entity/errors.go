package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidURL indicates that an article URL is empty, the no-link placeholder,
	// or not an absolute http(s) URL
	ErrInvalidURL = errors.New("empty/invalid URL")

	// ErrUnknownCategory indicates that a category slug is not part of the catalogue
	ErrUnknownCategory = errors.New("unknown category")
)

// ValidationError represents a validation error with detailed field information.
// It wraps ErrInvalidURL when the failing field is a URL, so callers can match it with
// errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap exposes the sentinel error behind the validation failure.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
