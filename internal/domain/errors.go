package domain

import (
	"errors"
	"fmt"
)

// Common error types
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Entity, e.ID)
}

// IsNotFound reports whether err wraps an *ErrNotFound
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

// IsValidationError reports whether err wraps a ValidationError
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// FetchError is returned when a profile could not be read from the record store.
// The cached profile, if any, is left in place.
type FetchError struct {
	UserID string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch profile for user %s: %v", e.UserID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// TransientError wraps a record store write that failed or timed out.
// The operation was not applied and may be retried by the caller.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

var (
	// ErrSaveInProgress is returned when a transition is requested while
	// another write for the same wizard has not finished
	ErrSaveInProgress = errors.New("a save is already in progress")

	// ErrNoWorkspace is returned when the session has no resolved workspace
	ErrNoWorkspace = errors.New("no workspace found for this account, log out and back in")
)
