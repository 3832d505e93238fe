// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound covers both a nonexistent entity and an entity the acting
	// user does not own. The two cases are deliberately indistinguishable so
	// callers cannot probe for the existence of other users' cases.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed or missing required input.
	ErrValidation = errors.New("validation failed")

	// Persistence errors.
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrDatabaseCorrupted = errors.New("database corrupted")

	// Ledger errors.
	ErrLedgerUnavailable = errors.New("audit ledger unavailable")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// ValidationError wraps a field-level problem so callers can report a
// machine-readable code alongside the message.
func ValidationError(field, problem string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, problem)
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrLedgerUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
