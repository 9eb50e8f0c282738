// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound       = errors.New("not found")
	ErrStoreCorrupted = errors.New("store corrupted")
	ErrPersistence    = errors.New("persistence failed")

	// Mail collaborator errors.
	ErrMailUnavailable = errors.New("mail service unavailable")
	ErrMailRateLimit   = errors.New("mail service rate limit exceeded")

	// Ingestion errors.
	ErrMalformedItem = errors.New("malformed work item")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
)

// UserError represents an error whose message is safe to surface to clients.
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

// NewUserError creates a new user-facing error.
func NewUserError(userMessage string, err error) error {
	return &UserError{UserMessage: userMessage, Err: err}
}

// IsRetryable determines if an error should trigger a retry. Malformed
// payloads never retry; their content will not fix itself.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrMalformedItem) {
		return false
	}
	if errors.Is(err, ErrMailUnavailable) ||
		errors.Is(err, ErrMailRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
