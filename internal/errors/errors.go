// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid caller identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the identified caller doesn't have permission.
	ErrForbidden = errors.New("forbidden")

	// ErrMisconfiguration indicates the server is missing configuration needed
	// to complete a decision (e.g., no access rule for a protected route).
	// Handlers must treat this as a server fault and fail closed, never as a
	// normal authorization denial.
	ErrMisconfiguration = errors.New("misconfiguration")

	// ErrResourceExhausted indicates a bounded retry budget was used up.
	// It signals a broken underlying resource (e.g., a randomness source
	// producing collisions), not a transient condition worth retrying.
	ErrResourceExhausted = errors.New("resource exhausted")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
