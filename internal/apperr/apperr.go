// Package apperr defines the error categories used across geolink.
//
// Error taxonomy
//
//	UserError  – caused by missing or invalid user input (wrong flag, bad value, …).
//	             The CLI prints only the message; usage help is NOT repeated.
//	             Exit code: 1.
//
//	ErrCancelled – the user deliberately aborted an interactive flow (candidate
//	               picker, …).
//	               Exit code: 0 (not a failure).
//
//	UnresolvedError – a record was read but none of its links could be turned
//	                  into a concrete download. Matches ErrUnresolved.
//	                  Exit code: 2.
//
// Everything else is a plain Go error (I/O, network, XML decoding, …) and is
// propagated with fmt.Errorf("context: %w", err) wrapping.
package apperr

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the user explicitly aborts an interactive
// operation.  The CLI should exit 0 rather than 1 when it sees this error.
var ErrCancelled = errors.New("operation cancelled")

// ErrUnresolved is matched by every *UnresolvedError.
var ErrUnresolved = errors.New("no downloadable link resolved")

// UserError represents an error caused by invalid or missing user input.
// Cobra command handlers return this instead of a bare fmt.Errorf so that
// the root command can suppress repeated usage output and format the message
// in a user-friendly way.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }

// User creates a UserError with the given message.
func User(msg string) error { return &UserError{Message: msg} }

// Userf creates a formatted UserError.
func Userf(format string, args ...any) error {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// IsUser reports whether err is (or wraps) a *UserError.
func IsUser(err error) bool {
	var u *UserError
	return errors.As(err, &u)
}

// UnresolvedError reports that resolution of ResourceID ended without a
// result.
type UnresolvedError struct {
	ResourceID string
}

func (e *UnresolvedError) Error() string {
	if e.ResourceID == "" {
		return ErrUnresolved.Error()
	}
	return fmt.Sprintf("%s for resource %q", ErrUnresolved.Error(), e.ResourceID)
}

func (e *UnresolvedError) Is(target error) bool { return target == ErrUnresolved }

// Unresolved creates an UnresolvedError for resourceID.
func Unresolved(resourceID string) error { return &UnresolvedError{ResourceID: resourceID} }
