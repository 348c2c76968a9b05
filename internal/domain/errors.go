package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrStorage           = errors.New("storage failure")

	// ErrReferenceNotFound is used when an id passed as a query or body
	// parameter points at nothing the caller owns. It also matches ErrNotFound.
	ErrReferenceNotFound = fmt.Errorf("referenced record %w", ErrNotFound)
)

// Error is a domain error carrying a client-facing message. Kind is one of
// the sentinel errors above and Cause, when set, is the underlying failure.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	return e.Kind == target || errors.Is(e.Kind, target)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func InvalidIdentifier(param string) error {
	return &Error{Kind: ErrInvalidIdentifier, Message: fmt.Sprintf("Invalid or missing %s.", param)}
}

func Validation(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}

func NotFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func ReferenceNotFound(message string) error {
	return &Error{Kind: ErrReferenceNotFound, Message: message}
}

func Unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// Storage wraps a persistence failure. The cause is kept in the message so
// clients see the raw driver error.
func Storage(operation string, cause error) error {
	return &Error{Kind: ErrStorage, Message: operation, Cause: cause}
}
