// Package apperrors defines the error taxonomy shared by services and
// handlers. Every service failure is classified with a Kind; the HTTP layer
// owns the mapping from Kind to status code.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP layer.
type Kind int

const (
	// BadRequest covers malformed identifiers and missing required fields.
	BadRequest Kind = iota
	// Validation covers shape/bounds violations, with a full message list.
	Validation
	// NotFound covers missing users, fruits, and empty name searches.
	NotFound
	// Conflict covers duplicate username/email, duplicate favorite, and
	// remove-of-absent favorite.
	Conflict
	// Internal covers store failures and anything unexpected.
	Internal
)

// Error carries a kind, a client-facing message, optional per-field
// validation messages, and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Errors  []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf returns an Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error that wraps cause with the given kind and message.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// NewValidation returns a Validation error carrying the collected messages.
func NewValidation(message string, violations []string) *Error {
	return &Error{Kind: Validation, Message: message, Errors: violations}
}

// KindOf reports the Kind of err, or Internal if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}
