// Package errors provides kind-tagged application errors that the HTTP layer
// translates into status codes and response bodies.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error functions
var (
	Is = errors.Is
	As = errors.As
)

// Error kinds returned by the authentication and summarization flows. The
// kind is the machine-readable code surfaced to clients; the same kind is
// always reported regardless of which internal sub-condition produced it.
const (
	KindValidation         = "VALIDATION_ERROR"
	KindDuplicateEmail     = "EMAIL_ALREADY_REGISTERED"
	KindInvalidCredentials = "INVALID_CREDENTIALS"
	KindAccountDisabled    = "ACCOUNT_DISABLED"
	KindHashing            = "HASHING_ERROR"
	KindToken              = "TOKEN_ERROR"
	KindDatabase           = "DATABASE_ERROR"
	KindRateLimited        = "TOO_MANY_ATTEMPTS"
	KindSummarization      = "SUMMARIZATION_FAILED"
	KindUnauthorized       = "UNAUTHORIZED"
	KindInternal           = "INTERNAL_ERROR"
)

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

func NewFieldError(field, message string) FieldError {
	return FieldError{Field: field, Message: message}
}

// Error is a custom error type for passing more information
type Error struct {
	// Kind is the returned error type
	Kind string `json:"code"`
	// Message is the human readable string that indicates the error
	Message string `json:"message"`
	// Fields is set when a request fails field-level validation.
	Fields []FieldError `json:"fields,omitempty"`

	cause error
}

var _ error = (*Error)(nil)

// Sentinel errors for the flow-level taxonomy. Handlers compare against
// these with errors.Is and map them to HTTP statuses via Status.
var (
	ErrDuplicateEmail = &Error{
		Kind:    KindDuplicateEmail,
		Message: "An account with this email address already exists.",
	}
	ErrInvalidCredentials = &Error{
		Kind:    KindInvalidCredentials,
		Message: "Incorrect email or password.",
	}
	ErrAccountDisabled = &Error{
		Kind:    KindAccountDisabled,
		Message: "Your account has been deactivated. Please contact support.",
	}
	ErrHashing = &Error{
		Kind:    KindHashing,
		Message: "Internal server error",
	}
	ErrToken = &Error{
		Kind:    KindToken,
		Message: "Failed to generate token",
	}
	ErrDatabase = &Error{
		Kind:    KindDatabase,
		Message: "Database connection failed",
	}
	ErrRateLimited = &Error{
		Kind:    KindRateLimited,
		Message: "Too many login attempts. Try again later.",
	}
	ErrSummarization = &Error{
		Kind:    KindSummarization,
		Message: "Summarization pipeline failed",
	}
	ErrUnauthorized = &Error{
		Kind:    KindUnauthorized,
		Message: "Missing or invalid bearer token.",
	}
	ErrInternal = &Error{
		Kind:    KindInternal,
		Message: "Internal server error",
	}
)

// Validation builds a VALIDATION_ERROR with the given field errors.
func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Error implements error
func (e *Error) Error() string {
	str := fmt.Sprintf("[%s] ", e.Kind)
	if e.Message != "" {
		str += e.Message
	}
	if e.cause != nil {
		str += fmt.Sprintf(" (%s)", e.cause)
	}
	return str
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// WithCause returns a copy of the error wrapping the given cause. The cause
// is kept for logs and errors.Is chains; it is never serialized to clients.
func (e *Error) WithCause(cause error) *Error {
	err := *e
	err.cause = cause
	return &err
}

// Explain makes a copy of the error with given message
func (e *Error) Explain(message string, args ...any) *Error {
	err := *e
	err.Message = fmt.Sprintf(message, args...)
	return &err
}

// Is implements the needed interface for errors.Is.
// Two *Error values match when their kinds are equal.
func (e *Error) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if other, ok := target.(*Error); ok {
		return other.Kind == e.Kind
	}
	if e.cause != nil {
		return Is(e.cause, target)
	}
	return false
}

// Status maps an error kind to the HTTP status code the handlers respond
// with. Unknown kinds are treated as internal faults.
func Status(kind string) int {
	switch kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindDuplicateEmail:
		return http.StatusConflict
	case KindInvalidCredentials, KindUnauthorized:
		return http.StatusUnauthorized
	case KindAccountDisabled:
		return http.StatusForbidden
	case KindDatabase:
		return http.StatusServiceUnavailable
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindSummarization:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
