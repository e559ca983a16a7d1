// Package apperror defines the kinds of failures the person service distinguishes when it
// answers a request.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind int

const (
	// KindInternal is anything unanticipated, including an unavailable database.
	KindInternal Kind = iota
	// KindNotFound means the targeted person id does not exist.
	KindNotFound
	// KindValidation means the request body violates the field constraints.
	KindValidation
	// KindUnauthorized is reserved for access control.
	KindUnauthorized
	// KindForbidden is reserved for access control.
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// HTTPStatus returns the status code a failure of this kind is answered with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure tagged with its Kind. Fields is only set for KindValidation and maps the
// JSON name of each violated field to its messages.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound creates a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a KindValidation error for the given field messages.
func Validation(fields map[string][]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// Unauthorized creates a KindUnauthorized error.
func Unauthorized(message string) *Error {
	if message == "" {
		message = "Unauthorized"
	}
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Forbidden creates a KindForbidden error.
func Forbidden(message string) *Error {
	if message == "" {
		message = "Forbidden"
	}
	return &Error{Kind: KindForbidden, Message: message}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal if there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a KindNotFound error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsValidation reports whether err is a KindValidation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
