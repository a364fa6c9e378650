// Package apperrors defines the typed errors the API surfaces to callers.
// Anything below the handler that is not one of these gets translated to a
// generic internal error at the boundary, so raw failure detail never leaks.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable error code returned in the response envelope.
type Code string

const (
	CodeUnauthenticated Code = "unauthenticated"
	CodeInvalidArgument Code = "invalid-argument"
	CodeDataLoss        Code = "data-loss"
	CodeInternal        Code = "internal"
)

// Error carries a code, an HTTP status, a user-facing message, and an
// optional internal cause that is logged but never returned to the caller.
type Error struct {
	Code       Code
	StatusCode int
	Message    string
	Internal   error
}

func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Internal
}

// Unauthenticated means no caller identity was present.
func Unauthenticated(message string) *Error {
	return &Error{Code: CodeUnauthenticated, StatusCode: http.StatusUnauthorized, Message: message}
}

// InvalidArgument means the request payload was malformed.
func InvalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, StatusCode: http.StatusBadRequest, Message: message}
}

// DataLoss means the model answered but produced nothing actionable.
func DataLoss(message string) *Error {
	return &Error{Code: CodeDataLoss, StatusCode: http.StatusUnprocessableEntity, Message: message}
}

// Internal wraps an unexpected failure behind a generic message.
func Internal(message string, cause error) *Error {
	return &Error{Code: CodeInternal, StatusCode: http.StatusInternalServerError, Message: message, Internal: cause}
}

// As extracts an *Error from err, unwrapping as needed.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
