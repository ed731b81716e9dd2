// Package apperrors defines the typed error taxonomy shared by the HTTP and
// realtime layers: the service layer returns these, the API edge maps them to
// status codes, the socket edge maps them onto acknowledgements.
package apperrors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Error is a service-level error carrying the HTTP status it maps to.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validation(msg string) *Error   { return &Error{Status: http.StatusBadRequest, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Status: http.StatusUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Status: http.StatusForbidden, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Status: http.StatusNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Status: http.StatusConflict, Message: msg} }
func Internal(msg string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg}
}

// From converts infra errors into the taxonomy. Typed errors pass through;
// anything unrecognized becomes a generic 500 so internals never leak to
// clients.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("record not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict("resource already exists")
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Status: http.StatusGatewayTimeout, Message: "request timed out"}
	default:
		return Internal("internal server error")
	}
}
