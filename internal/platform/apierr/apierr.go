package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the failure type services hand to the HTTP layer. Message is safe
// to show to clients; Err carries the underlying cause for logs only.
type Error struct {
	Status  int
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	default:
		return fmt.Sprintf("api error (%d)", e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap keeps the public status/code/message and attaches a cause.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, "bad_request", message)
}

func Validation(fields ...FieldError) *Error {
	msg := "Validation failed"
	if len(fields) == 1 {
		msg = fields[0].Message
	}
	return &Error{Status: http.StatusBadRequest, Code: "validation_error", Message: msg, Fields: fields}
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, "unauthorized", message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, "forbidden", message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, "not_found", message)
}

// Conflict is reported as 400 to match the public contract for duplicate keys.
func Conflict(message string) *Error {
	return New(http.StatusBadRequest, "conflict", message)
}

func Upstream(message string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "upstream_error", Message: message, Err: err}
}

func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "internal_error", Message: "Server Error", Err: err}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae, true
	}
	return nil, false
}

// Is reports whether err carries an *Error with the given code.
func Is(err error, code string) bool {
	ae, ok := As(err)
	return ok && ae.Code == code
}
