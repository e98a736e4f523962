package apperr

import (
	"errors"
	"net/http"
)

// Code identifies an error class; each code maps to one HTTP status.
type Code string

const (
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeValidation   Code = "VALIDATION_FAILED"
	CodeNotFound     Code = "RESOURCE_NOT_FOUND"
	CodeLocked       Code = "RESOURCE_LOCKED"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL_FAILURE"
)

var statusByCode = map[Code]int{
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
	CodeValidation:   http.StatusBadRequest,
	CodeNotFound:     http.StatusNotFound,
	// Locked listings answer 400 so existing clients keep their handling.
	CodeLocked:   http.StatusBadRequest,
	CodeConflict: http.StatusConflict,
	CodeInternal: http.StatusInternalServerError,
}

// InternalMessage is the only message clients see for InternalFailure.
const InternalMessage = "Something went wrong!"

// Error is the error type returned by services and rendered by the HTTP error handler.
type Error struct {
	Code    Code
	Message string
	Details map[string]interface{}
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap keeps err as the cause; it is logged but never shown in production.
func Wrap(code Code, err error, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status for the error's code.
func (e *Error) Status() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// WithDetails returns a copy carrying field-level details.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }
func Forbidden(message string) *Error    { return New(CodeForbidden, message) }
func Validation(message string) *Error   { return New(CodeValidation, message) }
func NotFound(message string) *Error     { return New(CodeNotFound, message) }
func Locked(message string) *Error       { return New(CodeLocked, message) }
func Conflict(message string) *Error     { return New(CodeConflict, message) }

func Internal(err error) *Error {
	return Wrap(CodeInternal, err, InternalMessage)
}

// From classifies any error; unknown errors become InternalFailure.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// Upload failures raised while reading multipart bodies.
var (
	ErrFileTooLarge    = Validation("File too large")
	ErrTooManyFiles    = Validation("Too many files")
	ErrUnexpectedField = Validation("Unexpected field")
)
