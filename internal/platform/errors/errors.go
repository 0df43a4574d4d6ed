// Package errors is the structured error type shared by every layer
// import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine facing class of an error, stable on the wire
type ErrorCode uint16

const (
	// ErrorCodeUnknown is anything not classified below
	ErrorCodeUnknown ErrorCode = iota
	// ErrorCodePanic is a handler panic caught by middleware
	ErrorCodePanic
	// ErrorCodeUnavailable is a dependency that may answer on retry
	ErrorCodeUnavailable
	// ErrorCodeTimeout is a deadline hit either in process or by statement_timeout
	ErrorCodeTimeout
	// ErrorCodeCanceled is a caller that went away
	ErrorCodeCanceled
	// ErrorCodeValidation is bad caller input, Field names the parameter
	ErrorCodeValidation
	// ErrorCodeNotFound is a single result read with no row
	ErrorCodeNotFound
	// ErrorCodeAmbiguous is a single result read with more than one row
	ErrorCodeAmbiguous
	// ErrorCodeDB is a statement the database rejected
	ErrorCodeDB
)

// StatusClientClosedRequest is the non standard status logged for canceled requests
const StatusClientClosedRequest = 499

var codeNames = [...]string{
	ErrorCodeUnknown:     "unknown",
	ErrorCodePanic:       "panic",
	ErrorCodeUnavailable: "unavailable",
	ErrorCodeTimeout:     "timeout",
	ErrorCodeCanceled:    "canceled",
	ErrorCodeValidation:  "validation",
	ErrorCodeNotFound:    "not_found",
	ErrorCodeAmbiguous:   "ambiguous",
	ErrorCodeDB:          "db",
}

func (c ErrorCode) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// HTTPStatusCode maps a code onto the response status
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeValidation:
		return http.StatusBadRequest
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeAmbiguous:
		return http.StatusConflict
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrorCodeCanceled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrNotFound is returned when exactly one row was required and none matched
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// ErrAmbiguous is returned when exactly one row was required and more matched
var ErrAmbiguous = New(ErrorCodeAmbiguous, "more than one row matched")

// Error carries a code, a caller facing message, the offending field if
// any, and the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
}

// Wire is the JSON form of an Error
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.orig }

// Is matches sentinels by code and message so copies made by WithField
// still satisfy errors.Is(err, ErrNotFound)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.orig == nil && e.code == t.code && e.msg == t.msg
}

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field, "" when none
func (e *Error) Field() string { return e.field }

// ToWire drops the cause, it may hold SQL or driver detail
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// WireFrom converts any error, foreign errors become ErrorCodeUnknown
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root returns the innermost cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// As returns the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of the outermost *Error, ErrorCodeUnknown otherwise
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether CodeOf(err) is code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is HTTPStatusCode(CodeOf(err))
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WithField returns a copy of err tagged with field, foreign errors pass through
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// New returns an *Error with code and msg
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with a format
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap classifies orig under code with msg, nil stays nil
func Wrap(orig error, code ErrorCode, msg string) error {
	if orig == nil {
		return nil
	}
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf is Wrap with a format
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return Wrap(orig, code, fmt.Sprintf(format, a...))
}

// Validationf is a validation error for field
func Validationf(field, format string, a ...any) error {
	return &Error{code: ErrorCodeValidation, msg: fmt.Sprintf(format, a...), field: field}
}

// NotFoundf is a not found error with a specific message
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// Ambiguousf is an ambiguous result error with a specific message
func Ambiguousf(format string, a ...any) error { return Newf(ErrorCodeAmbiguous, format, a...) }

// DBf is a database error with no driver cause
func DBf(format string, a ...any) error { return Newf(ErrorCodeDB, format, a...) }
