package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code classifies a failure for transport mapping and logging.
type Code string

const (
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeForbidden        Code = "FORBIDDEN"
	CodeNotFound         Code = "NOT_FOUND"
	CodeConflict         Code = "CONFLICT"
	CodeIdempotency      Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit        Code = "RATE_LIMITED"
	CodeSubmissionFailed Code = "ORDER_SUBMISSION_FAILED"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeDependency       Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a Code is rendered to clients.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var codeTable = map[Code]Metadata{
	CodeValidation:       {http.StatusBadRequest, false, "validation failed", true},
	CodeUnauthorized:     {http.StatusUnauthorized, false, "authentication required", false},
	CodeForbidden:        {http.StatusForbidden, false, "access denied", false},
	CodeNotFound:         {http.StatusNotFound, false, "resource not found", false},
	CodeConflict:         {http.StatusConflict, false, "conflict detected", false},
	CodeIdempotency:      {http.StatusConflict, false, "idempotency key reused", true},
	CodeRateLimit:        {http.StatusTooManyRequests, true, "too many requests", false},
	CodeSubmissionFailed: {http.StatusBadGateway, true, "order could not be placed", true},
	CodeInternal:         {http.StatusInternalServerError, true, "internal server error", false},
	CodeDependency:       {http.StatusServiceUnavailable, true, "dependency unavailable", true},
}

// MetadataFor returns the transport metadata for code. Unknown codes map to internal.
func MetadataFor(code Code) Metadata {
	meta, ok := codeTable[code]
	if !ok {
		return codeTable[CodeInternal]
	}
	return meta
}

// Error is a coded error carried across service boundaries. Details, when
// allowed by the code, are rendered verbatim in the response body.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches code and message to err. A nil err behaves like New.
func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

// Newf is New with fmt formatting.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return string(e.code) + ": " + e.message
	default:
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the first *Error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries code.
func IsCode(err error, code Code) bool {
	return As(err).codeIs(code)
}

func (e *Error) codeIs(code Code) bool {
	return e != nil && e.code == code
}
