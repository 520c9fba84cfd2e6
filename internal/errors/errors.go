package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across the service. Each code maps to exactly one HTTP status.
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeSchemaInvalid    = "SCHEMA_INVALID"
	CodeExternalService  = "EXTERNAL_SERVICE_ERROR"
	CodeTimeout          = "TIMEOUT"
	CodeInternal         = "INTERNAL_ERROR"
)

// AppError is the service-wide error type. Code selects the HTTP status and the
// machine-readable identifier in the response envelope; Err carries the cause for
// logging and is never returned to callers.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e == nil {
		return "app error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates an AppError with an explicit code.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap creates an AppError that preserves the underlying cause.
func Wrap(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// User errors (400-level)

func NewInvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func NewValidationError(message string) *AppError {
	return New(CodeValidationFailed, message)
}

func NewNotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func NewUnauthorized(message string) *AppError {
	return New(CodeUnauthorized, message)
}

func NewMethodNotAllowed(message string) *AppError {
	return New(CodeMethodNotAllowed, message)
}

// Server errors (500-level)

func NewConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NewSchemaInvalid(message string) *AppError {
	return New(CodeSchemaInvalid, message)
}

func NewExternalService(message string) *AppError {
	return New(CodeExternalService, message)
}

func NewTimeout(message string) *AppError {
	return New(CodeTimeout, message)
}

func NewInternal(message string) *AppError {
	return New(CodeInternal, message)
}

// Ensure normalizes any error into an AppError. Unknown errors become
// INTERNAL_ERROR with the cause preserved for logging.
func Ensure(err error) *AppError {
	if err == nil {
		return NewInternal("unexpected nil error")
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr
	}

	return Wrap(CodeInternal, "unexpected error", err)
}

// HTTPStatusFromCode resolves the HTTP status code for an error code.
func HTTPStatusFromCode(code string) int {
	switch code {
	case CodeInvalidInput, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeExternalService:
		return http.StatusBadGateway
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatus resolves the HTTP status for any error.
func HTTPStatus(err error) int {
	return HTTPStatusFromCode(Ensure(err).Code)
}
