// Package apperror provides structured error handling following RFC 7807 Problem Details.
// Every failure that crosses a package boundary should be an AppError or wrap one.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal           = "INTERNAL_ERROR"
	CodeTransactionFailure = "TRANSACTION_FAILURE"
	CodeLockTimeout        = "LOCK_TIMEOUT"

	// Lock discipline broken: two live counter rows for one period.
	CodeUniquePeriodViolation = "UNIQUE_PERIOD_VIOLATION"

	// Validation errors (400)
	CodeValidation    = "VALIDATION_ERROR"
	CodeInvalidPeriod = "INVALID_PERIOD"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeDuplicate       = "DUPLICATE_ENTRY"
	CodeDuplicateSerial = "DUPLICATE_SERIAL"
)

// AppError is the standard error type for the module.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (series, period, constraint name...)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidPeriod is returned when a point in time cannot be mapped to a year/month.
func NewInvalidPeriod(year, month int) *AppError {
	return &AppError{
		Code:       CodeInvalidPeriod,
		Message:    fmt.Sprintf("invalid period %04d-%02d", year, month),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"year": year, "month": month},
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewLockTimeout is returned when the exclusive lock on a counter row
// could not be acquired in time.
func NewLockTimeout(resource string, cause error) *AppError {
	return &AppError{
		Code:       CodeLockTimeout,
		Message:    fmt.Sprintf("timed out waiting for lock on %s", resource),
		HTTPStatus: http.StatusServiceUnavailable,
		Details:    map[string]any{"resource": resource},
		Err:        cause,
	}
}

// NewTransactionFailure wraps a failure of the unit of work (begin, commit, serialization).
func NewTransactionFailure(message string, cause error) *AppError {
	return &AppError{
		Code:       CodeTransactionFailure,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        cause,
	}
}

// NewUniquePeriodViolation signals a second live counter row for one period.
// It is a programmer error: the row lock is supposed to make it unreachable.
func NewUniquePeriodViolation(series string, year, month int, cause error) *AppError {
	return &AppError{
		Code:       CodeUniquePeriodViolation,
		Message:    "sequence counter already exists for period",
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"series": series, "year": year, "month": month},
		Err:        cause,
	}
}

// NewDuplicateSerial is returned when a record's serial collides with an existing one.
func NewDuplicateSerial(entity, serial string, cause error) *AppError {
	return &AppError{
		Code:       CodeDuplicateSerial,
		Message:    fmt.Sprintf("%s with this serial already exists", entity),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "serial": serial},
		Err:        cause,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// IsLockTimeout checks if error is CodeLockTimeout
func IsLockTimeout(err error) bool { return HasCode(err, CodeLockTimeout) }

// IsInvalidPeriod checks if error is CodeInvalidPeriod
func IsInvalidPeriod(err error) bool { return HasCode(err, CodeInvalidPeriod) }

// IsTransactionFailure checks if error is CodeTransactionFailure
func IsTransactionFailure(err error) bool { return HasCode(err, CodeTransactionFailure) }

// IsDuplicateSerial checks if error is CodeDuplicateSerial
func IsDuplicateSerial(err error) bool { return HasCode(err, CodeDuplicateSerial) }

// IsUniquePeriodViolation checks if error is CodeUniquePeriodViolation
func IsUniquePeriodViolation(err error) bool { return HasCode(err, CodeUniquePeriodViolation) }
