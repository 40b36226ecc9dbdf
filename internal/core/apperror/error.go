// Package apperror provides structured error handling for the platform.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes grouped by the failure taxonomy of the inventory core.
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"
	CodeTimeout  = "TIMEOUT_ERROR"

	// Format errors (400) - rejected before any I/O
	CodeValidation    = "VALIDATION_ERROR"
	CodeMalformedIMEI = "MALFORMED_IMEI"

	// Conflict errors (409/422) - rejected inside the transaction validation phase
	CodeDuplicateIMEI          = "DUPLICATE_IMEI"
	CodeUnitStatusConflict     = "UNIT_STATUS_CONFLICT"
	CodeDuplicatePendingReturn = "DUPLICATE_PENDING_RETURN"
	CodeReintakeConfirmation   = "REINTAKE_REQUIRES_CONFIRMATION"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeConflict               = "CONFLICT"

	// Referential errors (404)
	CodeNotFound = "NOT_FOUND"

	// Authorization errors (401)
	CodeUnauthorized = "UNAUTHORIZED"
)

// AppError is the standard error type for the platform.
// It implements the error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, IMEIs, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Retryable marks store-level transient failures: the whole operation
	// is clean to retry from the read phase.
	Retryable bool `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400).
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewMalformedIMEI creates a format error for an IMEI that is not 15 digits.
func NewMalformedIMEI(imei string) *AppError {
	return &AppError{
		Code:       CodeMalformedIMEI,
		Message:    "IMEI must be exactly 15 digits",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"imei": imei},
	}
}

// NewNotFound creates a not found error (404).
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewDuplicateIMEI is returned when intake hits an IMEI already live in stock.
func NewDuplicateIMEI(imei string, currentStatus string) *AppError {
	return &AppError{
		Code:       CodeDuplicateIMEI,
		Message:    "IMEI already exists in inventory",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"imei": imei, "current_status": currentStatus},
	}
}

// NewUnitStatusConflict is returned when a unit is not in the status a
// transition requires (e.g. selling a unit that is not IN_STOCK).
func NewUnitStatusConflict(imei string, want, got string) *AppError {
	return &AppError{
		Code:       CodeUnitStatusConflict,
		Message:    fmt.Sprintf("unit must be %s, currently %s", want, got),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"imei": imei, "expected_status": want, "actual_status": got},
	}
}

// NewDuplicatePendingReturn is returned when a pending return already exists for the IMEI.
func NewDuplicatePendingReturn(imei string) *AppError {
	return &AppError{
		Code:       CodeDuplicatePendingReturn,
		Message:    "a pending return request already exists for this IMEI",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"imei": imei},
	}
}

// NewReintakeConfirmation signals that an IMEI last seen in a returned state
// can re-enter stock only with explicit operator confirmation.
func NewReintakeConfirmation(imei string) *AppError {
	return &AppError{
		Code:       CodeReintakeConfirmation,
		Message:    "IMEI was previously returned; re-intake requires confirmation",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"imei": imei},
	}
}

// NewConcurrentModification creates an optimistic locking error. Retryable:
// the operation saw no partial writes and can be rerun from the read phase.
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "record was modified by another operation, retry from scratch",
		HTTPStatus: http.StatusConflict,
		Retryable:  true,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewTxConflict wraps a store-reported write conflict (serialization failure).
func NewTxConflict(err error) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "transaction conflict, retry from scratch",
		HTTPStatus: http.StatusConflict,
		Retryable:  true,
		Err:        err,
	}
}

// NewTimeout wraps a statement or transaction timeout. Retryable by contract:
// the store guarantees nothing was half-written.
func NewTimeout(err error) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    "operation timed out",
		HTTPStatus: http.StatusServiceUnavailable,
		Retryable:  true,
		Err:        err,
	}
}

// NewInternal creates an internal server error (hides details from client).
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401).
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewConflict creates a generic conflict error (409).
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound.
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsRetryable reports whether the operation is clean to retry from the read phase.
func IsRetryable(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Retryable
	}
	return false
}
