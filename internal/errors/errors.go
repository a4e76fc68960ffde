package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeInternal              = "INTERNAL_ERROR"
	ErrCodeBadRequest            = "BAD_REQUEST"
	ErrCodeStorageUnavailable    = "STORAGE_UNAVAILABLE"
	ErrCodeCapabilityUnavailable = "CAPABILITY_UNAVAILABLE"
	ErrCodeEmptyCatalog          = "EMPTY_CATALOG"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "EMPTY_CATALOG")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so callers can compare
// against the sentinels below with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrStorageUnavailable    = &AppError{Code: ErrCodeStorageUnavailable}
	ErrCapabilityUnavailable = &AppError{Code: ErrCodeCapabilityUnavailable}
	ErrEmptyCatalog          = &AppError{Code: ErrCodeEmptyCatalog}
)

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewStorageUnavailableError wraps a failed history read or write.
// It is logged and recovered from, never shown to the player.
func NewStorageUnavailableError(op string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeStorageUnavailable,
		Message: fmt.Sprintf("score history %s failed", op),
		Status:  503,
		Err:     err,
	}
}

// NewCapabilityUnavailableError reports a missing or refused platform capability.
func NewCapabilityUnavailableError(capability string) *AppError {
	return &AppError{
		Code:    ErrCodeCapabilityUnavailable,
		Message: fmt.Sprintf("%s is not available", capability),
		Status:  501,
	}
}

// NewEmptyCatalogError is returned when a round has no eligible questions.
func NewEmptyCatalogError(hard bool) *AppError {
	mode := "normal"
	if hard {
		mode = "hard"
	}
	return &AppError{
		Code:    ErrCodeEmptyCatalog,
		Message: fmt.Sprintf("no questions available for %s mode", mode),
		Status:  409,
	}
}

// As is a shorthand for errors.As with an *AppError target.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries the same code as target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
