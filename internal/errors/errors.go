package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeDecode        ErrorType = "decode"
	ErrorTypeProcessing    ErrorType = "processing"
	ErrorTypeShapeMismatch ErrorType = "shape_mismatch"
	ErrorTypeModelLoad     ErrorType = "model_load"
	ErrorTypeTimeout       ErrorType = "timeout"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeInternal      ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// UserFacing reports whether the error message may be shown to the uploader.
// Internal failures are answered with a generic message instead.
func (e *AppError) UserFacing() bool {
	switch e.Type {
	case ErrorTypeValidation, ErrorTypeDecode, ErrorTypeNotFound, ErrorTypeTimeout:
		return true
	}
	return false
}

func newAppError(t ErrorType, status int, message string, cause error) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		StatusCode: status,
		Cause:      cause,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, cause)
}

// NewDecodeError is returned when uploaded bytes are not a supported image.
// The user can recover by uploading another file.
func NewDecodeError(message string, cause error) *AppError {
	return newAppError(ErrorTypeDecode, http.StatusUnprocessableEntity, message, cause)
}

// NewProcessingError creates a new processing error
func NewProcessingError(message string, cause error) *AppError {
	return newAppError(ErrorTypeProcessing, http.StatusInternalServerError, message, cause)
}

// NewShapeMismatchError signals that the classifier produced a score vector
// whose length disagrees with the label set.
func NewShapeMismatchError(expected, got int) *AppError {
	e := newAppError(ErrorTypeShapeMismatch, http.StatusInternalServerError,
		"classifier output does not match label set", nil)
	e.Details = fmt.Sprintf("expected %d scores, got %d", expected, got)
	return e
}

// NewModelLoadError wraps a failure to load the classifier artifact.
func NewModelLoadError(message string, cause error) *AppError {
	return newAppError(ErrorTypeModelLoad, http.StatusServiceUnavailable, message, cause)
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return newAppError(ErrorTypeTimeout, http.StatusGatewayTimeout, message, cause)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, cause)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, cause)
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := As(err); ok {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
