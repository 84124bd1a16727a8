package util

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Err        error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped error for errors.Is/As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeRateLimit       = "RATE_LIMIT_EXCEEDED"
	ErrCodeBotNotFound     = "BOT_NOT_FOUND"
	ErrCodeBackendRejected = "BACKEND_REJECTED"
	ErrCodeNetwork         = "NETWORK_ERROR"
	ErrCodeMissingData     = "MISSING_DATA"
	ErrCodeResetNotArmed   = "RESET_NOT_ARMED"
)

// NewAppError creates a new application error
func NewAppError(statusCode int, code, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// WrapError wraps an existing error
func WrapError(statusCode int, code, message string, err error) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Err:        err,
	}
}

// Common error constructors

func ErrBadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, ErrCodeBadRequest, message)
}

func ErrNotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, ErrCodeNotFound, message)
}

func ErrValidation(message string) *AppError {
	return NewAppError(http.StatusBadRequest, ErrCodeValidation, message)
}

func ErrInternalServer(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, ErrCodeInternal, message)
}

func ErrRateLimit(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, ErrCodeRateLimit, message)
}

// ErrBotNotFound marks an identifier outside the monitored fleet. This is a
// configuration error at the caller, not a runtime data issue.
func ErrBotNotFound(botID string) *AppError {
	return NewAppError(http.StatusNotFound, ErrCodeBotNotFound, "Unknown bot: "+botID)
}

// ErrBackendRejected marks a call that completed but reported failure. The
// backend's own detail is surfaced verbatim when present.
func ErrBackendRejected(detail string) *AppError {
	if detail == "" {
		detail = "The backend rejected the request"
	}
	return NewAppError(http.StatusBadGateway, ErrCodeBackendRejected, detail)
}

// ErrNetwork marks a call that failed in transport (timeout, connection).
// Kept distinct from ErrBackendRejected so the operator sees "try again"
// rather than a bogus rejection.
func ErrNetwork(err error) *AppError {
	return WrapError(http.StatusBadGateway, ErrCodeNetwork,
		"Network error contacting the metrics backend, try again", err)
}

// ErrMissingData marks data that is absent or still loading. Rendered as an
// explicit loading/failed state, never as zero values masquerading as data.
func ErrMissingData(what string) *AppError {
	return NewAppError(http.StatusNotFound, ErrCodeMissingData, what+" not available yet")
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether err is an AppError carrying the given code
func HasCode(err error, code string) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}
