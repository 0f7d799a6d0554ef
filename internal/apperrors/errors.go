package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind sentinels. Callers branch with errors.Is; handlers map them to HTTP
// responses without exposing datastore detail.
var (
	ErrNotFound    = errors.New("resource not found")
	ErrForbidden   = errors.New("forbidden")
	ErrAlreadyUsed = errors.New("already used")
	ErrExpired     = errors.New("expired")
	ErrLocked      = errors.New("locked")
	ErrValidation  = errors.New("validation error")
	ErrUpstream    = errors.New("upstream failure")
)

// AppError carries a kind sentinel, an HTTP status and a user-facing message.
type AppError struct {
	Err        error
	StatusCode int
	Code       string
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		StatusCode: http.StatusNotFound,
		Code:       "not_found",
		Message:    fmt.Sprintf("%s not found", resource),
	}
}

func Forbidden(message string) *AppError {
	if message == "" {
		message = "You don't have permission to access this resource"
	}
	return &AppError{
		Err:        ErrForbidden,
		StatusCode: http.StatusForbidden,
		Code:       "forbidden",
		Message:    message,
	}
}

func AlreadyUsed(message string) *AppError {
	return &AppError{
		Err:        ErrAlreadyUsed,
		StatusCode: http.StatusConflict,
		Code:       "already_used",
		Message:    message,
	}
}

func Expired(message string) *AppError {
	return &AppError{
		Err:        ErrExpired,
		StatusCode: http.StatusGone,
		Code:       "expired",
		Message:    message,
	}
}

func Locked(message string) *AppError {
	return &AppError{
		Err:        ErrLocked,
		StatusCode: http.StatusConflict,
		Code:       "locked",
		Message:    message,
	}
}

func Validation(message string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		StatusCode: http.StatusBadRequest,
		Code:       "validation_error",
		Message:    message,
	}
}

// Upstream wraps a collaborator failure. The underlying error is kept for
// logs; the message shown to users stays generic.
func Upstream(err error, message string) *AppError {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	return &AppError{
		Err:        fmt.Errorf("%w: %w", ErrUpstream, err),
		StatusCode: http.StatusBadGateway,
		Code:       "upstream_failure",
		Message:    message,
	}
}

// AsAppError returns the AppError in err's chain, or a generic 500 wrapper.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Err:        err,
		StatusCode: http.StatusInternalServerError,
		Code:       "server_error",
		Message:    "Internal server error",
	}
}
