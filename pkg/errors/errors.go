package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the common failure classes.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInternal            = errors.New("internal error")
	ErrOtpInvalid          = errors.New("invalid otp")
	ErrOtpExpired          = errors.New("otp expired")
	ErrPaymentNotSucceeded = errors.New("payment not succeeded")
	ErrRateLimited         = errors.New("rate limited")
	ErrConfiguration       = errors.New("configuration error")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, key string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %s not found", resource, key),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// InvalidOtp creates a 400 error for a one-time passcode that does not match
// the pending code, including the case where no pending code exists anymore
// because it was already consumed.
func InvalidOtp() *AppError {
	return &AppError{
		Code:    "INVALID_OTP",
		Message: "invalid OTP",
		Status:  http.StatusBadRequest,
		Err:     ErrOtpInvalid,
	}
}

// OtpExpired creates a 400 error for a one-time passcode past its expiry.
func OtpExpired() *AppError {
	return &AppError{
		Code:    "OTP_EXPIRED",
		Message: "OTP has expired",
		Status:  http.StatusBadRequest,
		Err:     ErrOtpExpired,
	}
}

// PaymentNotSucceeded creates a 422 error for a payment intent whose
// provider-reported status is not the terminal success value.
func PaymentNotSucceeded(status string) *AppError {
	return &AppError{
		Code:    "PAYMENT_NOT_SUCCEEDED",
		Message: fmt.Sprintf("payment not successful (status %q)", status),
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrPaymentNotSucceeded,
	}
}

// RateLimited creates a 429 error.
func RateLimited(message string) *AppError {
	return &AppError{
		Code:    "RATE_LIMITED",
		Message: message,
		Status:  http.StatusTooManyRequests,
		Err:     ErrRateLimited,
	}
}

// Configuration creates a 500 error for a missing or invalid deployment
// configuration value. The detail stays server-side; clients see the code only.
func Configuration(detail string) *AppError {
	return &AppError{
		Code:    "CONFIGURATION_ERROR",
		Message: "server configuration error",
		Status:  http.StatusInternalServerError,
		Err:     fmt.Errorf("%w: %s", ErrConfiguration, detail),
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrOtpInvalid), errors.Is(err, ErrOtpExpired):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrPaymentNotSucceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
