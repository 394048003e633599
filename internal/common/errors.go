package common

import (
	"errors"
	"net/http"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

// ValidationError marks malformed input rejected before any mutation.
func ValidationError(message string, err error) *AppError {
	return NewAppError("VALIDATION", message, http.StatusBadRequest, err)
}

// RuleViolation marks a business-rule failure with a caller-facing code,
// such as a coupon outside its window or insufficient points.
func RuleViolation(code, message string, err error) *AppError {
	return NewAppError(code, message, http.StatusUnprocessableEntity, err)
}

// NotFound marks a missing resource.
func NotFound(message string, err error) *AppError {
	return NewAppError("NOT_FOUND", message, http.StatusNotFound, err)
}

// DuplicateSubmission marks a replayed request and carries the id of the
// order created by the first attempt.
func DuplicateSubmission(orderID string) *AppError {
	return &AppError{
		Code:       "DUPLICATE_SUBMISSION",
		Message:    "request already processed",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"orderId": orderID},
	}
}
