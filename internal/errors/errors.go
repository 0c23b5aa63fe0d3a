// Package errors provides structured application errors for the ledger.
// Every failure the ledger returns is typed: callers branch on the code, not
// on message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeInvalidInput indicates structurally invalid input
	// (bad title/description/reward/tag count/note).
	ErrCodeInvalidInput ErrorCode = "invalid_input"
	// ErrCodeUnauthorized indicates the wrong caller for an employer-only or
	// applicant-only action, or an unmet access-level gate.
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeNotFound indicates an unknown job or application id.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeInvalidStatus indicates an action attempted against a terminal job.
	ErrCodeInvalidStatus ErrorCode = "invalid_status"
	// ErrCodeAlreadyApplied indicates a duplicate live application for a
	// (job, applicant) pair.
	ErrCodeAlreadyApplied ErrorCode = "already_applied"
	// ErrCodeAlreadyWinner indicates winner selection against a job that is
	// no longer open or an application already marked winner.
	ErrCodeAlreadyWinner ErrorCode = "already_winner"
	// ErrCodeCannotCancel indicates cancellation of a job that already has
	// applications.
	ErrCodeCannotCancel ErrorCode = "cannot_cancel"
	// ErrCodeNotExpired indicates expiry attempted before the job's expiry
	// time, or against a job with no expiry.
	ErrCodeNotExpired ErrorCode = "not_expired"
	// ErrCodeAlreadyLocked indicates a second escrow lock for the same job.
	ErrCodeAlreadyLocked ErrorCode = "already_locked"
	// ErrCodeAlreadyReleased indicates a second escrow release or refund for
	// the same job.
	ErrCodeAlreadyReleased ErrorCode = "already_released"
	// ErrCodeConflict indicates a conflict with existing data.
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message,
// and optional cause. It supports errors.Is and errors.As via Unwrap.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for input errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

func newError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// InvalidInput creates a new InvalidInput error.
func InvalidInput(message string) *AppError {
	return newError(ErrCodeInvalidInput, message)
}

// InvalidInputField creates a new InvalidInput error for a specific field.
func InvalidInputField(field, message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message, Field: field}
}

// Unauthorized creates a new Unauthorized error.
func Unauthorized(message string) *AppError {
	return newError(ErrCodeUnauthorized, message)
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return newError(ErrCodeNotFound, message)
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return newError(ErrCodeNotFound, fmt.Sprintf(format, args...))
}

// InvalidStatus creates a new InvalidStatus error.
func InvalidStatus(message string) *AppError {
	return newError(ErrCodeInvalidStatus, message)
}

// AlreadyApplied creates a new AlreadyApplied error.
func AlreadyApplied(message string) *AppError {
	return newError(ErrCodeAlreadyApplied, message)
}

// AlreadyWinner creates a new AlreadyWinner error.
func AlreadyWinner(message string) *AppError {
	return newError(ErrCodeAlreadyWinner, message)
}

// CannotCancel creates a new CannotCancel error.
func CannotCancel(message string) *AppError {
	return newError(ErrCodeCannotCancel, message)
}

// NotExpired creates a new NotExpired error.
func NotExpired(message string) *AppError {
	return newError(ErrCodeNotExpired, message)
}

// AlreadyLocked creates a new AlreadyLocked error.
func AlreadyLocked(message string) *AppError {
	return newError(ErrCodeAlreadyLocked, message)
}

// AlreadyReleased creates a new AlreadyReleased error.
func AlreadyReleased(message string) *AppError {
	return newError(ErrCodeAlreadyReleased, message)
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return newError(ErrCodeConflict, message)
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return newError(ErrCodeInternal, message)
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return newError(ErrCodeInternal, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsInvalidInput checks if an error is an InvalidInput error.
func IsInvalidInput(err error) bool { return isCode(err, ErrCodeInvalidInput) }

// IsUnauthorized checks if an error is an Unauthorized error.
func IsUnauthorized(err error) bool { return isCode(err, ErrCodeUnauthorized) }

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsInvalidStatus checks if an error is an InvalidStatus error.
func IsInvalidStatus(err error) bool { return isCode(err, ErrCodeInvalidStatus) }

// IsAlreadyApplied checks if an error is an AlreadyApplied error.
func IsAlreadyApplied(err error) bool { return isCode(err, ErrCodeAlreadyApplied) }

// IsAlreadyWinner checks if an error is an AlreadyWinner error.
func IsAlreadyWinner(err error) bool { return isCode(err, ErrCodeAlreadyWinner) }

// IsCannotCancel checks if an error is a CannotCancel error.
func IsCannotCancel(err error) bool { return isCode(err, ErrCodeCannotCancel) }

// IsNotExpired checks if an error is a NotExpired error.
func IsNotExpired(err error) bool { return isCode(err, ErrCodeNotExpired) }

// IsAlreadyLocked checks if an error is an AlreadyLocked error.
func IsAlreadyLocked(err error) bool { return isCode(err, ErrCodeAlreadyLocked) }

// IsAlreadyReleased checks if an error is an AlreadyReleased error.
func IsAlreadyReleased(err error) bool { return isCode(err, ErrCodeAlreadyReleased) }

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool { return isCode(err, ErrCodeInternal) }

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
