// Package errors defines the structured error taxonomy shared by the
// scheduler, executor and email-queue services.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource (job name, queue item) was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeValidation indicates invalid input data (bad cron string, malformed body).
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeConflict indicates a conflict with existing state (e.g., job already running).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeQueueWrite indicates the email queue store rejected a write.
	ErrCodeQueueWrite ErrorCode = "queue_write"
	// ErrCodeLedgerWrite indicates the execution ledger store rejected a write.
	ErrCodeLedgerWrite ErrorCode = "ledger_write"
	// ErrCodeHandlerExecution indicates a job handler failed unexpectedly.
	ErrCodeHandlerExecution ErrorCode = "handler_execution"
	// ErrCodeDeliveryProvider indicates the outbound email provider rejected a send.
	ErrCodeDeliveryProvider ErrorCode = "delivery_provider"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
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

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
	}
}

// Conflictf creates a new Conflict error with formatted message.
func Conflictf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: fmt.Sprintf(format, args...),
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
	}
}

// QueueWrite wraps a queue persistence failure.
func QueueWrite(err error, message string) *AppError {
	return Wrap(err, ErrCodeQueueWrite, message)
}

// LedgerWrite wraps a ledger persistence failure.
func LedgerWrite(err error, message string) *AppError {
	return Wrap(err, ErrCodeLedgerWrite, message)
}

// HandlerExecution wraps an unexpected job handler failure.
func HandlerExecution(err error, message string) *AppError {
	return Wrap(err, ErrCodeHandlerExecution, message)
}

// DeliveryProvider wraps an outbound email provider failure.
func DeliveryProvider(err error, message string) *AppError {
	return Wrap(err, ErrCodeDeliveryProvider, message)
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool {
	return isCode(err, ErrCodeConflict)
}

// IsQueueWrite checks if an error is a QueueWrite error.
func IsQueueWrite(err error) bool {
	return isCode(err, ErrCodeQueueWrite)
}

// IsLedgerWrite checks if an error is a LedgerWrite error.
func IsLedgerWrite(err error) bool {
	return isCode(err, ErrCodeLedgerWrite)
}

// IsHandlerExecution checks if an error is a HandlerExecution error.
func IsHandlerExecution(err error) bool {
	return isCode(err, ErrCodeHandlerExecution)
}

// IsDeliveryProvider checks if an error is a DeliveryProvider error.
func IsDeliveryProvider(err error) bool {
	return isCode(err, ErrCodeDeliveryProvider)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
