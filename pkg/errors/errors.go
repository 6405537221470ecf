// Package errors provides structured error types for colgrid.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Non-fatal warnings for degraded-but-valid input
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Unknown keys, sessions or snapshots
//   - SESSION_* / GESTURE_*: Interactive session protocol violations
//   - STORE_*: Persistence backend failures (outside the engine)
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidWidth, "unsupported width %q", s)
//	if errors.Is(err, errors.ErrCodeInvalidWidth) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "load state %s", key)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeInvalidWidth        Code = "INVALID_WIDTH"
	ErrCodeInvalidDistribution Code = "INVALID_DISTRIBUTION"
	ErrCodeInvalidFormat       Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig       Code = "INVALID_CONFIG"
	ErrCodeInvalidGridID       Code = "INVALID_GRID_ID"
	ErrCodeDuplicateKey        Code = "DUPLICATE_KEY"

	// Degraded input, reported as a warning rather than returned
	ErrCodeKeyFallback Code = "KEY_FALLBACK"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeKeyNotFound     Code = "KEY_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Session protocol errors
	ErrCodeSessionClosed Code = "SESSION_CLOSED"
	ErrCodeGestureActive Code = "GESTURE_ACTIVE"

	// Persistence errors
	ErrCodeStore Code = "STORE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Warning is a non-fatal diagnostic attached to a computation result.
// The computation completed, but the caller supplied input that is only
// stable under extra assumptions (for example a positional column key).
type Warning struct {
	Code    Code   `json:"code"`
	Key     string `json:"key,omitempty"`
	Message string `json:"message"`
}

// NewWarning creates a Warning for the given column key.
func NewWarning(code Code, key string, format string, args ...any) Warning {
	return Warning{Code: code, Key: key, Message: fmt.Sprintf(format, args...)}
}

// String formats the warning like an Error.
func (w Warning) String() string {
	if w.Key != "" {
		return fmt.Sprintf("%s: %s (key %q)", w.Code, w.Message, w.Key)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}
