// Package errors provides structured error types for treeml.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Kinds
//
// The converter has three fatal error kinds:
//   - FormatError (INVALID_FORMAT): a malformed dependency line
//   - UnbalancedBracketsError (UNBALANCED_BRACKETS): a bracketed tree that does not close
//   - ConfigError (INVALID_CONFIG): missing input, bad flag or config value
//
// # Usage
//
//	err := errors.FormatError(line, "expected 7 columns, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle malformed input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "read config %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeUnbalancedBrackets Code = "UNBALANCED_BRACKETS"
	ErrCodeInvalidPath        Code = "INVALID_PATH"

	// Configuration errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// FormatError reports a malformed input line. Line numbers are 1-based.
func FormatError(line int, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidFormat,
		Message: fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...)),
	}
}

// UnbalancedBrackets reports a bracketed tree whose parentheses do not
// return to zero. tree is the 1-based index of the tree in the stream.
func UnbalancedBrackets(tree, depth int) *Error {
	return &Error{
		Code:    ErrCodeUnbalancedBrackets,
		Message: fmt.Sprintf("tree %d: %d unclosed bracket(s) at end of input", tree, depth),
	}
}

// ConfigError reports an invalid configuration value or a missing required setting.
func ConfigError(format string, args ...any) *Error {
	return New(ErrCodeInvalidConfig, format, args...)
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
