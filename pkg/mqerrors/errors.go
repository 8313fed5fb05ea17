// Package mqerrors provides structured error handling for mqconnect with
// error categorization and key-value context. It extends Go's standard
// error handling with:
//   - Error categorization through ErrorType
//   - Structured context with key-value details
//   - Error wrapping with cause preservation
//
// Basic usage:
//
//	// Create a new error
//	err := mqerrors.New(mqerrors.ErrorTypeValidation, "invalid value")
//
//	// Add context
//	err = err.WithDetail("field", "queue_manager")
//
//	// Wrap existing errors
//	if err := load(path); err != nil {
//	    return mqerrors.Wrap(err, mqerrors.ErrorTypeConfig, "failed to load configuration").
//	        WithDetail("path", path)
//	}
//
// Error instances are not thread-safe for modification. Create new
// instances or use WithDetail before sharing across goroutines.
package mqerrors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error, used for error handling
// strategies and diagnostics.
type ErrorType string

const (
	// ErrorTypeInternal represents internal errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents configuration loading errors
	ErrorTypeConfig ErrorType = "config"
)

// Error represents a structured error with context.
//
// Fields:
//   - Type: Categorizes the error for handling strategies
//   - Message: Human-readable error description
//   - Cause: The underlying error that caused this error
//   - Details: Key-value pairs providing additional context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
}

// Error implements the error interface, returning a formatted error message
// that includes the error type, message, and cause (if present).
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error, enabling compatibility with errors.Is
// and errors.As for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error. This method can be
// chained for adding multiple details.
//
// Example:
//
//	err := mqerrors.New(mqerrors.ErrorTypeValidation, "invalid input").
//	    WithDetail("field", "channel").
//	    WithDetail("value", userInput)
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new error with the given type and a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with additional context, preserving the
// original error as the cause. Returns nil if the input error is nil.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
	}
}

// IsType reports whether any error in err's chain is a structured Error of
// the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == errType
	}
	return false
}
