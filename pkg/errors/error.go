// Package errors provides coded errors for the indicator, signal, backtest,
// optimizer and live polling components.
//
// Error codes are grouped by the failure taxonomy of the bot:
//   - General errors (1-99)
//   - Validation errors (100-199): malformed series, invalid strategy parameters, bad config
//   - Data errors (200-299): unreadable or missing bar files
//   - Indicator errors (300-399): indicator computation failures
//   - Trading errors (500-599): execution collaborator failures
//   - Backtest/optimizer errors (600-699)
//   - Market data errors (700-799): transient fetch failures in the live loop
//   - Live loop errors (800-899): recovered tick panics
//
// Usage:
//
//	err := errors.Newf(errors.ErrCodeInvalidEMASpans, "fast span %d must be below slow span %d", fast, slow)
//	if errors.HasCode(err, errors.ErrCodeInvalidEMASpans) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error is an error carrying an ErrorCode.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap attaches a code and message to cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf attaches a code and formatted message to cause.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join is errors.Join, re-exported so callers only import this package.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// GetCode extracts the ErrorCode of the outermost *Error in err's chain.
// Returns ErrCodeUnknown when there is none.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsValidationError reports whether err carries a code in the validation range.
// The optimizer uses it to skip invalid parameter combinations instead of aborting.
func IsValidationError(err error) bool {
	code := GetCode(err)

	return code >= 100 && code < 200
}

// InsufficientDataError is returned when a bar series is shorter than the
// warm-up an indicator configuration needs.
type InsufficientDataError struct {
	Required int    // Minimum number of bars required
	Actual   int    // Number of bars supplied
	Symbol   string // Optional symbol context
	Message  string
}

// NewInsufficientDataError creates a new InsufficientDataError.
func NewInsufficientDataError(required, actual int, symbol, message string) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  message,
	}
}

// NewInsufficientDataErrorf creates a new InsufficientDataError with a formatted message.
func NewInsufficientDataErrorf(required, actual int, symbol, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return e.Message
}

// IsInsufficientDataError checks the chain of err for an InsufficientDataError.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError

	return errors.As(err, &insufficientErr)
}
