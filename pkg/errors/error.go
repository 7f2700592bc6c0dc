// Package errors defines the coded errors returned across argo-alpha.
//
// Codes are grouped by hundreds:
//   - 1-99: unknown
//   - 100-199: configuration and universe validation
//   - 200-299: missing data, including the risk-free series
//   - 300-399: cleaning and alignment
//   - 400-499: factor downloads
//   - 500-599: snapshot files
//   - 600-699: model lifecycle
//   - 700-799: market data providers
//
// Callers branch on the code rather than the message:
//
//	if errors.HasCode(err, errors.ErrCodeSnapshotCorrupt) {
//		// refetch and overwrite the snapshot
//	}
//
// A coded error keeps its cause, so the standard errors.Is and errors.As see
// through it.
package errors

import (
	"errors"
	"fmt"
)

// Error is a failure tagged with an ErrorCode.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func New(code ErrorCode, message string) *Error {
	return Wrap(code, message, nil)
}

func Newf(code ErrorCode, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), nil)
}

// Wrap tags cause with code. cause may be nil.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf is Wrap with a formatted message; note the cause comes before the format.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// Error renders "[code] message" followed by the cause when there is one.
func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}

	return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is and As forward to the standard library so packages that import this
// one as errors need no second import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode returns the code of the outermost *Error in err's chain, or
// ErrCodeUnknown when there is none.
func GetCode(err error) ErrorCode {
	var e *Error
	if !errors.As(err, &e) {
		return ErrCodeUnknown
	}

	return e.Code
}

func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientDataError reports that a stage ran out of rows or instruments,
// for example when every instrument is filtered out or a model has fewer
// rows than its lookback.
type InsufficientDataError struct {
	Required int
	Actual   int
	// Stage names where the data ran short, such as "align" or "train".
	Stage   string
	Message string
}

func NewInsufficientDataError(required, actual int, stage, message string) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Stage:    stage,
		Message:  message,
	}
}

func NewInsufficientDataErrorf(required, actual int, stage, format string, args ...any) *InsufficientDataError {
	return NewInsufficientDataError(required, actual, stage, fmt.Sprintf(format, args...))
}

func (e *InsufficientDataError) Error() string {
	return e.Message
}

// IsInsufficientDataError reports whether err's chain holds an InsufficientDataError.
func IsInsufficientDataError(err error) bool {
	var target *InsufficientDataError

	return errors.As(err, &target)
}
