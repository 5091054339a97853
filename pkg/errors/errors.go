// Package errors defines the structured error type shared by the CLI and
// the HTTP API: every failure carries a machine-readable [Code] next to its
// human-readable message, so surfaces can map errors to exit codes and HTTP
// statuses without string matching.
//
// Codes group into families: INVALID_* for input validation, *_NOT_FOUND
// for missing resources, SOLVER_* for the external layout engine, and
// STORAGE/INTERNAL for everything unexpected.
//
//	err := errors.New(errors.ErrCodeViewNotFound, "view %q does not exist", id)
//	if errors.Is(err, errors.ErrCodeViewNotFound) { ... }
//	err = errors.Wrap(errors.ErrCodeSolver, cause, "lay out view %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// Input validation
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidOption    Code = "INVALID_OPTION"
	ErrCodeInvalidModel     Code = "INVALID_MODEL"
	ErrCodeInvalidGraph     Code = "INVALID_GRAPH"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeUnsupportedKind  Code = "UNSUPPORTED_VIEW_KIND"
	ErrCodeInvalidSelection Code = "INVALID_SELECTION"

	// Missing resources
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeViewNotFound    Code = "VIEW_NOT_FOUND"
	ErrCodeModelNotFound   Code = "MODEL_NOT_FOUND"
	ErrCodeElementNotFound Code = "ELEMENT_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// External layout engine
	ErrCodeSolver            Code = "SOLVER_ERROR"
	ErrCodeSolverUnavailable Code = "SOLVER_UNAVAILABLE"

	// Storage backends
	ErrCodeStorage Code = "STORAGE_ERROR"

	// Everything else
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a code with a message and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to the errors.Is/As machinery.
func (e *Error) Unwrap() error { return e.Cause }

// New creates an error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error with the given code around an existing cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain carries code.
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// GetCode returns the code of the first *Error in err's chain, or "" when
// there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error
// values, and the plain error string for anything else.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
