// Package hicaerrors provides the typed error taxonomy shared by every core
// component. Errors carry a Kind so callers can branch on failure class
// with errors.Is without parsing message strings, and a Cause chain so the
// original error survives wrapping.
package hicaerrors

import (
	"errors"
	"fmt"
)

// Kind classifies a core failure.
type Kind string

const (
	UnknownTool        Kind = "unknown_tool"
	InvalidSelection   Kind = "invalid_selection"
	ParameterValidation Kind = "parameter_validation"
	NotConnected       Kind = "not_connected"
	LLMError           Kind = "llm_error"
	ToolExecutionError Kind = "tool_execution_error"
	StoreIOError       Kind = "store_io_error"
	SerializationError Kind = "serialization_error"
)

// Error is a structured failure carrying a Kind, a human-readable message,
// and an optional wrapped cause. It implements errors.Is/As via Unwrap so
// callers can test for a Kind with errors.Is(err, &hicaerrors.Error{Kind: k})
// or read it with KindOf.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// New constructs an Error of the given kind with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf constructs an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error of the given kind wrapping cause. If cause is
// nil, Wrap returns nil.
func Wrap(kind Kind, message string, cause error) *Error {
	if cause == nil {
		return nil
	}
	if message == "" {
		message = cause.Error()
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, enabling errors.Is/As traversal.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, allowing
// errors.Is(err, &Error{Kind: NotConnected}) style kind checks.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
