// Package domainerrors defines the coded errors the domain layer speaks.
// Stores report infrastructure facts as sentinel errors; services translate
// those into coded errors here, and transports map codes to their own
// vocabulary (HTTP statuses, commit/redeliver decisions).
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for callers that must branch on kind, not text.
type Code string

const (
	// CodeValidation marks input that can never become a valid invoice.
	CodeValidation Code = "validation"
	// CodeInvalidTransition marks a lifecycle move the state machine forbids.
	CodeInvalidTransition Code = "invalid_transition"
	// CodeBadRequest marks transport-level input that could not be parsed.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks a missing aggregate.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a write that lost to a concurrent one.
	CodeConflict Code = "conflict"
	// CodeNotifierFailure marks a send whose state committed but whose
	// outbound notification failed.
	CodeNotifierFailure Code = "notifier_failure"
	// CodeUnavailable marks a transient infrastructure failure; the only
	// retriable code.
	CodeUnavailable Code = "unavailable"
	// CodeInternal marks a bug or an unclassified failure.
	CodeInternal Code = "internal"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an existing error. Returns nil when
// err is nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var coded *Error
		if !errors.As(err, &coded) {
			return false
		}
		if coded.Code == code {
			return true
		}
		err = coded.Err
	}
	return false
}

// Is is an alias for HasCode, for call sites that read better with it.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf returns the outermost code in the chain, or CodeInternal for
// uncoded errors.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}

// Retriable reports whether retrying the operation can succeed.
func Retriable(err error) bool {
	return HasCode(err, CodeUnavailable)
}
