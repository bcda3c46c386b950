// Package errors augments the standard errors
// provided by fmt (https://golang.org/src/fmt/errors.go)
// with a Wrap() method to wrap errors without resorting
// to fmt.Errorf("%w", err).
package errors

import (
	stderr "errors"
	"fmt"

	"go.uber.org/zap"
)

var _ error = New("")

// New Error
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error augments the standard error interface with a Wrap method.
//
// Errors built by this package are intended to be used as package-level
// sentinels: Wrap and its variants return a shallow clone of the receiver,
// so wrapping never mutates the sentinel itself.
type Error struct {
	msg string
	err error
}

// Error message, including the messages from wrapped errors
func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// Unwrap nested error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a nested error
func (e *Error) Wrap(err error) *Error {
	clone := *e
	clone.err = err
	return &clone
}

// WrapMessage wraps a formatted message as a nested error
func (e *Error) WrapMessage(format string, args ...interface{}) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// WrapWithLog wraps a nested error and logs the wrapped message
func (e *Error) WrapWithLog(logger *zap.Logger, err error) *Error {
	wrapped := e.Wrap(err)
	logger.Error(e.msg, zap.Error(err))
	return wrapped
}

// Is of some error type? Two errors made by this package match
// whenever they stem from the same sentinel message.
func (e *Error) Is(target error) bool {
	if e == target {
		return true
	}
	if t, ok := target.(*Error); ok && e.msg == t.msg {
		return true
	}
	return stderr.Is(e.err, target)
}

// As finds the first error in err's chain that matches target, and if so, sets target to that error value and returns true.
// (a shortcut to standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
