// Package errorsx classifies conversion failures. Every error that reaches a
// status line carries one ReasonCode; the first code attached wins, so a
// provider's rate-limit reason survives the workflow's generic synthesis tag.
package errorsx

import (
	"errors"
	"fmt"
)

// ReasonedError is a failure tagged with the workflow step or condition that
// produced it. Its message is the wrapped error's, unchanged, so status lines
// read "Error: <provider message>".
type ReasonedError struct {
	Err    error
	Reason ReasonCode
}

func (e ReasonedError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return e.Err.Error()
}

func (e ReasonedError) Unwrap() error { return e.Err }

// New formats a message and tags it with reason.
func New(reason ReasonCode, format string, args ...any) error {
	return ReasonedError{Err: fmt.Errorf(format, args...), Reason: reason}
}

// Wrap tags err with reason unless it already carries one.
func Wrap(err error, reason ReasonCode) error {
	if err == nil {
		return nil
	}
	if _, ok := reasoned(err); ok {
		return err
	}
	return ReasonedError{Err: err, Reason: reason}
}

// Reason returns the code attached to err, or ReasonUnknown.
func Reason(err error) ReasonCode {
	if re, ok := reasoned(err); ok {
		return re.Reason
	}
	return ReasonUnknown
}

func HasReason(err error, reason ReasonCode) bool {
	return Reason(err) == reason
}

func reasoned(err error) (ReasonedError, bool) {
	var re ReasonedError
	if err == nil || !errors.As(err, &re) {
		return ReasonedError{}, false
	}
	return re, true
}
