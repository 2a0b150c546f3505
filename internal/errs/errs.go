// Package errs holds the error taxonomy shared by every diary package.
package errs

import (
	"errors"
	"strings"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrIntegrity     = errors.New("integrity violation")
	ErrIO            = errors.New("i/o failure")
	ErrDecode        = errors.New("malformed label")
)

// Error carries the failing operation and the taxonomy kind.
type Error struct {
	Op   string // operation that failed
	Kind error  // one of the sentinels above
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	parts := []string{e.Op}
	if e.Kind != nil {
		parts = append(parts, e.Kind.Error())
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match on the taxonomy kind as well as on the wrapped cause.
func (e *Error) Is(target error) bool {
	if e.Kind != nil && target == e.Kind {
		return true
	}
	return false
}

// E builds an *Error. msg, when non-empty, becomes the cause.
func E(op string, kind error, msg string) error {
	var cause error
	if msg != "" {
		cause = errors.New(msg)
	}
	return &Error{Op: op, Kind: kind, Err: cause}
}

// Wrap attaches op and kind to an existing error.
func Wrap(op string, kind error, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}
