// Package apperr holds the error kinds that handlers turn into HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
)

// Kinds. Match with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnavailable       = errors.New("backend unavailable")
	ErrAuth              = errors.New("authentication failed")
	ErrForbidden         = errors.New("forbidden")
)

// Error is a user-facing message tagged with a kind.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Kind.Error()
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error { return newf(ErrValidation, format, args...) }

func NotFound(format string, args ...any) error { return newf(ErrNotFound, format, args...) }

func Conflict(format string, args ...any) error { return newf(ErrConflict, format, args...) }

func InvalidTransition(format string, args ...any) error {
	return newf(ErrInvalidTransition, format, args...)
}

func Auth(format string, args ...any) error { return newf(ErrAuth, format, args...) }

func Forbidden(format string, args ...any) error { return newf(ErrForbidden, format, args...) }

// Unavailable wraps a store failure.
func Unavailable(err error, format string, args ...any) error {
	e := newf(ErrUnavailable, format, args...)
	e.Err = err
	return e
}
