// Package apperr defines the error kinds the service layer raises so the
// HTTP layer can map them to status codes without string inspection.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks lookup misses by id, email or roll number.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks unique-field collisions on create/update.
	ErrConflict = errors.New("conflict")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// NotFoundf builds a NotFound error with a formatted message.
func NotFoundf(format string, args ...any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// Conflictf builds a Conflict error with a formatted message.
func Conflictf(format string, args ...any) error {
	return &kindError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is a Conflict error.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
