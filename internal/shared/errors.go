package shared

import (
	"errors"

	"classlib-backend/pkg/database"
)

// ====================================
// ERROR KINDS
// ====================================
// Every domain error carries exactly one kind. Handlers map kinds to HTTP
// status codes; callers test them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// ErrUnavailable marks storage-level failures (lock timeout, lost
	// connection, exhausted retries). The caller may retry the request.
	ErrUnavailable = database.ErrUnavailable
)

// Error is a domain error of a given kind.
type Error struct {
	kind error
	msg  string
}

// NewError creates a domain error. Domain packages declare their sentinels
// with it so both errors.Is(err, ErrConflict) and errors.Is(err, sentinel)
// hold.
func NewError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// Kind returns the kind of err, or nil if err carries none.
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrUnavailable} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
