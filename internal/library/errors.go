package library

import (
	"errors"

	"github.com/modkeeper/modkeeper/internal/domain"
)

// ActionError is returned by every failed action and stored in State.
// Error() is the translated sentence; Unwrap keeps the cause so errors.As
// still reaches a domain.SError or a transport error.
type ActionError struct {
	Op      string
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }

func (e *ActionError) Unwrap() error { return e.Err }

// Kind returns the backend error kind, or "" for local failures.
func (e *ActionError) Kind() domain.ErrorKind {
	var serr domain.SError
	if errors.As(e.Err, &serr) {
		return serr.Kind
	}
	return ""
}
