// Package result models the success/failure envelope returned by every
// backend command and the single place where that envelope is opened.
package result

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Status discriminates the two envelope variants on the wire.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// ErrMalformed is returned when an envelope violates the status/payload invariant.
var ErrMalformed = errors.New("malformed result envelope")

// Result is the tagged union Ok{data} | Err{error}.
// Fields are unexported so that callers go through Unwrap or UnwrapWith.
type Result[T, E any] struct {
	status Status
	data   T
	err    E
}

// Ok builds a success envelope.
func Ok[T, E any](data T) Result[T, E] {
	return Result[T, E]{status: StatusOK, data: data}
}

// Err builds a failure envelope.
func Err[T, E any](e E) Result[T, E] {
	return Result[T, E]{status: StatusError, err: e}
}

type wireResult[T, E any] struct {
	Status Status `json:"status"`
	Data   *T     `json:"data,omitempty"`
	Error  *E     `json:"error,omitempty"`
}

// MarshalJSON encodes the envelope with only the populated side.
func (r Result[T, E]) MarshalJSON() ([]byte, error) {
	switch r.status {
	case StatusOK:
		return json.Marshal(wireResult[T, E]{Status: StatusOK, Data: &r.data})
	case StatusError:
		return json.Marshal(wireResult[T, E]{Status: StatusError, Error: &r.err})
	default:
		return nil, ErrMalformed
	}
}

// UnmarshalJSON decodes an envelope. The status field alone decides which
// side is read; an error envelope without an error payload is rejected.
func (r *Result[T, E]) UnmarshalJSON(b []byte) error {
	var w wireResult[T, E]
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	switch w.Status {
	case StatusOK:
		var zero E
		r.status, r.err = StatusOK, zero
		if w.Data != nil {
			r.data = *w.Data
		} else {
			var empty T
			r.data = empty
		}
		return nil
	case StatusError:
		if w.Error == nil {
			return fmt.Errorf("%w: error status without error payload", ErrMalformed)
		}
		var zero T
		r.status, r.data, r.err = StatusError, zero, *w.Error
		return nil
	default:
		return fmt.Errorf("%w: unknown status %q", ErrMalformed, w.Status)
	}
}
