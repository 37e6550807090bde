package result

// Translator turns a backend error value into a user-facing sentence.
type Translator[E any] interface {
	Translate(E) string
}

// TranslatorFunc adapts a plain function to Translator.
type TranslatorFunc[E any] func(E) string

func (f TranslatorFunc[E]) Translate(e E) string { return f(e) }

// Error is produced by Unwrap for an Err envelope. Its message is the
// translated sentence; Unwrap exposes the original backend value.
type Error[E any] struct {
	Value   E
	Message string
}

func (e *Error[E]) Error() string { return e.Message }

// Unwrap returns the original backend error when E itself implements error.
func (e *Error[E]) Unwrap() error {
	if err, ok := any(e.Value).(error); ok {
		return err
	}
	return nil
}

// Unwrap returns the payload of an Ok envelope, or an *Error carrying the
// translated message of an Err envelope. It never fails for Ok.
func Unwrap[T, E any](r Result[T, E], tr Translator[E]) (T, error) {
	if r.status == StatusError {
		var zero T
		return zero, &Error[E]{Value: r.err, Message: tr.Translate(r.err)}
	}
	return r.data, nil
}

// Handler receives exactly one non-nil argument.
type Handler[T, E, R any] func(ok *T, err *E) R

// UnwrapWith hands the envelope to h instead of producing an error.
func UnwrapWith[T, E, R any](r Result[T, E], h Handler[T, E, R]) R {
	if r.status == StatusError {
		e := r.err
		return h(nil, &e)
	}
	d := r.data
	return h(&d, nil)
}
