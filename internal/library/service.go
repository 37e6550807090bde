package library

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/result"
)

// Translator renders backend errors and the local-failure fallback.
type Translator interface {
	result.Translator[domain.SError]
	Unexpected() string
}

// Outcome describes one finished action.
type Outcome struct {
	Op        string
	LibraryID string // active library after the call, "" when none
	Err       error
	Duration  time.Duration
	At        time.Time
}

// Recorder receives every action outcome, successful or not.
type Recorder interface {
	Record(o Outcome) error
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder attaches an action ledger.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithState shares an existing State instead of creating one.
func WithState(st *State) Option {
	return func(s *Service) { s.state = st }
}

// Service is the only writer of State. Each method wraps one backend
// command: mark the op in flight, call the backend, unwrap the envelope,
// merge on success or record the translated error on failure.
// Implements domain.LibraryCommands.
type Service struct {
	backend  domain.Backend
	state    *State
	tr       Translator
	recorder Recorder
	logger   *slog.Logger

	// mutations holds one slot: calls that change the switch or the mod set
	// run one at a time in arrival order.
	mutations *semaphore.Weighted
}

// NewService creates a new library service.
func NewService(backend domain.Backend, tr Translator, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		backend:   backend,
		tr:        tr,
		logger:    logger,
		mutations: semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.state == nil {
		s.state = NewState()
	}
	return s
}

// State exposes the observable cells.
func (s *Service) State() *State {
	return s.state
}

// invoke runs one action. merge is nil for commands that leave the switch alone.
func invoke[T any](
	ctx context.Context,
	s *Service,
	op string,
	serialize bool,
	call func(context.Context) (result.Result[T, domain.SError], error),
	merge func(T),
) (T, error) {
	var zero T
	start := time.Now()

	tok := s.state.begin(op)
	defer s.state.end(tok)

	if serialize {
		if err := s.mutations.Acquire(ctx, 1); err != nil {
			return zero, s.fail(op, start, err)
		}
		defer s.mutations.Release(1)
	}

	res, err := call(ctx)
	if err != nil {
		return zero, s.fail(op, start, err)
	}

	v, err := result.Unwrap(res, result.TranslatorFunc[domain.SError](s.tr.Translate))
	if err != nil {
		return zero, s.fail(op, start, err)
	}

	if merge != nil {
		merge(v)
	}
	s.logger.Debug("action completed", "op", op, "duration", time.Since(start))
	s.record(op, start, nil)
	return v, nil
}

// fail turns err into an ActionError, publishes it and records it.
// Backend errors keep their translated message; anything else (transport,
// cancellation) gets the generic fallback.
func (s *Service) fail(op string, start time.Time, err error) error {
	msg := s.tr.Unexpected()
	var rerr *result.Error[domain.SError]
	if errors.As(err, &rerr) {
		msg = rerr.Message
	}

	aerr := &ActionError{Op: op, Message: msg, Err: err}
	s.state.fail(aerr)
	s.logger.Error("failed to "+op, "error", err)
	s.record(op, start, aerr)
	return aerr
}

func (s *Service) record(op string, start time.Time, err error) {
	if s.recorder == nil {
		return
	}
	o := Outcome{
		Op:       op,
		Err:      err,
		Duration: time.Since(start),
		At:       start,
	}
	if active := s.state.Active(); active != nil {
		o.LibraryID = active.ID
	}
	if rerr := s.recorder.Record(o); rerr != nil {
		s.logger.Warn("failed to record action", "op", op, "error", rerr)
	}
}
