package library

import (
	"sort"
	"sync"

	"github.com/modkeeper/modkeeper/internal/domain"
)

// State is the shared, observable library state.
// Reads are unrestricted and return deep copies; writes are unexported and
// performed only by Service. Implements domain.LibraryQueries.
type State struct {
	mu       sync.RWMutex
	sw       *domain.LibrarySwitch
	loaded   bool
	inflight map[uint64]string
	nextTok  uint64
	err      error

	// notifyMu orders snapshots delivered to subscribers.
	notifyMu sync.Mutex
	subs     map[int]func(domain.StateSnapshot)
	nextSub  int
}

// NewState creates an empty state: no switch, not loading, no error.
func NewState() *State {
	return &State{
		inflight: make(map[uint64]string),
		subs:     make(map[int]func(domain.StateSnapshot)),
	}
}

func (s *State) Snapshot() domain.StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() domain.StateSnapshot {
	toks := make([]uint64, 0, len(s.inflight))
	for tok := range s.inflight {
		toks = append(toks, tok)
	}
	sort.Slice(toks, func(i, j int) bool { return toks[i] < toks[j] })

	ops := make([]string, len(toks))
	for i, tok := range toks {
		ops[i] = s.inflight[tok]
	}

	return domain.StateSnapshot{
		Switch:   s.sw.Clone(),
		Loaded:   s.loaded,
		Loading:  len(s.inflight) > 0,
		InFlight: ops,
		Err:      s.err,
	}
}

// Switch returns the source of truth, nil before the first successful load.
func (s *State) Switch() *domain.LibrarySwitch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sw.Clone()
}

func (s *State) Active() *domain.LibraryDTO {
	return s.Snapshot().Active()
}

func (s *State) Libraries() []domain.LibraryDTO {
	return s.Snapshot().Libraries()
}

// Loading reports whether any action is awaiting the backend.
func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.inflight) > 0
}

// Err returns the last action failure, nil after the next action starts.
func (s *State) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Subscribe registers fn to receive a snapshot after every change.
// fn runs on the writer's goroutine and must not start actions synchronously.
func (s *State) Subscribe(fn func(domain.StateSnapshot)) (cancel func()) {
	s.notifyMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.notifyMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.notifyMu.Lock()
			delete(s.subs, id)
			s.notifyMu.Unlock()
		})
	}
}
