package library

import "github.com/modkeeper/modkeeper/internal/domain"

// begin marks op as in flight and clears the last error.
func (s *State) begin(op string) uint64 {
	s.mu.Lock()
	s.nextTok++
	tok := s.nextTok
	s.inflight[tok] = op
	s.err = nil
	s.mu.Unlock()

	s.notify()
	return tok
}

// end removes only its own token, so one call finishing never hides
// another that is still pending.
func (s *State) end(tok uint64) {
	s.mu.Lock()
	delete(s.inflight, tok)
	s.mu.Unlock()

	s.notify()
}

func (s *State) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()

	s.notify()
}

func (s *State) setSwitch(sw *domain.LibrarySwitch) {
	s.mu.Lock()
	s.sw = sw.Clone()
	s.loaded = true
	s.mu.Unlock()

	s.notify()
}

// setActive replaces the active library and never drops the known list.
func (s *State) setActive(lib domain.LibraryDTO) {
	s.mu.Lock()
	s.sw = withActive(s.sw, lib)
	s.loaded = true
	s.mu.Unlock()

	s.notify()
}

func (s *State) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if len(s.subs) == 0 {
		return
	}

	snap := s.Snapshot()
	for _, fn := range s.subs {
		fn(snap)
	}
}
