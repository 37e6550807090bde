package components

import "github.com/modkeeper/modkeeper/internal/domain"

// Toggle is the activation switch of one mod row. The rendered value is
// local and flips as soon as the user asks; the store only catches up later.
type Toggle struct {
	modID         string
	on            bool   // rendered value
	authoritative bool   // last is_active seen in the store
	seq           uint64 // bumped on every flip
	inFlight      int
}

// ToggleRequest is what a flip asks the backend to do.
type ToggleRequest struct {
	ModID  string
	Active bool
	Seq    uint64
}

// NewToggle starts in sync with the store.
func NewToggle(modID string, isActive bool) *Toggle {
	return &Toggle{modID: modID, on: isActive, authoritative: isActive}
}

// On returns the value to render.
func (t *Toggle) On() bool { return t.on }

// Pending reports whether a request is still awaiting the backend.
func (t *Toggle) Pending() bool { return t.inFlight > 0 }

// Flip inverts the rendered value immediately.
func (t *Toggle) Flip() ToggleRequest {
	t.on = !t.on
	t.seq++
	t.inFlight++
	return ToggleRequest{ModID: t.modID, Active: t.on, Seq: t.seq}
}

// Sync applies the store's is_active. The local value is only overwritten
// when the store value changed since the last sync.
func (t *Toggle) Sync(isActive bool) {
	if isActive == t.authoritative {
		return
	}
	t.authoritative = isActive
	t.on = isActive
}

// Settle records the end of a request. isActive is the value the backend
// returned for the mod, nil when the response did not carry it. Only the
// latest flip decides the rendered value: a failure restores the last store
// value, a success shows what the backend reported, even when that value did
// not change and Sync therefore never fires.
func (t *Toggle) Settle(seq uint64, isActive *bool, err error) {
	if t.inFlight > 0 {
		t.inFlight--
	}
	if seq != t.seq {
		return
	}
	switch {
	case err != nil:
		t.on = t.authoritative
	case isActive != nil:
		t.authoritative = *isActive
		t.on = *isActive
	}
}

// Toggles keeps one Toggle per mod of the active library.
type Toggles map[string]*Toggle

// Reconcile syncs existing toggles, creates toggles for new mods and drops
// toggles of mods that left the library.
func (ts Toggles) Reconcile(lib *domain.LibraryDTO) {
	if lib == nil {
		for id := range ts {
			delete(ts, id)
		}
		return
	}
	for id := range ts {
		if _, ok := lib.Mods[id]; !ok {
			delete(ts, id)
		}
	}
	for id, m := range lib.Mods {
		if t, ok := ts[id]; ok {
			t.Sync(m.IsActive)
		} else {
			ts[id] = NewToggle(id, m.IsActive)
		}
	}
}

// Get returns the toggle of a mod, nil when unknown.
func (ts Toggles) Get(id string) *Toggle {
	return ts[id]
}
