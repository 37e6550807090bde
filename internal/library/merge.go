package library

import "github.com/modkeeper/modkeeper/internal/domain"

// withActive returns a new switch whose active library is lib and whose
// known list has the entry with lib's id replaced (or lib appended when the
// backend reports a library the list did not have yet). Other entries are
// copied unchanged.
func withActive(cur *domain.LibrarySwitch, lib domain.LibraryDTO) *domain.LibrarySwitch {
	active := lib.Clone()
	if cur == nil {
		return &domain.LibrarySwitch{
			Active:    &active,
			Libraries: []domain.LibraryDTO{lib.Clone()},
		}
	}

	next := cur.Clone()
	next.Active = &active

	for i := range next.Libraries {
		if next.Libraries[i].ID == lib.ID {
			next.Libraries[i] = lib.Clone()
			return next
		}
	}
	next.Libraries = append(next.Libraries, lib.Clone())
	return next
}

// mergeSwitch publishes a switch returned by a membership command.
func (s *Service) mergeSwitch(sw *domain.LibrarySwitch) {
	if sw != nil {
		seen := make(map[string]bool, len(sw.Libraries))
		for _, l := range sw.Libraries {
			seen[l.ID] = true
			s.warnManifests(l)
		}
		if sw.Active != nil && !seen[sw.Active.ID] {
			s.warnManifests(*sw.Active)
		}
	}
	s.state.setSwitch(sw)
}

// mergeActive publishes a library returned by a mod command.
func (s *Service) mergeActive(lib domain.LibraryDTO) {
	s.warnManifests(lib)
	s.state.setActive(lib)
}

// warnManifests logs mods whose manifest was dropped while decoding.
func (s *Service) warnManifests(lib domain.LibraryDTO) {
	for _, m := range lib.SortedMods() {
		if m.ManifestError != "" {
			s.logger.Warn("ignoring unreadable manifest", "library", lib.ID, "mod_id", m.ID, "error", m.ManifestError)
		}
	}
}
