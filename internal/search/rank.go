package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/modkeeper/modkeeper/internal/domain"
)

// RankMods returns mods whose id or name contains the query's characters in
// order, ignoring case and diacritics. An exact id match comes first, the
// rest are ordered by edit distance to the name.
func RankMods(query string, mods []domain.Mod) []domain.Mod {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]domain.Mod(nil), mods...)
	}

	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.DisplayName()
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	out := make([]domain.Mod, 0, len(ranks))
	seen := make(map[string]bool, len(ranks))
	add := func(m domain.Mod) {
		if !seen[m.ID] {
			seen[m.ID] = true
			out = append(out, m)
		}
	}

	for _, m := range mods {
		if strings.EqualFold(m.ID, query) {
			add(m)
		}
	}
	for _, r := range ranks {
		add(mods[r.OriginalIndex])
	}
	for _, m := range mods {
		if fuzzy.MatchNormalizedFold(query, m.ID) {
			add(m)
		}
	}
	return out
}

// Resolve finds the single mod a CLI argument refers to: an exact id, an
// exact name (case-insensitive), or the only fuzzy candidate.
func Resolve(arg string, mods []domain.Mod) (domain.Mod, bool) {
	for _, m := range mods {
		if m.ID == arg {
			return m, true
		}
	}
	for _, m := range mods {
		if strings.EqualFold(m.DisplayName(), arg) {
			return m, true
		}
	}
	if ranked := RankMods(arg, mods); len(ranked) == 1 {
		return ranked[0], true
	}
	return domain.Mod{}, false
}
