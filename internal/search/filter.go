// Package search matches mods against user queries: an interactive filter
// with highlight positions for the TUI and a ranked lookup for the CLI.
package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/modkeeper/modkeeper/internal/domain"
)

// Match is one filtered mod with the positions that matched its name.
type Match struct {
	Mod            domain.Mod
	MatchedIndexes []int // byte offsets into the lowercased Mod.DisplayName()
	Score          int
}

// ModIndex implements sahilm/fuzzy.Source over mod display names.
type ModIndex struct {
	mods       []domain.Mod
	lowerNames []string // Pre-computed lowercase names
}

// NewModIndex indexes mods in the given order.
func NewModIndex(mods []domain.Mod) *ModIndex {
	idx := &ModIndex{
		mods:       mods,
		lowerNames: make([]string, len(mods)),
	}
	for i, m := range mods {
		idx.lowerNames[i] = strings.ToLower(m.DisplayName())
	}
	return idx
}

// String returns the lowercase name at index i (implements fuzzy.Source)
func (idx *ModIndex) String(i int) string { return idx.lowerNames[i] }

// Len returns the number of mods (implements fuzzy.Source)
func (idx *ModIndex) Len() int { return len(idx.mods) }

// Filter returns the mods matching query, best first. An empty query keeps
// every mod in index order.
func (idx *ModIndex) Filter(query string) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]Match, len(idx.mods))
		for i, m := range idx.mods {
			out[i] = Match{Mod: m}
		}
		return out
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), idx)
	out := make([]Match, len(matches))
	for i, m := range matches {
		out[i] = Match{
			Mod:            idx.mods[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return out
}

// FilterMods is a one-shot Filter over mods.
func FilterMods(query string, mods []domain.Mod) []Match {
	return NewModIndex(mods).Filter(query)
}
