package search

import (
	"testing"

	"github.com/modkeeper/modkeeper/internal/domain"
)

var mods = []domain.Mod{
	{ID: "com.fika.core", Name: "Fika Core"},
	{ID: "realism", Name: "SPT Realism"},
	{ID: "svm", Name: "Server Value Modifier"},
	{ID: "amands.graphics", Name: "Amands's Graphics"},
	{ID: "no-name"},
}

func ids(ms []domain.Mod) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestFilterMods(t *testing.T) {
	t.Run("empty query keeps order", func(t *testing.T) {
		got := FilterMods("  ", mods)
		if len(got) != len(mods) {
			t.Fatalf("len = %d, want %d", len(got), len(mods))
		}
		for i := range mods {
			if got[i].Mod.ID != mods[i].ID || got[i].MatchedIndexes != nil {
				t.Errorf("match %d = %+v", i, got[i])
			}
		}
	})

	t.Run("case-insensitive with highlights", func(t *testing.T) {
		got := FilterMods("REAL", mods)
		if len(got) == 0 || got[0].Mod.ID != "realism" {
			t.Fatalf("FilterMods(REAL) = %+v", got)
		}
		want := []int{4, 5, 6, 7} // "Real" in "SPT Realism"
		if len(got[0].MatchedIndexes) != len(want) {
			t.Fatalf("MatchedIndexes = %v, want %v", got[0].MatchedIndexes, want)
		}
		for i, idx := range want {
			if got[0].MatchedIndexes[i] != idx {
				t.Errorf("MatchedIndexes = %v, want %v", got[0].MatchedIndexes, want)
				break
			}
		}
	})

	t.Run("falls back to id for unnamed mods", func(t *testing.T) {
		got := FilterMods("no-name", mods)
		if len(got) != 1 || got[0].Mod.ID != "no-name" {
			t.Errorf("FilterMods(no-name) = %+v", got)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if got := FilterMods("zzz", mods); len(got) != 0 {
			t.Errorf("FilterMods(zzz) = %+v", got)
		}
	})
}

func TestRankMods(t *testing.T) {
	tests := []struct {
		query string
		first string
	}{
		{"svm", "svm"},
		{"fika", "com.fika.core"},
		{"amands", "amands.graphics"},
		{"server", "svm"},
	}
	for _, tt := range tests {
		got := RankMods(tt.query, mods)
		if len(got) == 0 || got[0].ID != tt.first {
			t.Errorf("RankMods(%q) = %v, want %q first", tt.query, ids(got), tt.first)
		}
	}

	if got := RankMods("", mods); len(got) != len(mods) {
		t.Errorf("RankMods(\"\") returned %d mods", len(got))
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		arg    string
		want   string
		wantOK bool
	}{
		{"realism", "realism", true},
		{"server value modifier", "svm", true},
		{"graphics", "amands.graphics", true},
		{"r", "", false},
		{"missing", "", false},
	}
	for _, tt := range tests {
		got, ok := Resolve(tt.arg, mods)
		if ok != tt.wantOK || (ok && got.ID != tt.want) {
			t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.arg, got.ID, ok, tt.want, tt.wantOK)
		}
	}
}
