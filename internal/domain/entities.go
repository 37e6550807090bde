package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ModType tells which side of the game a mod installs into.
type ModType string

const (
	ModTypeClient  ModType = "Client"
	ModTypeServer  ModType = "Server"
	ModTypeBoth    ModType = "Both"
	ModTypeUnknown ModType = "Unknown"
)

// UnmarshalJSON maps anything outside the known set to ModTypeUnknown.
func (t *ModType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch ModType(s) {
	case ModTypeClient, ModTypeServer, ModTypeBoth:
		*t = ModType(s)
	default:
		*t = ModTypeUnknown
	}
	return nil
}

// Mod is one entry of a library's mod mapping.
type Mod struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	IsActive bool         `json:"is_active"`
	ModType  ModType      `json:"mod_type"`
	Manifest *ModManifest `json:"manifest,omitempty"`
	IconData string       `json:"icon_data,omitempty"` // inline image (data URI)

	// ManifestError is set when the manifest could not be decoded; the mod
	// is kept without one.
	ManifestError string `json:"-"`
}

// UnmarshalJSON decodes the manifest leniently: it is authored by third
// parties, and one bad file must not make the whole library unreadable.
func (m *Mod) UnmarshalJSON(b []byte) error {
	type plain Mod
	var raw struct {
		plain
		Manifest json.RawMessage `json:"manifest"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*m = Mod(raw.plain)
	m.Manifest = nil

	data := bytes.TrimSpace(raw.Manifest)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var mf ModManifest
	if err := json.Unmarshal(data, &mf); err != nil {
		m.ManifestError = err.Error()
		return nil
	}
	m.Manifest = &mf
	return nil
}

// DisplayName falls back to the id when the backend could not name the mod.
func (m Mod) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// Version returns the manifest version, or "" without a manifest.
func (m Mod) Version() string {
	if m.Manifest == nil {
		return ""
	}
	return m.Manifest.Version
}

// LibraryDTO is one mod library as reported by the backend.
type LibraryDTO struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	GameRoot   string         `json:"game_root"`
	RepoRoot   string         `json:"repo_root"`
	SPTVersion string         `json:"spt_version"`
	IsDirty    bool           `json:"is_dirty"`
	Mods       map[string]Mod `json:"mods"`
}

// SortedMods returns the mods ordered by id, matching the backend's map order.
func (l LibraryDTO) SortedMods() []Mod {
	ids := make([]string, 0, len(l.Mods))
	for id := range l.Mods {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	mods := make([]Mod, len(ids))
	for i, id := range ids {
		mods[i] = l.Mods[id]
	}
	return mods
}

// ActiveCount returns how many mods are enabled.
func (l LibraryDTO) ActiveCount() int {
	n := 0
	for _, m := range l.Mods {
		if m.IsActive {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (l LibraryDTO) Clone() LibraryDTO {
	out := l
	if l.Mods != nil {
		out.Mods = make(map[string]Mod, len(l.Mods))
		for id, m := range l.Mods {
			out.Mods[id] = m.clone()
		}
	}
	return out
}

func (m Mod) clone() Mod {
	out := m
	if m.Manifest != nil {
		mf := m.Manifest.clone()
		out.Manifest = &mf
	}
	return out
}

// LibrarySwitch is the root consistency object: the active library and the
// set of known libraries.
type LibrarySwitch struct {
	Active    *LibraryDTO  `json:"active"`
	Libraries []LibraryDTO `json:"libraries"`
}

// Clone returns a deep copy; a nil switch clones to nil.
func (s *LibrarySwitch) Clone() *LibrarySwitch {
	if s == nil {
		return nil
	}
	out := &LibrarySwitch{}
	if s.Active != nil {
		a := s.Active.Clone()
		out.Active = &a
	}
	if s.Libraries != nil {
		out.Libraries = make([]LibraryDTO, len(s.Libraries))
		for i, l := range s.Libraries {
			out.Libraries[i] = l.Clone()
		}
	}
	return out
}

// Find returns the known library with the given id.
func (s *LibrarySwitch) Find(id string) (LibraryDTO, bool) {
	if s == nil {
		return LibraryDTO{}, false
	}
	for _, l := range s.Libraries {
		if l.ID == id {
			return l, true
		}
	}
	return LibraryDTO{}, false
}

// ModBackup references one immutable backup snapshot of a mod.
type ModBackup struct {
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// LibraryCreationRequirement is the argument of createLibrary.
type LibraryCreationRequirement struct {
	Name     string `json:"name"`
	GameRoot string `json:"game_root"`
	RepoRoot string `json:"repo_root,omitempty"`
}

// SimulationGameRoot is returned by createSimulationGameRoot.
type SimulationGameRoot struct {
	GameRoot    string `json:"game_root"`
	TempDirPath string `json:"temp_dir_path,omitempty"`
}

// ModManifest is the descriptive metadata shipped with a mod.
type ModManifest struct {
	Version       string        `json:"version"`
	Author        Authors       `json:"author"`
	Description   string        `json:"description,omitempty"`
	Dependencies  Dependencies  `json:"dependencies"`
	Effects       []string      `json:"effects,omitempty"`
	Compatibility Compatibility `json:"compatibility"`
	Links         []Link        `json:"links,omitempty"`
	Documentation string        `json:"documentation,omitempty"`
	SPTVersion    string        `json:"sptVersion,omitempty"`
}

func (m ModManifest) clone() ModManifest {
	out := m
	out.Author = append(Authors(nil), m.Author...)
	out.Dependencies = m.Dependencies.clone()
	out.Effects = append([]string(nil), m.Effects...)
	out.Compatibility = Compatibility{
		Include: append([]string(nil), m.Compatibility.Include...),
		Exclude: append([]string(nil), m.Compatibility.Exclude...),
	}
	out.Links = append([]Link(nil), m.Links...)
	return out
}

// Authors accepts either a single author string or an ordered list.
type Authors []string

func (a *Authors) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if one == "" {
			*a = nil
		} else {
			*a = Authors{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("author must be a string or a list of strings: %w", err)
	}
	*a = many
	return nil
}

// String joins multiple authors for display.
func (a Authors) String() string {
	return strings.Join(a, ", ")
}

// Compatibility lists tags a mod works with or conflicts with.
type Compatibility struct {
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// Link is an external reference published by the mod author.
type Link struct {
	URL      string `json:"url"`
	Name     string `json:"name,omitempty"`
	LinkType string `json:"link_type,omitempty"`
}
