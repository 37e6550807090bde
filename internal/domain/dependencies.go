package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// DependencyKind says which of the two legal shapes a manifest used.
type DependencyKind int

const (
	DependencyNone DependencyKind = iota
	DependencyMap                 // id -> version
	DependencyList                // ordered {id, version, optional}
)

// Dependency is one entry of the list shape.
type Dependency struct {
	ID       string `json:"id"`
	Version  string `json:"version"`
	Optional bool   `json:"optional,omitempty"`
}

// Dependencies is decoded once at ingestion into an explicit variant.
// Downstream code switches on Kind and never re-inspects raw JSON.
type Dependencies struct {
	Kind DependencyKind
	Map  map[string]string
	List []Dependency
}

var errDependencyShape = errors.New("dependencies must be an object or a list")

// UnmarshalJSON accepts a plain object, a plain array, or the backend's
// externally tagged forms {"Object": {...}} and {"Array": [...]}.
func (d *Dependencies) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*d = Dependencies{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '[':
		var list []Dependency
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		d.Kind, d.List = DependencyList, list
		return nil
	case '{':
		var tagged map[string]json.RawMessage
		if err := json.Unmarshal(b, &tagged); err != nil {
			return err
		}
		// A lone "Object" or "Array" key is only the wrapper when it holds
		// the matching shape; otherwise it is a mod id like any other.
		if len(tagged) == 1 {
			if raw, ok := tagged["Object"]; ok && startsWith(raw, '{') {
				return d.decodeMap(raw)
			}
			if raw, ok := tagged["Array"]; ok && startsWith(raw, '[') {
				return d.UnmarshalJSON(raw)
			}
		}
		return d.decodeMap(b)
	default:
		return errDependencyShape
	}
}

// decodeMap reads an id -> version object. Versions written as bare numbers
// (1, 2.5) are kept as their literal text.
func (d *Dependencies) decodeMap(raw []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	m := make(map[string]string, len(fields))
	for id, v := range fields {
		v = bytes.TrimSpace(v)
		switch {
		case startsWith(v, '"'):
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return err
			}
			m[id] = s
		case bytes.Equal(v, []byte("null")):
			m[id] = ""
		case json.Valid(v) && (startsWith(v, '-') || (len(v) > 0 && v[0] >= '0' && v[0] <= '9')):
			m[id] = string(v)
		default:
			return fmt.Errorf("dependency %q: version must be a string or a number", id)
		}
	}
	d.Kind, d.Map = DependencyMap, m
	return nil
}

func startsWith(b []byte, c byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == c
}

// MarshalJSON writes the shape that was read.
func (d Dependencies) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case DependencyMap:
		return json.Marshal(d.Map)
	case DependencyList:
		return json.Marshal(d.List)
	default:
		return []byte("null"), nil
	}
}

// Entries normalizes both shapes into a list sorted by id for the map shape
// and in declaration order for the list shape.
func (d Dependencies) Entries() []Dependency {
	switch d.Kind {
	case DependencyMap:
		ids := make([]string, 0, len(d.Map))
		for id := range d.Map {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out := make([]Dependency, len(ids))
		for i, id := range ids {
			out[i] = Dependency{ID: id, Version: d.Map[id]}
		}
		return out
	case DependencyList:
		return append([]Dependency(nil), d.List...)
	default:
		return nil
	}
}

func (d Dependencies) clone() Dependencies {
	out := Dependencies{Kind: d.Kind}
	if d.Map != nil {
		out.Map = make(map[string]string, len(d.Map))
		for k, v := range d.Map {
			out.Map[k] = v
		}
	}
	if d.List != nil {
		out.List = append([]Dependency(nil), d.List...)
	}
	return out
}
