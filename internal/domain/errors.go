package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for client-side failures that never come from the backend.
var (
	// ErrNoActiveLibrary indicates an operation needs an active library but none is open
	ErrNoActiveLibrary = errors.New("no active library")

	// ErrBackendUnreachable indicates the backend could not be contacted
	ErrBackendUnreachable = errors.New("backend is unreachable")

	// ErrModNotFound indicates a mod id is not part of the active library
	ErrModNotFound = errors.New("mod not found")
)

// ErrorKind names one variant of the backend error taxonomy.
type ErrorKind string

// Bare variants carry no payload.
const (
	KindGameOrServerRunning    ErrorKind = "GameOrServerRunning"
	KindProcessRunning         ErrorKind = "ProcessRunning"
	KindUnableToDetermineModID ErrorKind = "UnableToDetermineModId"
	KindLink                   ErrorKind = "Link"
	KindContextUnprovided      ErrorKind = "ContextUnprovided"
	KindNoActiveLibrary        ErrorKind = "NoActiveLibrary"
	KindUnexpected             ErrorKind = "Unexpected"
)

// Structured variants are a single-key object holding a payload.
const (
	KindUnsupportedSPTVersion   ErrorKind = "UnsupportedSPTVersion"
	KindParseError              ErrorKind = "ParseError"
	KindIOError                 ErrorKind = "IOError"
	KindModNotFound             ErrorKind = "ModNotFound"
	KindFileOrDirectoryNotFound ErrorKind = "FileOrDirectoryNotFound"
	KindFileCollision           ErrorKind = "FileCollision"
	KindUnhandledCompression    ErrorKind = "UnhandledCompression"
	KindAsyncRuntimeError       ErrorKind = "AsyncRuntimeError"
	KindUpdateStatusError       ErrorKind = "UpdateStatusError"
)

// BareKinds and StructuredKinds list every variant the client knows about.
var (
	BareKinds = []ErrorKind{
		KindGameOrServerRunning, KindProcessRunning, KindUnableToDetermineModID,
		KindLink, KindContextUnprovided, KindNoActiveLibrary, KindUnexpected,
	}
	StructuredKinds = []ErrorKind{
		KindUnsupportedSPTVersion, KindParseError, KindIOError, KindModNotFound,
		KindFileOrDirectoryNotFound, KindFileCollision, KindUnhandledCompression,
		KindAsyncRuntimeError, KindUpdateStatusError,
	}
)

// SError is a backend domain error. On the wire it is either a bare string
// ("GameOrServerRunning") or a single-key object ({"IOError": "..."}).
// Kinds the client does not know are kept as-is so they can still be
// classified as bare or structured.
type SError struct {
	Kind       ErrorKind
	Detail     string   // payload of string-carrying structured variants
	Paths      []string // payload of FileCollision
	Structured bool
}

// Bare builds a payload-less error.
func Bare(kind ErrorKind) SError {
	return SError{Kind: kind}
}

// Structured builds a single-key error carrying a string payload.
func Structured(kind ErrorKind, detail string) SError {
	return SError{Kind: kind, Detail: detail, Structured: true}
}

// FileCollision builds the collision variant with its conflicting paths.
func FileCollision(paths ...string) SError {
	return SError{Kind: KindFileCollision, Paths: paths, Structured: true}
}

// Is matches on kind so errors.Is(err, domain.Bare(domain.KindProcessRunning)) works.
func (e SError) Is(target error) bool {
	t, ok := target.(SError)
	return ok && t.Kind == e.Kind
}

// Error is the untranslated developer form; user-facing text comes from i18n.
func (e SError) Error() string {
	switch {
	case e.Kind == KindFileCollision:
		return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Paths, ", "))
	case e.Structured && e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	default:
		return string(e.Kind)
	}
}

func (e SError) MarshalJSON() ([]byte, error) {
	if !e.Structured {
		return json.Marshal(string(e.Kind))
	}
	var payload any = e.Detail
	if e.Kind == KindFileCollision {
		payload = e.Paths
		if e.Paths == nil {
			payload = []string{}
		}
	}
	return json.Marshal(map[string]any{string(e.Kind): payload})
}

func (e *SError) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var kind string
		if err := json.Unmarshal(b, &kind); err != nil {
			return err
		}
		*e = SError{Kind: ErrorKind(kind)}
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("error must be a string or an object: %w", err)
	}
	if len(obj) != 1 {
		return fmt.Errorf("structured error must have exactly one key, got %d", len(obj))
	}

	for k, raw := range obj {
		*e = SError{Kind: ErrorKind(k), Structured: true}
		if e.Kind == KindFileCollision {
			return json.Unmarshal(raw, &e.Paths)
		}
		// Unknown variants may carry any payload; keep strings, drop the rest.
		var detail string
		if err := json.Unmarshal(raw, &detail); err == nil {
			e.Detail = detail
		} else if e.Known() {
			return fmt.Errorf("%s payload: %w", k, err)
		}
	}
	return nil
}

// Known reports whether the kind is part of the current taxonomy.
func (e SError) Known() bool {
	for _, k := range BareKinds {
		if k == e.Kind && !e.Structured {
			return true
		}
	}
	for _, k := range StructuredKinds {
		if k == e.Kind && e.Structured {
			return true
		}
	}
	return false
}
