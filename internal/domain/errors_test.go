package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSErrorUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  SError
		known bool
	}{
		{"bare", `"GameOrServerRunning"`, Bare(KindGameOrServerRunning), true},
		{"structured string", `{"IOError":"permission denied"}`, Structured(KindIOError, "permission denied"), true},
		{"collision", `{"FileCollision":["a.dll","b.dll"]}`, FileCollision("a.dll", "b.dll"), true},
		{"unknown bare", `"BrandNew"`, SError{Kind: "BrandNew"}, false},
		{"unknown structured", `{"BrandNew":{"x":1}}`, SError{Kind: "BrandNew", Structured: true}, false},
		{"bare kind used as object", `{"ProcessRunning":"x"}`, Structured("ProcessRunning", "x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SError
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
			if got.Known() != tt.known {
				t.Errorf("Known() = %v, want %v", got.Known(), tt.known)
			}
		})
	}
}

func TestSErrorUnmarshalRejects(t *testing.T) {
	for _, input := range []string{`{}`, `{"IOError":"a","ParseError":"b"}`, `12`, `{"IOError":5}`} {
		var e SError
		if err := json.Unmarshal([]byte(input), &e); err == nil {
			t.Errorf("Unmarshal(%s) expected error", input)
		}
	}
}

func TestSErrorRoundTripShape(t *testing.T) {
	tests := []struct {
		in   SError
		want string
	}{
		{Bare(KindNoActiveLibrary), `"NoActiveLibrary"`},
		{Structured(KindModNotFound, "m1"), `{"ModNotFound":"m1"}`},
		{FileCollision(), `{"FileCollision":[]}`},
	}
	for _, tt := range tests {
		b, err := json.Marshal(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != tt.want {
			t.Errorf("Marshal(%v) = %s, want %s", tt.in, b, tt.want)
		}
	}
}

func TestSErrorIs(t *testing.T) {
	var err error = Structured(KindIOError, "disk full")
	if !errors.Is(err, Structured(KindIOError, "")) {
		t.Error("errors.Is should match on kind")
	}
	if errors.Is(err, Bare(KindUnexpected)) {
		t.Error("errors.Is matched a different kind")
	}
	if got := err.Error(); got != "IOError: disk full" {
		t.Errorf("Error() = %q", got)
	}
}
