package history

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/library"
	"github.com/modkeeper/modkeeper/internal/result"
)

func openTest(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "history", "actions.db"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestOpenRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.db")
	if err := os.WriteFile(path, []byte(strings.Repeat("not a database\n", 64)), 0600); err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if l, err := Open(path, logger); err == nil {
		l.Close()
		t.Fatal("Open() accepted a file that is not a database")
	}

	// The failed open must not keep the file in use
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	l, err := Open(path, logger)
	if err != nil {
		t.Fatalf("Open() after replacing the file: %v", err)
	}
	l.Close()
}

func TestRecordAndList(t *testing.T) {
	l := openTest(t)
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	backendErr := &result.Error[domain.SError]{
		Value:   domain.Bare(domain.KindGameOrServerRunning),
		Message: "The game is running.",
	}
	outcomes := []library.Outcome{
		{Op: library.OpInit, LibraryID: "lib-1", At: base, Duration: 20 * time.Millisecond},
		{Op: library.OpToggleMod, LibraryID: "lib-1", At: base.Add(time.Minute),
			Err: &library.ActionError{Op: library.OpToggleMod, Message: "The game is running.", Err: backendErr}},
		{Op: library.OpSyncMods, LibraryID: "lib-2", At: base.Add(2 * time.Minute),
			Err: &library.ActionError{Op: library.OpSyncMods, Message: "fallback", Err: errors.New("refused")}},
	}
	for _, o := range outcomes {
		if err := l.Record(o); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		filter Filter
		ops    []string
	}{
		{"all newest first", Filter{}, []string{library.OpSyncMods, library.OpToggleMod, library.OpInit}},
		{"limit", Filter{Limit: 1}, []string{library.OpSyncMods}},
		{"failed only", Filter{FailedOnly: true}, []string{library.OpSyncMods, library.OpToggleMod}},
		{"by op", Filter{Op: library.OpInit}, []string{library.OpInit}},
		{"by library", Filter{LibraryID: "lib-2"}, []string{library.OpSyncMods}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := l.List(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(recs) != len(tt.ops) {
				t.Fatalf("List() returned %d records, want %d", len(recs), len(tt.ops))
			}
			for i, op := range tt.ops {
				if recs[i].Op != op {
					t.Errorf("record %d op = %q, want %q", i, recs[i].Op, op)
				}
			}
		})
	}

	failed, err := l.List(context.Background(), Filter{Op: library.OpToggleMod})
	if err != nil {
		t.Fatal(err)
	}
	if got := failed[0]; got.OK || got.ErrorKind != string(domain.KindGameOrServerRunning) || got.Message != "The game is running." {
		t.Errorf("toggle record = %+v", got)
	}
	local, err := l.List(context.Background(), Filter{Op: library.OpSyncMods})
	if err != nil {
		t.Fatal(err)
	}
	if local[0].ErrorKind != "" {
		t.Errorf("local failure kind = %q, want empty", local[0].ErrorKind)
	}
}

func TestPrune(t *testing.T) {
	l := openTest(t)
	now := time.Now()
	for _, at := range []time.Time{now.Add(-48 * time.Hour), now.Add(-time.Hour), now} {
		if err := l.Record(library.Outcome{Op: library.OpGetLibrary, At: at}); err != nil {
			t.Fatal(err)
		}
	}

	n, err := l.Prune(context.Background(), now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Prune() removed %d, want 1", n)
	}
	recs, err := l.List(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("remaining = %d, want 2", len(recs))
	}
}
