package store

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/modkeeper/modkeeper/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleSwitch() *domain.LibrarySwitch {
	a := domain.LibraryDTO{
		ID:   "lib-a",
		Name: "A",
		Mods: map[string]domain.Mod{
			"m1": {ID: "m1", Name: "One", IsActive: true, ModType: domain.ModTypeClient},
		},
	}
	b := domain.LibraryDTO{ID: "lib-b", Name: "B", Mods: map[string]domain.Mod{}}
	return &domain.LibrarySwitch{Active: &a, Libraries: []domain.LibraryDTO{a, b}}
}

func TestSwitchSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	url := "http://127.0.0.1:7878"

	s, err := NewSnapshotStore(dir, url, testLogger())
	if err != nil {
		t.Fatalf("NewSnapshotStore() error = %v", err)
	}
	want := sampleSwitch()
	if err := s.SaveSwitch(want); err != nil {
		t.Fatalf("SaveSwitch() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewSnapshotStore(dir, url, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, ok := reopened.LoadSwitch()
	if !ok {
		t.Fatal("LoadSwitch() found nothing after reopen")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("switch mismatch (-want +got):\n%s", diff)
	}
	if lib, ok := reopened.GetLibrary("lib-b"); !ok || lib.Name != "B" {
		t.Errorf("GetLibrary(lib-b) = %+v, %v", lib, ok)
	}
	if _, ok := reopened.SavedAt(); !ok {
		t.Error("SavedAt() missing")
	}
}

func TestStoresArePartitionedByBackend(t *testing.T) {
	dir := t.TempDir()
	s1, err := NewSnapshotStore(dir, "http://host-one:7878", testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s1.Close()
	if err := s1.SaveSwitch(sampleSwitch()); err != nil {
		t.Fatal(err)
	}

	s2, err := NewSnapshotStore(dir, "http://host-two:7878", testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if _, ok := s2.LoadSwitch(); ok {
		t.Error("second backend sees the first backend's snapshot")
	}
}

func TestInvalidate(t *testing.T) {
	s, err := NewSnapshotStore(t.TempDir(), "", testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.SaveSwitch(sampleSwitch()); err != nil {
		t.Fatal(err)
	}

	s.InvalidateLibrary("lib-a")
	if _, ok := s.GetLibrary("lib-a"); ok {
		t.Error("lib-a still cached after InvalidateLibrary")
	}
	if _, ok := s.GetLibrary("lib-b"); !ok {
		t.Error("lib-b dropped by InvalidateLibrary(lib-a)")
	}

	s.InvalidateAll()
	if _, ok := s.LoadSwitch(); ok {
		t.Error("switch still cached after InvalidateAll")
	}
	if _, ok := s.GetLibrary("lib-b"); ok {
		t.Error("lib-b still cached after InvalidateAll")
	}
}

func TestSaveSwitchDropsRemovedLibraries(t *testing.T) {
	tests := []struct {
		name string
		dir  string
	}{
		{"memory", ""},
		{"disk", t.TempDir()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSnapshotStore(tt.dir, "", testLogger())
			if err != nil {
				t.Fatal(err)
			}
			if err := s.SaveSwitch(sampleSwitch()); err != nil {
				t.Fatal(err)
			}

			sw := sampleSwitch()
			sw.Libraries = sw.Libraries[:1]
			if err := s.SaveSwitch(sw); err != nil {
				t.Fatal(err)
			}
			if _, ok := s.GetLibrary("lib-b"); ok {
				t.Error("lib-b still cached after it left the switch")
			}
			if _, ok := s.GetLibrary("lib-a"); !ok {
				t.Error("lib-a dropped")
			}

			// A cleared switch drops everything
			if err := s.SaveSwitch(nil); err != nil {
				t.Fatal(err)
			}
			if err := s.Close(); err != nil {
				t.Fatal(err)
			}
			if tt.dir == "" {
				if _, ok := s.GetLibrary("lib-a"); ok {
					t.Error("lib-a still cached after an empty switch")
				}
				return
			}
			reopened, err := NewSnapshotStore(tt.dir, "", testLogger())
			if err != nil {
				t.Fatal(err)
			}
			defer reopened.Close()
			if ids := reopened.libraryIDs(); len(ids) != 0 {
				t.Errorf("libraries left on disk: %v", ids)
			}
		})
	}
}

func TestPersist(t *testing.T) {
	s, err := NewSnapshotStore("", "", testLogger())
	if err != nil {
		t.Fatal(err)
	}

	s.Persist(domain.StateSnapshot{Loading: true})
	if _, ok := s.LoadSwitch(); ok {
		t.Fatal("snapshot before the first backend answer was persisted")
	}

	sw := sampleSwitch()
	s.Persist(domain.StateSnapshot{Switch: sw, Loaded: true})
	got, ok := s.LoadSwitch()
	if !ok {
		t.Fatal("LoadSwitch() found nothing after Persist")
	}
	if diff := cmp.Diff(sw, got); diff != "" {
		t.Errorf("switch mismatch (-want +got):\n%s", diff)
	}

	s.Persist(domain.StateSnapshot{Switch: nil, Loaded: true})
	got, ok = s.LoadSwitch()
	if !ok || got != nil {
		t.Errorf("LoadSwitch() = %v, %v; want confirmed empty switch", got, ok)
	}
}
