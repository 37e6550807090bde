package library

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/i18n"
	"github.com/modkeeper/modkeeper/internal/result"
)

var tr = i18n.New("en")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func lib(id string, mods ...domain.Mod) domain.LibraryDTO {
	l := domain.LibraryDTO{
		ID:         id,
		Name:       "Library " + id,
		GameRoot:   "/games/" + id,
		RepoRoot:   "/games/" + id + "/.mod_keeper",
		SPTVersion: "3.9.8",
		Mods:       map[string]domain.Mod{},
	}
	for _, m := range mods {
		l.Mods[m.ID] = m
	}
	return l
}

func mod(id string, active bool) domain.Mod {
	return domain.Mod{ID: id, Name: id, IsActive: active, ModType: domain.ModTypeServer}
}

func okSwitch(sw *domain.LibrarySwitch) result.Result[*domain.LibrarySwitch, domain.SError] {
	return result.Ok[*domain.LibrarySwitch, domain.SError](sw)
}

func okLib(l domain.LibraryDTO) result.Result[domain.LibraryDTO, domain.SError] {
	return result.Ok[domain.LibraryDTO, domain.SError](l)
}

// seeded returns a service whose state holds lib-1 (active) and lib-2.
func seeded(t *testing.T) (*Service, *fakeBackend) {
	t.Helper()
	fb := newFakeBackend()
	l1 := lib("lib-1", mod("mod-1", false), mod("mod-2", true))
	l2 := lib("lib-2", mod("other", true))
	fb.sw = okSwitch(&domain.LibrarySwitch{Active: &l1, Libraries: []domain.LibraryDTO{l1, l2}})

	svc := NewService(fb, tr, testLogger())
	if _, err := svc.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return svc, fb
}

func TestToggleModMergesActive(t *testing.T) {
	svc, fb := seeded(t)
	before := svc.State().Switch()

	updated := lib("lib-1", mod("mod-1", true), mod("mod-2", true))
	updated.IsDirty = true
	fb.lib = okLib(updated)

	got, err := svc.ToggleMod(context.Background(), "mod-1", true)
	if err != nil {
		t.Fatalf("ToggleMod() error = %v", err)
	}
	if diff := cmp.Diff(updated, got); diff != "" {
		t.Errorf("returned library mismatch (-want +got):\n%s", diff)
	}

	st := svc.State()
	if !st.Active().Mods["mod-1"].IsActive {
		t.Error("active mod-1 should be enabled")
	}
	if st.Err() != nil {
		t.Errorf("Err() = %v, want nil", st.Err())
	}
	if st.Loading() {
		t.Error("Loading() = true after completion")
	}

	libs := st.Libraries()
	if diff := cmp.Diff(updated, libs[0]); diff != "" {
		t.Errorf("matching entry not replaced (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before.Libraries[1], libs[1]); diff != "" {
		t.Errorf("unrelated entry changed (-want +got):\n%s", diff)
	}
}

func TestActiveMergeForEveryModCommand(t *testing.T) {
	ops := map[string]func(*Service) error{
		OpAddMods: func(s *Service) error {
			_, err := s.AddMods(context.Background(), []string{"/tmp/a.zip"}, "Unknown", nil)
			return err
		},
		OpRemoveMods: func(s *Service) error {
			_, err := s.RemoveMods(context.Background(), []string{"mod-2"}, nil)
			return err
		},
		OpToggleMod: func(s *Service) error {
			_, err := s.ToggleMod(context.Background(), "mod-1", true)
			return err
		},
		OpSyncMods: func(s *Service) error {
			_, err := s.SyncMods(context.Background(), nil)
			return err
		},
		OpGetLibrary: func(s *Service) error {
			_, err := s.RefreshActive(context.Background())
			return err
		},
	}

	for op, run := range ops {
		t.Run(op, func(t *testing.T) {
			svc, fb := seeded(t)
			before := svc.State().Switch()
			updated := lib("lib-1", mod("new", false))
			fb.lib = okLib(updated)

			if err := run(svc); err != nil {
				t.Fatalf("%s error = %v", op, err)
			}

			want := &domain.LibrarySwitch{
				Active:    &updated,
				Libraries: []domain.LibraryDTO{updated, before.Libraries[1]},
			}
			if diff := cmp.Diff(want, svc.State().Switch()); diff != "" {
				t.Errorf("switch mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFailureLeavesSwitchUntouched(t *testing.T) {
	gameRunning := domain.Bare(domain.KindGameOrServerRunning)
	ops := map[string]func(*Service) error{
		OpOpenLibrary: func(s *Service) error {
			_, err := s.OpenLibrary(context.Background(), "/games/spt")
			return err
		},
		OpCreateLibrary: func(s *Service) error {
			_, err := s.CreateLibrary(context.Background(), domain.LibraryCreationRequirement{Name: "x", GameRoot: "/g"})
			return err
		},
		OpRenameLibrary: func(s *Service) error {
			_, err := s.RenameLibrary(context.Background(), "renamed")
			return err
		},
		OpCloseLibrary: func(s *Service) error {
			_, err := s.CloseLibrary(context.Background(), "/games/lib-2/.mod_keeper")
			return err
		},
		OpRemoveLibrary: func(s *Service) error {
			_, err := s.RemoveLibrary(context.Background(), "/games/lib-2/.mod_keeper")
			return err
		},
		OpAddMods: func(s *Service) error {
			_, err := s.AddMods(context.Background(), []string{"/tmp/a.zip"}, "", nil)
			return err
		},
		OpRemoveMods: func(s *Service) error {
			_, err := s.RemoveMods(context.Background(), []string{"mod-1"}, nil)
			return err
		},
		OpToggleMod: func(s *Service) error {
			_, err := s.ToggleMod(context.Background(), "mod-1", true)
			return err
		},
		OpSyncMods: func(s *Service) error {
			_, err := s.SyncMods(context.Background(), nil)
			return err
		},
	}

	for op, run := range ops {
		t.Run(op, func(t *testing.T) {
			svc, fb := seeded(t)
			before := svc.State().Switch()
			fb.sw = result.Err[*domain.LibrarySwitch](gameRunning)
			fb.lib = result.Err[domain.LibraryDTO](gameRunning)

			err := run(svc)
			if err == nil {
				t.Fatalf("%s succeeded, want error", op)
			}

			want := tr.Translate(gameRunning)
			if err.Error() != want {
				t.Errorf("error = %q, want %q", err.Error(), want)
			}
			if got := svc.State().Err(); got == nil || got.Error() != want {
				t.Errorf("state Err() = %v, want %q", got, want)
			}
			if diff := cmp.Diff(before, svc.State().Switch()); diff != "" {
				t.Errorf("switch changed on failure (-before +after):\n%s", diff)
			}
			if svc.State().Loading() {
				t.Error("Loading() = true after failure")
			}
		})
	}
}

func TestOpenLibraryGameRunning(t *testing.T) {
	svc, fb := seeded(t)
	before := svc.State().Switch()
	fb.sw = result.Err[*domain.LibrarySwitch](domain.Bare(domain.KindGameOrServerRunning))

	_, err := svc.OpenLibrary(context.Background(), "/games/spt")

	var aerr *ActionError
	if !errors.As(err, &aerr) {
		t.Fatalf("error type = %T, want *ActionError", err)
	}
	if aerr.Op != OpOpenLibrary {
		t.Errorf("Op = %q", aerr.Op)
	}
	if aerr.Kind() != domain.KindGameOrServerRunning {
		t.Errorf("Kind() = %q", aerr.Kind())
	}
	if !errors.Is(err, domain.Bare(domain.KindGameOrServerRunning)) {
		t.Error("errors.Is should reach the backend error")
	}
	if diff := cmp.Diff(before, svc.State().Switch()); diff != "" {
		t.Errorf("switch changed (-before +after):\n%s", diff)
	}
}

func TestCreateLibraryFromEmptyState(t *testing.T) {
	fb := newFakeBackend()
	created := lib("test")
	created.Name = "Test"
	fb.sw = okSwitch(&domain.LibrarySwitch{Active: &created, Libraries: []domain.LibraryDTO{created}})

	svc := NewService(fb, tr, testLogger())
	if svc.State().Switch() != nil {
		t.Fatal("new state should have no switch")
	}

	_, err := svc.CreateLibrary(context.Background(), domain.LibraryCreationRequirement{
		Name:     "Test",
		GameRoot: "/g",
		RepoRoot: "/g/.mod_keeper",
	})
	if err != nil {
		t.Fatalf("CreateLibrary() error = %v", err)
	}

	if diff := cmp.Diff(&created, svc.State().Active()); diff != "" {
		t.Errorf("active mismatch (-want +got):\n%s", diff)
	}
	if n := len(svc.State().Libraries()); n != 1 {
		t.Errorf("len(Libraries()) = %d, want 1", n)
	}
}

func TestSetActiveSynthesizesSwitch(t *testing.T) {
	t.Run("no switch yet", func(t *testing.T) {
		fb := newFakeBackend()
		l := lib("solo", mod("a", true))
		fb.lib = okLib(l)
		svc := NewService(fb, tr, testLogger())

		if _, err := svc.RefreshActive(context.Background()); err != nil {
			t.Fatal(err)
		}
		want := &domain.LibrarySwitch{Active: &l, Libraries: []domain.LibraryDTO{l}}
		if diff := cmp.Diff(want, svc.State().Switch()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown id is appended", func(t *testing.T) {
		svc, fb := seeded(t)
		before := svc.State().Switch()
		l := lib("lib-3")
		fb.lib = okLib(l)

		if _, err := svc.RefreshActive(context.Background()); err != nil {
			t.Fatal(err)
		}
		want := append(before.Libraries, l)
		if diff := cmp.Diff(want, svc.State().Libraries()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestTransportErrorUsesFallback(t *testing.T) {
	svc, fb := seeded(t)
	boom := errors.New("connection refused")
	fb.transportErr = boom

	_, err := svc.SyncMods(context.Background(), nil)
	if !errors.Is(err, boom) {
		t.Errorf("error should wrap the transport failure, got %v", err)
	}
	if err.Error() != tr.Unexpected() {
		t.Errorf("message = %q, want fallback %q", err.Error(), tr.Unexpected())
	}
	var aerr *ActionError
	if errors.As(err, &aerr) && aerr.Kind() != "" {
		t.Errorf("Kind() = %q, want empty for local failures", aerr.Kind())
	}
}

func TestErrorClearedByNextAction(t *testing.T) {
	svc, fb := seeded(t)
	fb.lib = result.Err[domain.LibraryDTO](domain.Bare(domain.KindProcessRunning))
	if _, err := svc.SyncMods(context.Background(), nil); err == nil {
		t.Fatal("expected failure")
	}
	if svc.State().Err() == nil {
		t.Fatal("error should persist until the next action")
	}

	fb.doc = result.Ok[string, domain.SError]("readme")
	if _, err := svc.GetModDocumentation(context.Background(), "mod-1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.State().Err(); err != nil {
		t.Errorf("Err() = %v, want nil after a new action", err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLoadingTracksEveryCall(t *testing.T) {
	svc, fb := seeded(t)
	fb.backups = result.Ok[[]domain.ModBackup, domain.SError](nil)
	fb.doc = result.Ok[string, domain.SError]("")
	backups := fb.gate(OpGetBackups)
	docs := fb.gate(OpGetModDocumentation)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = svc.GetBackups(context.Background(), "mod-1")
	}()
	go func() {
		defer wg.Done()
		_, _ = svc.GetModDocumentation(context.Background(), "mod-1")
	}()

	waitFor(t, "two calls in flight", func() bool { return len(svc.State().Snapshot().InFlight) == 2 })

	close(backups)
	waitFor(t, "first call to finish", func() bool { return len(svc.State().Snapshot().InFlight) == 1 })
	if !svc.State().Loading() {
		t.Error("Loading() cleared while a call is still pending")
	}
	if got := svc.State().Snapshot().InFlight; got[0] != OpGetModDocumentation {
		t.Errorf("InFlight = %v", got)
	}

	close(docs)
	wg.Wait()
	if svc.State().Loading() {
		t.Error("Loading() = true after all calls finished")
	}
}

func TestMutationsAreSerialized(t *testing.T) {
	svc, fb := seeded(t)
	fb.lib = okLib(lib("lib-1", mod("mod-1", true)))
	gate := fb.gate(OpToggleMod)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.ToggleMod(context.Background(), "mod-1", true)
	}()
	waitFor(t, "first toggle to reach the backend", func() bool { return fb.callCount(OpToggleMod) == 1 })

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.ToggleMod(context.Background(), "mod-1", false)
	}()
	waitFor(t, "second toggle to queue", func() bool { return len(svc.State().Snapshot().InFlight) == 2 })

	if n := fb.callCount(OpToggleMod); n != 1 {
		t.Fatalf("backend saw %d toggles while the first was pending, want 1", n)
	}

	close(gate)
	wg.Wait()
	if diff := cmp.Diff([]bool{true, false}, fb.toggles); diff != "" {
		t.Errorf("toggle order mismatch (-want +got):\n%s", diff)
	}
}

func TestCancelWhileQueued(t *testing.T) {
	svc, fb := seeded(t)
	fb.lib = okLib(lib("lib-1"))
	gate := fb.gate(OpSyncMods)
	defer close(gate)

	go func() { _, _ = svc.SyncMods(context.Background(), nil) }()
	waitFor(t, "sync to hold the queue", func() bool { return fb.callCount(OpSyncMods) == 1 })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.ToggleMod(ctx, "mod-1", true)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if fb.callCount(OpToggleMod) != 0 {
		t.Error("cancelled call reached the backend")
	}
}

func TestRestoreBackupRefreshesActive(t *testing.T) {
	svc, fb := seeded(t)
	fb.restore = result.Ok[struct{}, domain.SError](struct{}{})
	restored := lib("lib-1", mod("mod-1", false))
	restored.Mods["mod-1"] = domain.Mod{ID: "mod-1", Name: "mod-1", Manifest: &domain.ModManifest{Version: "1.0.0"}}
	fb.lib = okLib(restored)

	if err := svc.RestoreBackup(context.Background(), "mod-1", "1700000000"); err != nil {
		t.Fatalf("RestoreBackup() error = %v", err)
	}
	if fb.callCount(OpGetLibrary) != 1 {
		t.Errorf("get_library calls = %d, want 1", fb.callCount(OpGetLibrary))
	}
	if v := svc.State().Active().Mods["mod-1"].Version(); v != "1.0.0" {
		t.Errorf("restored version = %q", v)
	}
}

func TestSideCommandsDoNotMerge(t *testing.T) {
	svc, fb := seeded(t)
	before := svc.State().Switch()
	fb.backups = result.Ok[[]domain.ModBackup, domain.SError]([]domain.ModBackup{
		{Timestamp: "1700000100", Path: "/b/2"},
		{Timestamp: "1700000000", Path: "/b/1"},
	})
	fb.sim = result.Ok[domain.SimulationGameRoot, domain.SError](domain.SimulationGameRoot{GameRoot: "/tmp/sim"})

	backups, err := svc.GetBackups(context.Background(), "mod-1")
	if err != nil || len(backups) != 2 {
		t.Fatalf("GetBackups() = %v, %v", backups, err)
	}
	sim, err := svc.CreateSimulationGameRoot(context.Background(), "")
	if err != nil || sim.GameRoot != "/tmp/sim" {
		t.Fatalf("CreateSimulationGameRoot() = %v, %v", sim, err)
	}
	if diff := cmp.Diff(before, svc.State().Switch()); diff != "" {
		t.Errorf("side commands changed state (-before +after):\n%s", diff)
	}
}

type memRecorder struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (r *memRecorder) Record(o Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
	return nil
}

func TestRecorderSeesEveryOutcome(t *testing.T) {
	fb := newFakeBackend()
	l := lib("lib-1")
	fb.sw = okSwitch(&domain.LibrarySwitch{Active: &l, Libraries: []domain.LibraryDTO{l}})
	fb.lib = result.Err[domain.LibraryDTO](domain.Structured(domain.KindIOError, "disk full"))

	rec := &memRecorder{}
	svc := NewService(fb, tr, testLogger(), WithRecorder(rec))
	_, _ = svc.Init(context.Background())
	_, _ = svc.SyncMods(context.Background(), nil)

	if len(rec.outcomes) != 2 {
		t.Fatalf("recorded %d outcomes, want 2", len(rec.outcomes))
	}
	if o := rec.outcomes[0]; o.Op != OpInit || o.Err != nil || o.LibraryID != "lib-1" {
		t.Errorf("first outcome = %+v", o)
	}
	var aerr *ActionError
	if o := rec.outcomes[1]; o.Op != OpSyncMods || !errors.As(o.Err, &aerr) || aerr.Kind() != domain.KindIOError {
		t.Errorf("second outcome = %+v", o)
	}
}

func TestSubscribe(t *testing.T) {
	fb := newFakeBackend()
	l := lib("lib-1")
	fb.sw = okSwitch(&domain.LibrarySwitch{Active: &l, Libraries: []domain.LibraryDTO{l}})
	svc := NewService(fb, tr, testLogger())

	var mu sync.Mutex
	var snaps []domain.StateSnapshot
	cancel := svc.State().Subscribe(func(s domain.StateSnapshot) {
		mu.Lock()
		snaps = append(snaps, s)
		mu.Unlock()
	})

	if _, err := svc.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	got := len(snaps)
	first, last := snaps[0], snaps[len(snaps)-1]
	mu.Unlock()

	// begin, merge, end
	if got != 3 {
		t.Errorf("received %d snapshots, want 3", got)
	}
	if !first.Loading || first.Switch != nil {
		t.Errorf("first snapshot = %+v, want loading without switch", first)
	}
	if last.Loading || last.Active() == nil || last.Active().ID != "lib-1" {
		t.Errorf("last snapshot = %+v", last)
	}

	cancel()
	_, _ = svc.Init(context.Background())
	mu.Lock()
	defer mu.Unlock()
	if len(snaps) != got {
		t.Error("cancelled subscriber still notified")
	}
}

func TestUnreadableManifestIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	broken := mod("broken", true)
	broken.ManifestError = "author must be a string or a list of strings"
	l1 := lib("lib-1", broken, mod("fine", false))

	fb := newFakeBackend()
	fb.sw = okSwitch(&domain.LibrarySwitch{Active: &l1, Libraries: []domain.LibraryDTO{l1}})
	fb.lib = okLib(l1)
	svc := NewService(fb, tr, logger)

	if _, err := svc.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if _, err := svc.RefreshActive(context.Background()); err != nil {
		t.Fatalf("RefreshActive() error = %v", err)
	}

	out := buf.String()
	if n := strings.Count(out, "ignoring unreadable manifest"); n != 2 {
		t.Errorf("got %d warnings, want one per merge:\n%s", n, out)
	}
	if !strings.Contains(out, "mod_id=broken") || strings.Contains(out, "mod_id=fine") {
		t.Errorf("warning names the wrong mods:\n%s", out)
	}
	if got := svc.State().Active().Mods["broken"]; !got.IsActive {
		t.Error("mod with an unreadable manifest was not kept in state")
	}
}
