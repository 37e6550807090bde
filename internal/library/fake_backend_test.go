package library

import (
	"context"
	"sync"

	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/result"
)

// fakeBackend answers every command with a configured envelope. Commands
// listed in gates block until their channel is closed.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string
	gates map[string]chan struct{}

	transportErr error

	sw      result.Result[*domain.LibrarySwitch, domain.SError]
	lib     result.Result[domain.LibraryDTO, domain.SError]
	backups result.Result[[]domain.ModBackup, domain.SError]
	restore result.Result[struct{}, domain.SError]
	doc     result.Result[string, domain.SError]
	sim     result.Result[domain.SimulationGameRoot, domain.SError]

	toggles []bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{gates: make(map[string]chan struct{})}
}

func (f *fakeBackend) gate(op string) chan struct{} {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[op] = ch
	f.mu.Unlock()
	return ch
}

func (f *fakeBackend) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeBackend) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	ch := f.gates[op]
	err := f.transportErr
	f.mu.Unlock()

	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeBackend) switchResult(ctx context.Context, op string) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
	if err := f.enter(ctx, op); err != nil {
		return result.Result[*domain.LibrarySwitch, domain.SError]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sw, nil
}

func (f *fakeBackend) libResult(ctx context.Context, op string) (result.Result[domain.LibraryDTO, domain.SError], error) {
	if err := f.enter(ctx, op); err != nil {
		return result.Result[domain.LibraryDTO, domain.SError]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lib, nil
}

func (f *fakeBackend) Init(ctx context.Context) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
	return f.switchResult(ctx, OpInit)
}

func (f *fakeBackend) GetLibrary(ctx context.Context) (result.Result[domain.LibraryDTO, domain.SError], error) {
	return f.libResult(ctx, OpGetLibrary)
}

func (f *fakeBackend) OpenLibrary(ctx context.Context, _ string) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
	return f.switchResult(ctx, OpOpenLibrary)
}

func (f *fakeBackend) CreateLibrary(ctx context.Context, _ domain.LibraryCreationRequirement) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
	return f.switchResult(ctx, OpCreateLibrary)
}

func (f *fakeBackend) RenameLibrary(ctx context.Context, _ string) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
	return f.switchResult(ctx, OpRenameLibrary)
}

func (f *fakeBackend) CloseLibrary(ctx context.Context, _ string) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
	return f.switchResult(ctx, OpCloseLibrary)
}

func (f *fakeBackend) RemoveLibrary(ctx context.Context, _ string) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
	return f.switchResult(ctx, OpRemoveLibrary)
}

func (f *fakeBackend) AddMods(ctx context.Context, _ []string, _ string, _ domain.ProgressFunc) (result.Result[domain.LibraryDTO, domain.SError], error) {
	return f.libResult(ctx, OpAddMods)
}

func (f *fakeBackend) RemoveMods(ctx context.Context, _ []string, _ domain.ProgressFunc) (result.Result[domain.LibraryDTO, domain.SError], error) {
	return f.libResult(ctx, OpRemoveMods)
}

func (f *fakeBackend) ToggleMod(ctx context.Context, _ string, isActive bool) (result.Result[domain.LibraryDTO, domain.SError], error) {
	f.mu.Lock()
	f.toggles = append(f.toggles, isActive)
	f.mu.Unlock()
	return f.libResult(ctx, OpToggleMod)
}

func (f *fakeBackend) SyncMods(ctx context.Context, _ domain.ProgressFunc) (result.Result[domain.LibraryDTO, domain.SError], error) {
	return f.libResult(ctx, OpSyncMods)
}

func (f *fakeBackend) GetBackups(ctx context.Context, _ string) (result.Result[[]domain.ModBackup, domain.SError], error) {
	if err := f.enter(ctx, OpGetBackups); err != nil {
		return result.Result[[]domain.ModBackup, domain.SError]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.backups, nil
}

func (f *fakeBackend) RestoreBackup(ctx context.Context, _, _ string) (result.Result[struct{}, domain.SError], error) {
	if err := f.enter(ctx, OpRestoreBackup); err != nil {
		return result.Result[struct{}, domain.SError]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.restore, nil
}

func (f *fakeBackend) GetModDocumentation(ctx context.Context, _ string) (result.Result[string, domain.SError], error) {
	if err := f.enter(ctx, OpGetModDocumentation); err != nil {
		return result.Result[string, domain.SError]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc, nil
}

func (f *fakeBackend) CreateSimulationGameRoot(ctx context.Context, _ string) (result.Result[domain.SimulationGameRoot, domain.SError], error) {
	if err := f.enter(ctx, OpCreateSimulationGameRoot); err != nil {
		return result.Result[domain.SimulationGameRoot, domain.SError]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sim, nil
}

var _ domain.Backend = (*fakeBackend)(nil)
