package domain

import "context"

// StateSnapshot is a consistent copy of every state cell at one instant.
type StateSnapshot struct {
	Switch   *LibrarySwitch
	Loaded   bool // a backend answer has been merged at least once
	Loading  bool
	InFlight []string // operations currently awaiting the backend
	Err      error    // last action failure, cleared when the next action starts
}

// Active is the derived active library, nil when no switch is loaded.
func (s StateSnapshot) Active() *LibraryDTO {
	if s.Switch == nil {
		return nil
	}
	return s.Switch.Active
}

// Libraries is the derived library list, never nil.
func (s StateSnapshot) Libraries() []LibraryDTO {
	if s.Switch == nil || s.Switch.Libraries == nil {
		return []LibraryDTO{}
	}
	return s.Switch.Libraries
}

// LibraryQueries: Synchronous state reads.
// All methods return instantly. NEVER block on network.
// Safe to call from View() and navigation code.
type LibraryQueries interface {
	Snapshot() StateSnapshot
	Subscribe(fn func(StateSnapshot)) (cancel func())
}

// LibraryCommands: one action per backend command.
// Must be called from tea.Cmd functions, never from View().
type LibraryCommands interface {
	Init(ctx context.Context) (*LibrarySwitch, error)
	RefreshActive(ctx context.Context) (LibraryDTO, error)

	// Membership changes replace the whole switch
	OpenLibrary(ctx context.Context, repoRoot string) (*LibrarySwitch, error)
	CreateLibrary(ctx context.Context, req LibraryCreationRequirement) (*LibrarySwitch, error)
	RenameLibrary(ctx context.Context, name string) (*LibrarySwitch, error)
	CloseLibrary(ctx context.Context, repoRoot string) (*LibrarySwitch, error)
	RemoveLibrary(ctx context.Context, repoRoot string) (*LibrarySwitch, error)

	// Mod changes replace the active library
	AddMods(ctx context.Context, paths []string, unknownModName string, onProgress ProgressFunc) (LibraryDTO, error)
	RemoveMods(ctx context.Context, ids []string, onProgress ProgressFunc) (LibraryDTO, error)
	ToggleMod(ctx context.Context, id string, isActive bool) (LibraryDTO, error)
	SyncMods(ctx context.Context, onProgress ProgressFunc) (LibraryDTO, error)

	// Reads and side commands leave the switch alone
	GetBackups(ctx context.Context, modID string) ([]ModBackup, error)
	RestoreBackup(ctx context.Context, modID, timestamp string) error
	GetModDocumentation(ctx context.Context, modID string) (string, error)
	CreateSimulationGameRoot(ctx context.Context, basePath string) (SimulationGameRoot, error)
}
