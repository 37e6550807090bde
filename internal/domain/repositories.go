package domain

import (
	"context"

	"github.com/modkeeper/modkeeper/internal/result"
)

// Backend is the native command surface. Every method returns the backend's
// Result envelope; the error return is reserved for transport failures
// (unreachable backend, malformed envelope) that never reached a command.
type Backend interface {
	// Init loads persisted libraries and returns the current switch (nil when none exist)
	Init(ctx context.Context) (result.Result[*LibrarySwitch, SError], error)

	// GetLibrary returns the active library as the backend sees it now
	GetLibrary(ctx context.Context) (result.Result[LibraryDTO, SError], error)

	// OpenLibrary makes the library stored at repoRoot the active one
	OpenLibrary(ctx context.Context, repoRoot string) (result.Result[*LibrarySwitch, SError], error)

	// CreateLibrary registers a new library and activates it
	CreateLibrary(ctx context.Context, req LibraryCreationRequirement) (result.Result[*LibrarySwitch, SError], error)

	// RenameLibrary renames the active library
	RenameLibrary(ctx context.Context, name string) (result.Result[*LibrarySwitch, SError], error)

	// CloseLibrary forgets the library at repoRoot without touching its files
	CloseLibrary(ctx context.Context, repoRoot string) (result.Result[*LibrarySwitch, SError], error)

	// RemoveLibrary deletes the library at repoRoot
	RemoveLibrary(ctx context.Context, repoRoot string) (result.Result[*LibrarySwitch, SError], error)

	// AddMods installs archives or folders into the active library
	AddMods(ctx context.Context, paths []string, unknownModName string, onProgress ProgressFunc) (result.Result[LibraryDTO, SError], error)

	// RemoveMods deletes mods from the active library
	RemoveMods(ctx context.Context, ids []string, onProgress ProgressFunc) (result.Result[LibraryDTO, SError], error)

	// ToggleMod enables or disables one mod; files change on the next sync
	ToggleMod(ctx context.Context, id string, isActive bool) (result.Result[LibraryDTO, SError], error)

	// SyncMods applies pending activation changes to the game installation
	SyncMods(ctx context.Context, onProgress ProgressFunc) (result.Result[LibraryDTO, SError], error)

	// GetBackups lists backups of one mod, newest first
	GetBackups(ctx context.Context, modID string) (result.Result[[]ModBackup, SError], error)

	// RestoreBackup replaces a mod's files with a backup
	RestoreBackup(ctx context.Context, modID, timestamp string) (result.Result[struct{}, SError], error)

	// GetModDocumentation returns the mod's bundled documentation
	GetModDocumentation(ctx context.Context, modID string) (result.Result[string, SError], error)

	// CreateSimulationGameRoot creates a fake game installation for testing
	CreateSimulationGameRoot(ctx context.Context, basePath string) (result.Result[SimulationGameRoot, SError], error)
}
