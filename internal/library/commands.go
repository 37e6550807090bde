package library

import (
	"context"

	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/result"
)

// Action names, as recorded in state and history.
const (
	OpInit                     = "init"
	OpGetLibrary               = "get_library"
	OpOpenLibrary              = "open_library"
	OpCreateLibrary            = "create_library"
	OpRenameLibrary            = "rename_library"
	OpCloseLibrary             = "close_library"
	OpRemoveLibrary            = "remove_library"
	OpAddMods                  = "add_mods"
	OpRemoveMods               = "remove_mods"
	OpToggleMod                = "toggle_mod"
	OpSyncMods                 = "sync_mods"
	OpGetBackups               = "get_backups"
	OpRestoreBackup            = "restore_backup"
	OpGetModDocumentation      = "get_mod_documentation"
	OpCreateSimulationGameRoot = "create_simulation_game_root"
)

// --- Membership: the returned switch replaces the current one ---

func (s *Service) Init(ctx context.Context) (*domain.LibrarySwitch, error) {
	return invoke(ctx, s, OpInit, true, s.backend.Init, s.mergeSwitch)
}

func (s *Service) OpenLibrary(ctx context.Context, repoRoot string) (*domain.LibrarySwitch, error) {
	return invoke(ctx, s, OpOpenLibrary, true,
		func(ctx context.Context) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
			return s.backend.OpenLibrary(ctx, repoRoot)
		},
		s.mergeSwitch)
}

func (s *Service) CreateLibrary(ctx context.Context, req domain.LibraryCreationRequirement) (*domain.LibrarySwitch, error) {
	return invoke(ctx, s, OpCreateLibrary, true,
		func(ctx context.Context) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
			return s.backend.CreateLibrary(ctx, req)
		},
		s.mergeSwitch)
}

func (s *Service) RenameLibrary(ctx context.Context, name string) (*domain.LibrarySwitch, error) {
	return invoke(ctx, s, OpRenameLibrary, true,
		func(ctx context.Context) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
			return s.backend.RenameLibrary(ctx, name)
		},
		s.mergeSwitch)
}

func (s *Service) CloseLibrary(ctx context.Context, repoRoot string) (*domain.LibrarySwitch, error) {
	return invoke(ctx, s, OpCloseLibrary, true,
		func(ctx context.Context) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
			return s.backend.CloseLibrary(ctx, repoRoot)
		},
		s.mergeSwitch)
}

func (s *Service) RemoveLibrary(ctx context.Context, repoRoot string) (*domain.LibrarySwitch, error) {
	return invoke(ctx, s, OpRemoveLibrary, true,
		func(ctx context.Context) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
			return s.backend.RemoveLibrary(ctx, repoRoot)
		},
		s.mergeSwitch)
}

// --- Mod set: the returned library replaces the active one ---

// RefreshActive re-reads the active library from the backend.
func (s *Service) RefreshActive(ctx context.Context) (domain.LibraryDTO, error) {
	return invoke(ctx, s, OpGetLibrary, true, s.backend.GetLibrary, s.mergeActive)
}

func (s *Service) AddMods(ctx context.Context, paths []string, unknownModName string, onProgress domain.ProgressFunc) (domain.LibraryDTO, error) {
	return invoke(ctx, s, OpAddMods, true,
		func(ctx context.Context) (result.Result[domain.LibraryDTO, domain.SError], error) {
			return s.backend.AddMods(ctx, paths, unknownModName, onProgress)
		},
		s.mergeActive)
}

func (s *Service) RemoveMods(ctx context.Context, ids []string, onProgress domain.ProgressFunc) (domain.LibraryDTO, error) {
	return invoke(ctx, s, OpRemoveMods, true,
		func(ctx context.Context) (result.Result[domain.LibraryDTO, domain.SError], error) {
			return s.backend.RemoveMods(ctx, ids, onProgress)
		},
		s.mergeActive)
}

func (s *Service) ToggleMod(ctx context.Context, id string, isActive bool) (domain.LibraryDTO, error) {
	return invoke(ctx, s, OpToggleMod, true,
		func(ctx context.Context) (result.Result[domain.LibraryDTO, domain.SError], error) {
			return s.backend.ToggleMod(ctx, id, isActive)
		},
		s.mergeActive)
}

func (s *Service) SyncMods(ctx context.Context, onProgress domain.ProgressFunc) (domain.LibraryDTO, error) {
	return invoke(ctx, s, OpSyncMods, true,
		func(ctx context.Context) (result.Result[domain.LibraryDTO, domain.SError], error) {
			return s.backend.SyncMods(ctx, onProgress)
		},
		s.mergeActive)
}

// --- Side commands: no merge ---

func (s *Service) GetBackups(ctx context.Context, modID string) ([]domain.ModBackup, error) {
	return invoke(ctx, s, OpGetBackups, false,
		func(ctx context.Context) (result.Result[[]domain.ModBackup, domain.SError], error) {
			return s.backend.GetBackups(ctx, modID)
		},
		nil)
}

// RestoreBackup replaces a mod's files, then refreshes the active library so
// state reflects the restored manifest. A failed refresh is published through
// State like any other action failure but does not fail the restore.
func (s *Service) RestoreBackup(ctx context.Context, modID, timestamp string) error {
	_, err := invoke(ctx, s, OpRestoreBackup, true,
		func(ctx context.Context) (result.Result[struct{}, domain.SError], error) {
			return s.backend.RestoreBackup(ctx, modID, timestamp)
		},
		nil)
	if err != nil {
		return err
	}

	if s.state.Active() == nil {
		return nil
	}
	if _, err := s.RefreshActive(ctx); err != nil {
		s.logger.Warn("failed to refresh library after restore", "mod", modID, "error", err)
	}
	return nil
}

func (s *Service) GetModDocumentation(ctx context.Context, modID string) (string, error) {
	return invoke(ctx, s, OpGetModDocumentation, false,
		func(ctx context.Context) (result.Result[string, domain.SError], error) {
			return s.backend.GetModDocumentation(ctx, modID)
		},
		nil)
}

func (s *Service) CreateSimulationGameRoot(ctx context.Context, basePath string) (domain.SimulationGameRoot, error) {
	return invoke(ctx, s, OpCreateSimulationGameRoot, false,
		func(ctx context.Context) (result.Result[domain.SimulationGameRoot, domain.SError], error) {
			return s.backend.CreateSimulationGameRoot(ctx, basePath)
		},
		nil)
}

var (
	_ domain.LibraryCommands = (*Service)(nil)
	_ domain.LibraryQueries  = (*State)(nil)
)
