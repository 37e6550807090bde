package backend

import (
	"context"

	"github.com/google/uuid"

	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/result"
)

// Command names on the wire.
const (
	cmdInit                     = "init"
	cmdGetLibrary               = "get_library"
	cmdOpenLibrary              = "open_library"
	cmdCreateLibrary            = "create_library"
	cmdRenameLibrary            = "rename_library"
	cmdCloseLibrary             = "close_library"
	cmdRemoveLibrary            = "remove_library"
	cmdAddMods                  = "add_mods"
	cmdRemoveMods               = "remove_mods"
	cmdToggleMod                = "toggle_mod"
	cmdSyncMods                 = "sync_mods"
	cmdGetBackups               = "get_backups"
	cmdRestoreBackup            = "restore_backup"
	cmdGetModDocumentation      = "get_mod_documentation"
	cmdCreateSimulationGameRoot = "create_simulation_game_root"
)

func (c *Client) Init(ctx context.Context) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
	return invoke[*domain.LibrarySwitch](ctx, c, request{command: cmdInit, retry: true})
}

func (c *Client) GetLibrary(ctx context.Context) (result.Result[domain.LibraryDTO, domain.SError], error) {
	return invoke[domain.LibraryDTO](ctx, c, request{command: cmdGetLibrary, retry: true})
}

func (c *Client) OpenLibrary(ctx context.Context, repoRoot string) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
	return invoke[*domain.LibrarySwitch](ctx, c, request{
		command: cmdOpenLibrary,
		args:    map[string]any{"path": repoRoot},
	})
}

func (c *Client) CreateLibrary(ctx context.Context, req domain.LibraryCreationRequirement) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
	return invoke[*domain.LibrarySwitch](ctx, c, request{
		command: cmdCreateLibrary,
		args:    map[string]any{"requirement": req},
	})
}

func (c *Client) RenameLibrary(ctx context.Context, name string) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
	return invoke[*domain.LibrarySwitch](ctx, c, request{
		command: cmdRenameLibrary,
		args:    map[string]any{"name": name},
	})
}

func (c *Client) CloseLibrary(ctx context.Context, repoRoot string) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
	return invoke[*domain.LibrarySwitch](ctx, c, request{
		command: cmdCloseLibrary,
		args:    map[string]any{"repoRoot": repoRoot},
	})
}

func (c *Client) RemoveLibrary(ctx context.Context, repoRoot string) (result.Result[*domain.LibrarySwitch, domain.SError], error) {
	return invoke[*domain.LibrarySwitch](ctx, c, request{
		command: cmdRemoveLibrary,
		args:    map[string]any{"repoRoot": repoRoot},
	})
}

func (c *Client) AddMods(ctx context.Context, paths []string, unknownModName string, onProgress domain.ProgressFunc) (result.Result[domain.LibraryDTO, domain.SError], error) {
	r := request{
		command: cmdAddMods,
		args:    map[string]any{"paths": paths, "unknownModName": unknownModName},
	}
	stop := c.attachProgress(ctx, &r, onProgress)
	defer stop()
	return invoke[domain.LibraryDTO](ctx, c, r)
}

func (c *Client) RemoveMods(ctx context.Context, ids []string, onProgress domain.ProgressFunc) (result.Result[domain.LibraryDTO, domain.SError], error) {
	r := request{
		command: cmdRemoveMods,
		args:    map[string]any{"ids": ids},
	}
	stop := c.attachProgress(ctx, &r, onProgress)
	defer stop()
	return invoke[domain.LibraryDTO](ctx, c, r)
}

func (c *Client) ToggleMod(ctx context.Context, id string, isActive bool) (result.Result[domain.LibraryDTO, domain.SError], error) {
	return invoke[domain.LibraryDTO](ctx, c, request{
		command: cmdToggleMod,
		args:    map[string]any{"id": id, "isActive": isActive},
	})
}

func (c *Client) SyncMods(ctx context.Context, onProgress domain.ProgressFunc) (result.Result[domain.LibraryDTO, domain.SError], error) {
	r := request{command: cmdSyncMods}
	stop := c.attachProgress(ctx, &r, onProgress)
	defer stop()
	return invoke[domain.LibraryDTO](ctx, c, r)
}

func (c *Client) GetBackups(ctx context.Context, modID string) (result.Result[[]domain.ModBackup, domain.SError], error) {
	return invoke[[]domain.ModBackup](ctx, c, request{
		command: cmdGetBackups,
		args:    map[string]any{"modId": modID},
		retry:   true,
	})
}

func (c *Client) RestoreBackup(ctx context.Context, modID, timestamp string) (result.Result[struct{}, domain.SError], error) {
	return invoke[struct{}](ctx, c, request{
		command: cmdRestoreBackup,
		args:    map[string]any{"modId": modID, "timestamp": timestamp},
	})
}

func (c *Client) GetModDocumentation(ctx context.Context, modID string) (result.Result[string, domain.SError], error) {
	return invoke[string](ctx, c, request{
		command: cmdGetModDocumentation,
		args:    map[string]any{"modId": modID},
		retry:   true,
	})
}

// CreateSimulationGameRoot sends a null base path when basePath is empty so
// the backend picks a temporary directory.
func (c *Client) CreateSimulationGameRoot(ctx context.Context, basePath string) (result.Result[domain.SimulationGameRoot, domain.SError], error) {
	var base *string
	if basePath != "" {
		base = &basePath
	}
	return invoke[domain.SimulationGameRoot](ctx, c, request{
		command: cmdCreateSimulationGameRoot,
		args:    map[string]any{"basePath": base},
	})
}

// attachProgress subscribes to the task's event stream before the command
// is sent. The returned stop func waits for the listener to exit so no
// progress is reported after the command returns.
func (c *Client) attachProgress(ctx context.Context, r *request, onProgress domain.ProgressFunc) (stop func()) {
	if onProgress == nil {
		return func() {}
	}
	r.taskID = uuid.NewString()
	return c.watchProgress(ctx, r.taskID, onProgress)
}

var _ domain.Backend = (*Client)(nil)
