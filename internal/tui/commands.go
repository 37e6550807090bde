package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/modkeeper/modkeeper/internal/docs"
	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/tui/components"
)

// Command factories for async operations. Results reach the view through the
// store subscription; these messages only carry status and errors.

const (
	quickTimeout = 30 * time.Second
	taskTimeout  = 15 * time.Minute // syncs and archive imports
)

// InitCmd loads the library switch
func InitCmd(svc domain.LibraryCommands) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), quickTimeout)
		defer cancel()

		if _, err := svc.Init(ctx); err != nil {
			return ErrMsg{Err: err, Context: "connecting to backend"}
		}
		return ActionDoneMsg{}
	}
}

// RefreshCmd reloads the active library
func RefreshCmd(svc domain.LibraryCommands) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), quickTimeout)
		defer cancel()

		if _, err := svc.RefreshActive(ctx); err != nil {
			return ErrMsg{Err: err}
		}
		return ActionDoneMsg{Status: "Library refreshed"}
	}
}

// ToggleModCmd sends one optimistic flip. It is never awaited by the view.
func ToggleModCmd(svc domain.LibraryCommands, req components.ToggleRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), quickTimeout)
		defer cancel()

		lib, err := svc.ToggleMod(ctx, req.ModID, req.Active)
		msg := ToggleResultMsg{ModID: req.ModID, Seq: req.Seq, Err: err}
		if mod, ok := lib.Mods[req.ModID]; ok && err == nil {
			msg.IsActive = &mod.IsActive
		}
		return msg
	}
}

// SyncModsCmd reconciles the game folder with the active library
func SyncModsCmd(svc domain.LibraryCommands, onProgress domain.ProgressFunc) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()

		if _, err := svc.SyncMods(ctx, onProgress); err != nil {
			return ErrMsg{Err: err}
		}
		return ActionDoneMsg{Status: "Mods synced"}
	}
}

// AddModsCmd imports mod archives or folders
func AddModsCmd(svc domain.LibraryCommands, paths []string, unknownModName string, onProgress domain.ProgressFunc) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()

		lib, err := svc.AddMods(ctx, paths, unknownModName, onProgress)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ActionDoneMsg{Status: fmt.Sprintf("%s now has %d mods", lib.Name, len(lib.Mods))}
	}
}

// RemoveModsCmd deletes mods from the active library
func RemoveModsCmd(svc domain.LibraryCommands, ids []string, onProgress domain.ProgressFunc) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()

		if _, err := svc.RemoveMods(ctx, ids, onProgress); err != nil {
			return ErrMsg{Err: err}
		}
		return ActionDoneMsg{Status: fmt.Sprintf("Removed %d mod(s)", len(ids))}
	}
}

// OpenLibraryCmd opens (or switches to) the library at repoRoot
func OpenLibraryCmd(svc domain.LibraryCommands, repoRoot string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), quickTimeout)
		defer cancel()

		sw, err := svc.OpenLibrary(ctx, repoRoot)
		if err != nil {
			return ErrMsg{Err: err}
		}
		if sw != nil && sw.Active != nil {
			return ActionDoneMsg{Status: "Opened " + sw.Active.Name}
		}
		return ActionDoneMsg{}
	}
}

// CloseLibraryCmd forgets a library without touching its files
func CloseLibraryCmd(svc domain.LibraryCommands, repoRoot string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), quickTimeout)
		defer cancel()

		if _, err := svc.CloseLibrary(ctx, repoRoot); err != nil {
			return ErrMsg{Err: err}
		}
		return ActionDoneMsg{Status: "Library closed"}
	}
}

// RemoveLibraryCmd deletes a library's repository
func RemoveLibraryCmd(svc domain.LibraryCommands, repoRoot string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), quickTimeout)
		defer cancel()

		if _, err := svc.RemoveLibrary(ctx, repoRoot); err != nil {
			return ErrMsg{Err: err}
		}
		return ActionDoneMsg{Status: "Library removed"}
	}
}

// RenameLibraryCmd renames the active library
func RenameLibraryCmd(svc domain.LibraryCommands, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), quickTimeout)
		defer cancel()

		if _, err := svc.RenameLibrary(ctx, name); err != nil {
			return ErrMsg{Err: err}
		}
		return ActionDoneMsg{Status: "Renamed to " + name}
	}
}

// LoadDocsCmd fetches and renders a mod's documentation
func LoadDocsCmd(svc domain.LibraryCommands, mod domain.Mod) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), quickTimeout)
		defer cancel()

		doc, err := svc.GetModDocumentation(ctx, mod.ID)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return DocsLoadedMsg{ModID: mod.ID, Title: mod.DisplayName(), Text: docs.Render(doc)}
	}
}

// OpenCmd hands a URL or folder to the desktop
func OpenCmd(opener Opener, target string) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Open(target); err != nil {
			return ErrMsg{Err: err, Context: "opening " + target}
		}
		return ActionDoneMsg{Status: "Opened " + target}
	}
}

// WaitForStateCmd blocks until the store publishes a snapshot
func WaitForStateCmd(obs *ChannelObserver) tea.Cmd {
	return func() tea.Msg {
		return StateChangedMsg{Snapshot: <-obs.States()}
	}
}

// WaitForProgressCmd blocks until a task reports progress
func WaitForProgressCmd(obs *ChannelObserver) tea.Cmd {
	return func() tea.Msg {
		return ProgressMsg{Status: <-obs.Progress()}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// ClearProgressCmd hides a finished task's progress line after a delay
func ClearProgressCmd(taskID string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearProgressMsg{TaskID: taskID}
	})
}
