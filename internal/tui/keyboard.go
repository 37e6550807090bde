package tui

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil

	case StateDocs:
		if key.Matches(msg, Keys.Escape, Keys.Quit) {
			m.State = StateBrowsing
			return m, nil
		}
		var cmd tea.Cmd
		m.Docs, cmd = m.Docs.Update(msg)
		return m, cmd

	case StateConfirmRemove:
		switch {
		case key.Matches(msg, Keys.Confirm):
			mod := m.pendingRemove
			m.State = StateBrowsing
			m.pendingRemove = domain.Mod{}
			return m, RemoveModsCmd(m.Commands, []string{mod.ID}, m.progressFunc())
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// The filter swallows keys while typing
	if m.ModList.IsFilterTyping() {
		return m, m.ModList.Update(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.ModList.IsFiltering() {
			m.ModList.ClearFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		m.ModList.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Toggle):
		return m.handleToggle()

	case key.Matches(msg, Keys.Sync):
		if m.Snapshot.Active() == nil {
			return m, nil
		}
		m.StatusMsg, m.StatusIsErr = "Syncing mods...", false
		return m, SyncModsCmd(m.Commands, m.progressFunc())

	case key.Matches(msg, Keys.Refresh):
		if m.Snapshot.Active() == nil {
			return m, InitCmd(m.Commands)
		}
		return m, RefreshCmd(m.Commands)

	case key.Matches(msg, Keys.AddMods):
		if m.Snapshot.Active() == nil {
			return m, nil
		}
		m.InputModal.Show(components.InputAddMods, "Add mods", "archive or folder paths, separated by "+string(filepath.ListSeparator), "")
		return m, nil

	case key.Matches(msg, Keys.RemoveMod):
		if mod, ok := m.ModList.SelectedMod(); ok {
			m.pendingRemove = mod
			m.State = StateConfirmRemove
		}
		return m, nil

	case key.Matches(msg, Keys.Docs):
		if mod, ok := m.ModList.SelectedMod(); ok {
			return m, LoadDocsCmd(m.Commands, mod)
		}
		return m, nil

	case key.Matches(msg, Keys.OpenLink):
		if mod, ok := m.ModList.SelectedMod(); ok && mod.Manifest != nil && len(mod.Manifest.Links) > 0 {
			return m, OpenCmd(m.Opener, mod.Manifest.Links[0].URL)
		}
		m.StatusMsg, m.StatusIsErr = "No link for this mod", false
		return m, ClearStatusCmd(2 * time.Second)

	case key.Matches(msg, Keys.Inspect):
		m.ShowInspector = !m.ShowInspector
		m.updateLayout()
		return m, nil

	case key.Matches(msg, Keys.InfoDown):
		m.Inspector.ScrollDown()
		return m, nil

	case key.Matches(msg, Keys.InfoUp):
		m.Inspector.ScrollUp()
		return m, nil

	case key.Matches(msg, Keys.Libraries):
		m.Picker.Show(m.Snapshot.Libraries(), m.Snapshot.Active())
		return m, nil

	case key.Matches(msg, Keys.OpenLibrary):
		m.InputModal.Show(components.InputOpenLibrary, "Open library", "repository path", "")
		return m, nil

	case key.Matches(msg, Keys.Rename):
		if active := m.Snapshot.Active(); active != nil {
			m.InputModal.Show(components.InputRenameLibrary, "Rename library", "name", active.Name)
		}
		return m, nil

	case key.Matches(msg, Keys.OpenFolder):
		if active := m.Snapshot.Active(); active != nil {
			return m, OpenCmd(m.Opener, active.GameRoot)
		}
		return m, nil
	}

	// Everything else is list navigation
	return m, m.ModList.Update(msg)
}

// handleToggle flips the selected mod without waiting for the backend
func (m Model) handleToggle() (tea.Model, tea.Cmd) {
	mod, ok := m.ModList.SelectedMod()
	if !ok {
		return m, nil
	}
	t := m.Toggles.Get(mod.ID)
	if t == nil {
		return m, nil
	}
	return m, ToggleModCmd(m.Commands, t.Flip())
}

// routeToModal sends keys to the visible modal, if any
func (m Model) routeToModal(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if m.Picker.IsVisible() {
		_, sel := m.Picker.HandleKey(msg.String())
		if sel == nil {
			return true, m, nil
		}
		switch sel.Action {
		case components.PickerOpen:
			return true, m, OpenLibraryCmd(m.Commands, sel.Library.RepoRoot)
		case components.PickerClose:
			return true, m, CloseLibraryCmd(m.Commands, sel.Library.RepoRoot)
		case components.PickerRemove:
			return true, m, RemoveLibraryCmd(m.Commands, sel.Library.RepoRoot)
		}
		return true, m, nil
	}

	if m.InputModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.InputModal, cmd, submitted = m.InputModal.Update(msg)
		if !submitted {
			return true, m, cmd
		}

		value := strings.TrimSpace(m.InputModal.Value())
		purpose := m.InputModal.Purpose()
		m.InputModal.Hide()
		if value == "" {
			return true, m, nil
		}

		switch purpose {
		case components.InputRenameLibrary:
			return true, m, RenameLibraryCmd(m.Commands, value)
		case components.InputOpenLibrary:
			return true, m, OpenLibraryCmd(m.Commands, value)
		case components.InputAddMods:
			return true, m, AddModsCmd(m.Commands, splitPaths(value), m.UnknownModName, m.progressFunc())
		}
		return true, m, nil
	}

	return false, m, nil
}

// splitPaths splits a path list on the OS list separator
func splitPaths(value string) []string {
	var out []string
	for _, p := range filepath.SplitList(value) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
