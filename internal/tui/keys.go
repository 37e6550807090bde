package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding

	// Mods
	Toggle    key.Binding
	Filter    key.Binding
	Sync      key.Binding
	Refresh   key.Binding
	AddMods   key.Binding
	RemoveMod key.Binding
	Docs      key.Binding
	OpenLink  key.Binding

	// Detail pane
	Inspect  key.Binding
	InfoDown key.Binding
	InfoUp   key.Binding

	// Libraries
	Libraries   key.Binding
	OpenLibrary key.Binding
	Rename      key.Binding
	OpenFolder  key.Binding

	// Actions
	Quit   key.Binding
	Help   key.Binding
	Escape key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("C-u", "half page up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "half page down"),
		),

		Toggle: key.NewBinding(
			key.WithKeys(" ", "t"),
			key.WithHelp("space", "enable/disable"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Sync: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "sync game folder"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		AddMods: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add mods"),
		),
		RemoveMod: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove mod"),
		),
		Docs: key.NewBinding(
			key.WithKeys("d", "enter"),
			key.WithHelp("d", "documentation"),
		),
		OpenLink: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "open mod page"),
		),

		Inspect: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "show/hide info"),
		),
		InfoDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "scroll info down"),
		),
		InfoUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "scroll info up"),
		),

		Libraries: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "libraries"),
		),
		OpenLibrary: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "open library path"),
		),
		Rename: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "rename library"),
		),
		OpenFolder: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open game folder"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Filter, k.Sync, k.Libraries, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Home, k.End, k.HalfUp, k.HalfDown},
		{k.Toggle, k.Filter, k.Sync, k.Refresh, k.AddMods, k.RemoveMod, k.Docs, k.OpenLink},
		{k.Inspect, k.InfoDown, k.InfoUp},
		{k.Libraries, k.OpenLibrary, k.Rename, k.OpenFolder, k.Help, k.Quit},
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
