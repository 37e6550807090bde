package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/tui/components"
	"github.com/modkeeper/modkeeper/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
	StateDocs
	StateConfirmRemove
)

// Vertical chrome: header, progress line and footer
const (
	HeaderHeight   = 1
	ProgressHeight = 1
	FooterHeight   = 1

	// Narrower windows show the mod list alone
	MinInspectorWindowWidth = 60
)

// Opener hands URLs and folders to the desktop
type Opener interface {
	Open(target string) error
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	Commands       domain.LibraryCommands
	Queries        domain.LibraryQueries
	Observer       *ChannelObserver
	Opener         Opener
	UnknownModName string
	Logger         *slog.Logger

	// UI Components
	ModList    *components.ModList
	Inspector  components.Inspector
	Toggles    components.Toggles
	Picker     components.LibraryPicker
	InputModal components.InputModal
	Spinner    spinner.Model
	Progress   progress.Model
	Help       help.Model
	Docs       viewport.Model

	// Data
	Snapshot  domain.StateSnapshot
	Task      *domain.TaskStatus
	DocsTitle string

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg     string
	StatusIsErr   bool
	ShowInspector bool
	pendingRemove domain.Mod
}

// NewModel creates a new application model. The observer must already be
// subscribed to queries.
func NewModel(
	commands domain.LibraryCommands,
	queries domain.LibraryQueries,
	observer *ChannelObserver,
	opener Opener,
	unknownModName string,
	logger *slog.Logger,
) Model {
	if logger == nil {
		logger = slog.Default()
	}
	m := Model{
		State:          StateBrowsing,
		Commands:       commands,
		Queries:        queries,
		Observer:       observer,
		Opener:         opener,
		UnknownModName: unknownModName,
		Logger:         logger,
		ModList:        components.NewModList(),
		Inspector:      components.NewInspector(),
		Toggles:        components.Toggles{},
		Picker:         components.NewLibraryPicker(),
		InputModal:     components.NewInputModal(),
		Spinner:        spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.SpinnerStyle)),
		Progress:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		Help:           help.New(),
		Docs:           viewport.New(0, 0),
		ShowInspector:  true,
	}
	m.Help.Styles.ShortKey = styles.HelpKeyStyle
	m.Help.Styles.FullKey = styles.HelpKeyStyle
	m.Help.Styles.ShortDesc = styles.HelpDescStyle
	m.Help.Styles.FullDesc = styles.HelpDescStyle
	m.applySnapshot(queries.Snapshot())
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		InitCmd(m.Commands),
		WaitForStateCmd(m.Observer),
		WaitForProgressCmd(m.Observer),
		m.Spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		next, cmd := m.handleKeyMsg(msg)
		if nm, ok := next.(Model); ok {
			nm.syncInspector()
			return nm, cmd
		}
		return next, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case StateChangedMsg:
		m.applySnapshot(msg.Snapshot)
		return m, WaitForStateCmd(m.Observer)

	case ProgressMsg:
		status := msg.Status
		m.Task = &status
		m.updateLayout()
		cmds := []tea.Cmd{WaitForProgressCmd(m.Observer)}
		if status.Done {
			cmds = append(cmds, ClearProgressCmd(status.TaskID, 2*time.Second))
		}
		return m, tea.Batch(cmds...)

	case ClearProgressMsg:
		if m.Task != nil && m.Task.TaskID == msg.TaskID {
			m.Task = nil
			m.updateLayout()
		}
		return m, nil

	case ToggleResultMsg:
		if t := m.Toggles.Get(msg.ModID); t != nil {
			t.Settle(msg.Seq, msg.IsActive, msg.Err)
		}
		if msg.Err != nil {
			m.Logger.Error("failed to toggle mod", "mod_id", msg.ModID, "error", msg.Err)
			m.StatusMsg = msg.Err.Error()
			m.StatusIsErr = true
			return m, ClearStatusCmd(5 * time.Second)
		}
		return m, nil

	case ActionDoneMsg:
		if msg.Status == "" {
			return m, nil
		}
		m.StatusMsg = msg.Status
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case DocsLoadedMsg:
		m.DocsTitle = msg.Title
		m.Docs.SetContent(wrapText(msg.Text, m.Width))
		m.Docs.GotoTop()
		m.State = StateDocs
		return m, nil

	case ErrMsg:
		m.Logger.Error("action failed", "context", msg.Context, "error", msg.Err)
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

// applySnapshot resynchronizes every view of the store
func (m *Model) applySnapshot(snap domain.StateSnapshot) {
	m.Snapshot = snap
	active := snap.Active()
	m.Toggles.Reconcile(active)
	if active == nil {
		m.ModList.SetMods("No active library", nil)
	} else {
		m.ModList.SetMods(active.Name, active.SortedMods())
	}
	m.syncInspector()
}

// syncInspector points the detail pane at the list selection
func (m *Model) syncInspector() {
	if mod, ok := m.ModList.SelectedMod(); ok {
		m.Inspector.SetMod(mod)
		return
	}
	m.Inspector.Clear()
}

// inspectorVisible reports whether the window is wide enough for the pane
func (m Model) inspectorVisible() bool {
	return m.ShowInspector && m.Width >= MinInspectorWindowWidth
}

// updateLayout sizes the components from the window dimensions
func (m *Model) updateLayout() {
	body := m.Height - HeaderHeight - FooterHeight
	if m.Task != nil {
		body -= ProgressHeight
	}
	body = max(body, 3)
	if m.inspectorVisible() {
		infoWidth := m.Width * 2 / 5
		m.ModList.SetSize(m.Width-infoWidth, body)
		m.Inspector.SetSize(infoWidth, body)
	} else {
		m.ModList.SetSize(m.Width, body)
	}
	m.Progress.Width = max(m.Width-20, 10)
	m.Help.Width = m.Width
	m.Docs.Width = m.Width
	m.Docs.Height = max(m.Height-HeaderHeight-FooterHeight, 1)
}

// progressFunc forwards task progress into the program
func (m Model) progressFunc() domain.ProgressFunc {
	return m.Observer.OnProgress
}
