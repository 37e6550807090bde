package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/tui/styles"
)

// PickerAction is what the user chose to do with the highlighted library
type PickerAction int

const (
	PickerNone PickerAction = iota
	PickerOpen
	PickerClose
	PickerRemove
)

// PickerSelection is a confirmed picker choice
type PickerSelection struct {
	Action  PickerAction
	Library domain.LibraryDTO
}

// LibraryPicker is a small popup listing the known libraries
type LibraryPicker struct {
	visible   bool
	libraries []domain.LibraryDTO
	activeID  string
	cursor    int
}

// NewLibraryPicker creates a new library picker
func NewLibraryPicker() LibraryPicker {
	return LibraryPicker{}
}

// Show displays the picker with the cursor on the active library
func (m *LibraryPicker) Show(libraries []domain.LibraryDTO, active *domain.LibraryDTO) {
	m.visible = true
	m.libraries = libraries
	m.activeID = ""
	m.cursor = 0
	if active != nil {
		m.activeID = active.ID
		for i, lib := range libraries {
			if lib.ID == active.ID {
				m.cursor = i
				break
			}
		}
	}
}

// Hide dismisses the picker
func (m *LibraryPicker) Hide() {
	m.visible = false
}

// IsVisible returns whether the picker is shown
func (m LibraryPicker) IsVisible() bool {
	return m.visible
}

// HandleKey processes a key press, returns (handled, selection).
// A non-nil selection means the user confirmed an action.
func (m *LibraryPicker) HandleKey(key string) (handled bool, selection *PickerSelection) {
	if !m.visible {
		return false, nil
	}

	pick := func(action PickerAction) *PickerSelection {
		if len(m.libraries) == 0 {
			return nil
		}
		m.visible = false
		return &PickerSelection{Action: action, Library: m.libraries[m.cursor]}
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.libraries)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		return true, pick(PickerOpen)
	case "c":
		return true, pick(PickerClose)
	case "x":
		return true, pick(PickerRemove)
	case "esc", "L":
		m.visible = false
	}

	return true, nil // consume all keys when visible
}

// View renders the picker
func (m LibraryPicker) View() string {
	if !m.visible {
		return ""
	}

	const rowWidth = 40

	var lines []string
	if len(m.libraries) == 0 {
		lines = append(lines, styles.DimStyle.Render(styles.Pad("No libraries", rowWidth)))
	}
	for i, lib := range m.libraries {
		selected := i == m.cursor
		isActive := lib.ID == m.activeID

		prefix := "  "
		if isActive {
			prefix = "✓ "
		}
		text := styles.Pad(prefix+lib.Name+"  "+lib.SPTVersion, rowWidth)

		switch {
		case selected:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.White).
				Background(styles.SlateLight).
				Render(text))
		case isActive:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.Amber).
				Render(text))
		default:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.LightGray).
				Render(text))
		}
	}

	hint := styles.DimStyle.Render("enter open · c close · x remove · esc cancel")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Amber).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render("Libraries") + "\n" + strings.Join(lines, "\n") + "\n\n" + hint)
}
