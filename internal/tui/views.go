package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/modkeeper/modkeeper/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StateHelp:
		return m.renderHelp()
	case StateDocs:
		return m.renderDocs()
	}

	body := m.ModList.View(m.Toggles)
	if m.inspectorVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.Inspector.View(m.Toggles))
	}
	if m.Picker.IsVisible() {
		body = m.overlay(m.Picker.View())
	} else if m.InputModal.IsVisible() {
		body = m.overlay(m.InputModal.View())
	}

	parts := []string{m.renderHeader(), body}
	if m.Task != nil {
		parts = append(parts, m.renderProgress())
	}
	parts = append(parts, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// overlay centers a modal in the body area
func (m Model) overlay(modal string) string {
	height := m.Height - HeaderHeight - FooterHeight
	if m.Task != nil {
		height -= ProgressHeight
	}
	return lipgloss.Place(m.Width, max(height, 3), lipgloss.Center, lipgloss.Center, modal)
}

// renderHeader shows the active library and the loading indicator
func (m Model) renderHeader() string {
	snap := m.Snapshot
	var parts []string
	parts = append(parts, styles.TitleStyle.Render("modkeeper"))

	active := snap.Active()
	switch {
	case active != nil:
		parts = append(parts, styles.AccentStyle.Render(active.Name))
		if active.SPTVersion != "" {
			parts = append(parts, styles.SubtitleStyle.Render("SPT "+active.SPTVersion))
		}
		parts = append(parts, styles.DimStyle.Render(fmt.Sprintf("%d/%d enabled", active.ActiveCount(), len(active.Mods))))
		if active.IsDirty {
			parts = append(parts, styles.WarnBadgeStyle.Render("needs sync"))
		}
	case snap.Loaded:
		parts = append(parts, styles.DimStyle.Render("no active library (L: libraries, O: open path)"))
	default:
		parts = append(parts, styles.DimStyle.Render("connecting..."))
	}

	if snap.Loading {
		parts = append(parts, m.Spinner.View()+" "+styles.DimStyle.Render(strings.Join(snap.InFlight, ", ")))
	}

	return strings.Join(parts, "  ")
}

// renderProgress shows the running task from the progress side channel
func (m Model) renderProgress() string {
	t := m.Task
	label := t.Stage
	if t.Message != "" {
		label = t.Message
	}
	if t.Total > 0 {
		label = fmt.Sprintf("%s %d/%d", label, t.Current, t.Total)
	}
	if t.Done {
		return styles.SuccessStyle.Render("✓ " + label)
	}
	return m.Progress.ViewAs(t.Percent()) + " " + styles.DimStyle.Render(label)
}

// renderFooter shows confirmations, errors, status or the short help
func (m Model) renderFooter() string {
	switch {
	case m.State == StateConfirmRemove:
		return styles.ErrorStyle.Render(fmt.Sprintf("Remove %s? (y/n)", m.pendingRemove.DisplayName()))
	case m.StatusMsg != "" && m.StatusIsErr:
		return RenderError(m.StatusMsg, m.Width)
	case m.StatusMsg != "":
		return styles.SuccessStyle.Render(m.StatusMsg)
	case m.Snapshot.Err != nil:
		// The last failure stays visible until the next action starts
		return RenderError(m.Snapshot.Err.Error(), m.Width)
	default:
		return m.Help.View(Keys)
	}
}

// renderHelp renders the full key reference
func (m Model) renderHelp() string {
	h := m.Help
	h.ShowAll = true
	content := styles.ModalTitleStyle.Render("Keys") + "\n" + h.View(Keys) + "\n\n" +
		styles.DimStyle.Render("esc or ? to close")
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, styles.ModalStyle.Render(content))
}

// renderDocs renders the documentation pager
func (m Model) renderDocs() string {
	header := styles.AccentStyle.Render(m.DocsTitle)
	footer := styles.DimStyle.Render(fmt.Sprintf("%3.f%%  j/k scroll · esc close", m.Docs.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, header, m.Docs.View(), footer)
}

// wrapText wraps each line of text to width, keeping blank lines
func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
		lines[i] = indent + strings.ReplaceAll(wordWrap(line, width-len(indent)), "\n", "\n"+indent)
	}
	return strings.Join(lines, "\n")
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wordLen := lipgloss.Width(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}

// RenderError renders an error message
func RenderError(msg string, width int) string {
	return styles.ErrorStyle.Render(styles.Truncate("Error: "+msg, max(width-1, 10)))
}
