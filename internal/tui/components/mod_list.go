package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/search"
	"github.com/modkeeper/modkeeper/internal/tui/styles"
)

// Layout constants for the mod list
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// ModList is the scrollable, filterable list of the active library's mods.
type ModList struct {
	index *search.ModIndex
	rows  []search.Match // index.Filter(filterQuery)
	total int

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title string

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
}

// NewModList creates an empty mod list
func NewModList() *ModList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &ModList{
		index:       search.NewModIndex(nil),
		filterInput: ti,
		focused:     true,
	}
}

// SetMods replaces the content. The cursor stays on the selected mod when it
// is still listed.
func (c *ModList) SetMods(title string, mods []domain.Mod) {
	selectedID := ""
	if m, ok := c.SelectedMod(); ok {
		selectedID = m.ID
	}

	c.title = title
	c.index = search.NewModIndex(mods)
	c.total = len(mods)
	c.rows = c.index.Filter(c.filterQuery)

	c.cursor = 0
	for i, r := range c.rows {
		if r.Mod.ID == selectedID {
			c.cursor = i
			break
		}
	}
	c.ensureVisible()
}

// Update handles navigation and filter typing
func (c *ModList) Update(msg tea.Msg) tea.Cmd {
	if !c.focused {
		return nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)

	// Typing into the filter
	if c.filterActive && c.filterInput.Focused() {
		if isKey {
			switch keyMsg.String() {
			case "esc":
				c.clearFilter()
				return nil
			case "enter":
				// Accept filter, blur input to allow navigation
				c.filterInput.Blur()
				return nil
			case "backspace":
				if c.filterInput.Value() == "" {
					c.clearFilter()
					return nil
				}
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return cmd
	}

	if !isKey {
		return nil
	}

	// Filter active but blurred: navigation over the results
	if c.filterActive {
		switch keyMsg.String() {
		case "esc":
			c.clearFilter()
			return nil
		case "/":
			c.filterInput.Focus()
			return nil
		}
	}

	count := len(c.rows)
	if count == 0 {
		return nil
	}

	switch keyMsg.String() {
	case "j", "down":
		if c.cursor < count-1 {
			c.cursor++
		}
	case "k", "up":
		if c.cursor > 0 {
			c.cursor--
		}
	case "g", "home":
		c.cursor = 0
	case "G", "end":
		c.cursor = count - 1
	case "ctrl+d", "pgdown":
		c.cursor = min(c.cursor+max(c.maxVisible/2, 1), count-1)
	case "ctrl+u", "pgup":
		c.cursor = max(c.cursor-max(c.maxVisible/2, 1), 0)
	}
	c.ensureVisible()
	return nil
}

// View renders the list with the toggles' rendered values
func (c *ModList) View(toggles Toggles) string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(c.width-frameW, 0)).
		Height(max(c.height-frameH, 0)).
		Render(c.renderContent(toggles))
}

// SetSize sets the outer dimensions
func (c *ModList) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

// SetFocused sets whether keys reach the list
func (c *ModList) SetFocused(focused bool) {
	c.focused = focused
}

// SelectedMod returns the mod under the cursor
func (c *ModList) SelectedMod() (domain.Mod, bool) {
	if c.cursor < 0 || c.cursor >= len(c.rows) {
		return domain.Mod{}, false
	}
	return c.rows[c.cursor].Mod, true
}

// ItemCount returns the number of visible rows
func (c *ModList) ItemCount() int {
	return len(c.rows)
}

// ToggleFilter activates the filter input
func (c *ModList) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (c *ModList) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (c *ModList) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all mods
func (c *ModList) ClearFilter() {
	c.clearFilter()
}

func (c *ModList) recalcMaxVisible() {
	// Interior minus title line and scroll indicators
	c.maxVisible = c.height - BorderHeight - ScrollIndicatorLines - 1
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ModList) ensureVisible() {
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *ModList) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.rows = c.index.Filter("")
	c.cursor, c.offset = 0, 0
	c.recalcMaxVisible()
}

func (c *ModList) applyFilter() {
	query := c.filterInput.Value()
	if query == c.filterQuery {
		return
	}
	c.filterQuery = query
	c.rows = c.index.Filter(query)

	// Reset cursor to first match
	c.cursor = 0
	c.offset = 0
}

// Rendering

func (c *ModList) renderContent(toggles Toggles) string {
	itemWidth := max(c.width-BorderWidth, 10)

	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	if len(c.rows) == 0 {
		emptyMsg := styles.DimStyle.Render("No mods")
		if c.filterActive && c.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("No matches")
		}
		content := titleLine + "\n \n" + emptyMsg + "\n "
		if c.filterActive {
			content += "\n" + c.renderFilterBar()
		}
		return content
	}

	end := min(c.offset+c.maxVisible, len(c.rows))
	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		lines = append(lines, c.renderModRow(c.rows[i], toggles.Get(c.rows[i].Mod.ID), i == c.cursor, itemWidth))
	}

	// Always reserve the indicator lines to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < len(c.rows) {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if c.filterActive {
		content += "\n" + c.renderFilterBar()
	}
	return content
}

func (c *ModList) renderModRow(row search.Match, toggle *Toggle, selected bool, width int) string {
	mod := row.Mod
	on, pending := mod.IsActive, false
	if toggle != nil {
		on, pending = toggle.On(), toggle.Pending()
	}

	indicator, fg := styles.DisabledChar, styles.DimGray
	switch {
	case pending:
		indicator, fg = styles.PendingChar, styles.Amber
	case on:
		indicator, fg = styles.EnabledChar, styles.Green
	}

	tag := styles.ModTypeTags[string(mod.ModType)]
	if tag == "" {
		tag = "?"
	}
	tagFg := styles.Blue

	version := mod.Version()
	if version != "" {
		version = " " + version
	}
	versionFg := styles.DimGray

	// indicator(1) + space + tag(1) + space + margins(2)
	avail := max(width-6-lipgloss.Width(version), 5)
	name := styles.Truncate(mod.DisplayName(), avail)

	parts := []styles.RowPart{
		{Text: indicator, Foreground: &fg},
		{Text: " " + tag + " ", Foreground: &tagFg},
	}
	parts = append(parts, highlightParts(name, row.MatchedIndexes, selected)...)
	parts = append(parts, styles.RowPart{Text: version, Foreground: &versionFg})

	return styles.RenderListRow(parts, selected, width)
}

// highlightParts splits name into runs so matched characters can be styled.
func highlightParts(name string, matched []int, selected bool) []styles.RowPart {
	if len(matched) == 0 {
		return []styles.RowPart{{Text: name}}
	}
	hl := styles.MatchHighlightStyle
	if selected {
		hl = styles.MatchHighlightSelectedStyle
	}

	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}

	var parts []styles.RowPart
	var run strings.Builder
	runMatched := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		p := styles.RowPart{Text: run.String()}
		if runMatched {
			p.Style = &hl
		}
		parts = append(parts, p)
		run.Reset()
	}
	for i, r := range name {
		if set[i] != runMatched {
			flush()
			runMatched = set[i]
		}
		run.WriteRune(r)
	}
	flush()
	return parts
}

func (c *ModList) renderFilterBar() string {
	countStr := ""
	if c.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", len(c.rows), c.total))
	}
	return c.filterInput.View() + countStr
}
