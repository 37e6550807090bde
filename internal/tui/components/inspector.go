package components

import (
	"fmt"
	"strings"

	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/tui/styles"
)

// Layout constants for inspector
const (
	InspectorBorderHeight     = 2
	InspectorScrollIndicators = 2
)

// inspectorContent holds the three-zone layout content
type inspectorContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// Inspector displays the manifest of the selected mod
type Inspector struct {
	mod        domain.Mod
	hasMod     bool
	width      int
	height     int
	offset     int // body scroll offset
	maxVisible int
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{}
}

// SetMod sets the mod to display. Scroll resets when the selection moves to
// another mod.
func (i *Inspector) SetMod(mod domain.Mod) {
	if !i.hasMod || i.mod.ID != mod.ID {
		i.offset = 0
	}
	i.mod = mod
	i.hasMod = true
}

// Clear removes the displayed mod
func (i *Inspector) Clear() {
	i.mod = domain.Mod{}
	i.hasMod = false
	i.offset = 0
}

// Mod returns the displayed mod
func (i Inspector) Mod() (domain.Mod, bool) {
	return i.mod, i.hasMod
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	// Reserve the border, the scroll indicators, the title and a blank line
	i.maxVisible = height - InspectorBorderHeight - InspectorScrollIndicators - 2
	if i.maxVisible < 1 {
		i.maxVisible = 1
	}
}

// ScrollDown moves the body down one line
func (i *Inspector) ScrollDown() {
	if i.offset < i.maxOffset() {
		i.offset++
	}
}

// ScrollUp moves the body up one line
func (i *Inspector) ScrollUp() {
	if i.offset > 0 {
		i.offset--
	}
}

// maxOffset is the last scroll position that still fills the body
func (i Inspector) maxOffset() int {
	if !i.hasMod {
		return 0
	}
	content := renderModInspector(i.mod, i.mod.IsActive, max(i.width-3, 10))
	return max(len(splitLines(content.body))-i.bodyHeight(content), 0)
}

func (i Inspector) bodyHeight(content inspectorContent) int {
	return max(i.maxVisible-len(splitLines(content.header))-len(splitLines(content.footer)), 1)
}

// View renders the component. The state badge follows the mod's toggle.
func (i Inspector) View(toggles Toggles) string {
	style := styles.InactiveBorder

	// Border takes 2 chars (1 each side), leave 1 char safety margin
	contentWidth := max(i.width-3, 10)

	var content inspectorContent
	if i.hasMod {
		on := i.mod.IsActive
		if t := toggles.Get(i.mod.ID); t != nil {
			on = t.On()
		}
		content = renderModInspector(i.mod, on, contentWidth)
	} else {
		content = inspectorContent{body: styles.DimStyle.Render("No mod selected")}
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate("Info", contentWidth))

	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	availableForBody := i.bodyHeight(content)

	maxOffset := max(len(bodyLines)-availableForBody, 0)
	offset := min(i.offset, maxOffset)
	end := min(offset+availableForBody, len(bodyLines))
	visibleBody := bodyLines[offset:end]

	up := " "
	if offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < len(bodyLines) {
		down = styles.DimStyle.Render("↓ more")
	}

	parts := []string{titleLine, ""}
	if len(headerLines) > 0 {
		parts = append(parts, headerLines...)
	}
	parts = append(parts, up)
	parts = append(parts, visibleBody...)
	for j := len(visibleBody); j < availableForBody; j++ {
		parts = append(parts, "")
	}
	parts = append(parts, down)
	if len(footerLines) > 0 {
		parts = append(parts, footerLines...)
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(i.width-frameW, 0)).
		Height(max(i.height-frameH, 0)).
		Render(strings.Join(parts, "\n"))
}

func renderModInspector(mod domain.Mod, on bool, width int) inspectorContent {
	return inspectorContent{
		header: renderModHeader(mod, on, width),
		body:   renderModBody(mod, width),
		footer: renderModFooter(mod, width),
	}
}

func renderModHeader(mod domain.Mod, on bool, width int) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(styles.Truncate(mod.DisplayName(), width)))
	b.WriteString("\n")

	// Meta line: version · type · SPT
	var meta []string
	if v := mod.Version(); v != "" {
		meta = append(meta, "v"+v)
	}
	if mod.ModType != "" {
		meta = append(meta, string(mod.ModType))
	}
	if mod.Manifest != nil && mod.Manifest.SPTVersion != "" {
		meta = append(meta, "SPT "+mod.Manifest.SPTVersion)
	}
	b.WriteString(styles.DimStyle.Render(styles.Truncate(strings.Join(meta, " · "), width)))
	b.WriteString("\n")

	if mod.Manifest != nil && len(mod.Manifest.Author) > 0 {
		b.WriteString(styles.SubtitleStyle.Render(styles.Truncate("by "+mod.Manifest.Author.String(), width)))
		b.WriteString("\n")
	}

	if on {
		b.WriteString(styles.BadgeStyle.Render("enabled"))
	} else {
		b.WriteString(styles.DimBadgeStyle.Render("disabled"))
	}
	return b.String()
}

func renderModBody(mod domain.Mod, width int) string {
	mf := mod.Manifest
	if mf == nil {
		return ""
	}

	bodyWidth := min(width-2, 80)
	var sections []string

	if mf.Description != "" {
		sections = append(sections, styles.SubtitleStyle.Render(wordWrap(mf.Description, bodyWidth)))
	}

	if deps := mf.Dependencies.Entries(); len(deps) > 0 {
		lines := []string{styles.AccentStyle.Render("Dependencies")}
		for _, d := range deps {
			line := "  " + d.ID
			if d.Version != "" {
				line += " " + styles.DimStyle.Render(d.Version)
			}
			if d.Optional {
				line += " " + styles.DimBadgeStyle.Render("optional")
			}
			lines = append(lines, line)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if c := mf.Compatibility; len(c.Include) > 0 || len(c.Exclude) > 0 {
		lines := []string{styles.AccentStyle.Render("Compatibility")}
		if len(c.Include) > 0 {
			lines = append(lines, wrapIndented("works with: "+strings.Join(c.Include, ", "), bodyWidth))
		}
		if len(c.Exclude) > 0 {
			lines = append(lines, styles.ErrorStyle.Render(wrapIndented("conflicts with: "+strings.Join(c.Exclude, ", "), bodyWidth)))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(mf.Effects) > 0 {
		lines := []string{styles.AccentStyle.Render("Effects")}
		for _, e := range mf.Effects {
			lines = append(lines, wrapIndented("• "+e, bodyWidth))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(mf.Links) > 0 {
		lines := []string{styles.AccentStyle.Render("Links")}
		for _, l := range mf.Links {
			lines = append(lines, "  "+styles.Truncate(LinkLabel(l), width-2))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n")
}

func renderModFooter(mod domain.Mod, width int) string {
	switch {
	case mod.ManifestError != "":
		return styles.WarnBadgeStyle.Render("manifest unreadable") + "\n" +
			styles.DimStyle.Render(styles.Truncate(mod.ManifestError, width))
	case mod.Manifest == nil:
		return styles.DimStyle.Render("No manifest")
	default:
		return styles.DimStyle.Render(styles.Truncate(mod.ID, width))
	}
}

// LinkLabel formats a link as "name: url", falling back to its type
func LinkLabel(l domain.Link) string {
	name := l.Name
	if name == "" {
		name = l.LinkType
	}
	if name == "" {
		return l.URL
	}
	return fmt.Sprintf("%s: %s", name, l.URL)
}

// wrapIndented wraps text two spaces in
func wrapIndented(text string, width int) string {
	return "  " + strings.ReplaceAll(wordWrap(text, width-2), "\n", "\n  ")
}

// splitLines splits a string into lines, returning empty slice for empty string
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
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
		wordLen := len([]rune(word))

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
