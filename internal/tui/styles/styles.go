package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	Amber      = lipgloss.Color("#D9A441")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Amber)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Amber)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Raw toggle characters (unstyled)
const (
	EnabledChar  = "●"
	DisabledChar = "○"
	PendingChar  = "◐"
)

// Mod type tags
var ModTypeTags = map[string]string{
	"Client":  "C",
	"Server":  "S",
	"Both":    "B",
	"Unknown": "?",
}

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Amber).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Amber)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Badge styles
var (
	BadgeStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Amber).
			Padding(0, 1)

	DimBadgeStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateLight).
			Padding(0, 1)

	WarnBadgeStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Red).
			Padding(0, 1)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
		Foreground(Amber)
)

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(Amber)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Amber).
				Bold(true)
)

// Match highlight styles for filter results
var (
	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(Amber).
				Bold(true)

	MatchHighlightSelectedStyle = lipgloss.NewStyle().
					Foreground(Amber).
					Background(SlateLight).
					Bold(true)
)

// Helper functions

// Truncate truncates a string to the given display width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// Pad pads a string to the given width
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return Truncate(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// RenderListRow renders a complete list row with uniform background when selected.
// Each part is styled explicitly to avoid ANSI reset code issues.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := SlateLight
	defaultFg := LightGray
	selectedFg := White

	var b strings.Builder
	visibleLen := 0

	for _, part := range parts {
		style := lipgloss.NewStyle()
		switch {
		case part.Style != nil:
			style = *part.Style
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(selectedFg)
		default:
			style = style.Foreground(defaultFg)
		}
		if selected {
			style = style.Background(bg)
		}
		b.WriteString(style.Render(part.Text))
		visibleLen += lipgloss.Width(part.Text)
	}

	// Fill to width (minus left/right margin)
	paddingNeeded := width - visibleLen - 2
	if paddingNeeded > 0 {
		padStyle := lipgloss.NewStyle()
		if selected {
			padStyle = padStyle.Background(bg)
		}
		b.WriteString(padStyle.Render(strings.Repeat(" ", paddingNeeded)))
	}

	marginStyle := lipgloss.NewStyle()
	if selected {
		marginStyle = marginStyle.Background(bg)
	}
	margin := marginStyle.Render(" ")

	return margin + b.String() + margin
}

// RowPart is one segment of a list row. Style wins over Foreground; both nil
// uses the row default.
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
	Style      *lipgloss.Style
}
