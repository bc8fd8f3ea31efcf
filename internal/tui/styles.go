package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/nannylog/internal/food"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#E07A5F")
	colorSecondary = lipgloss.Color("#3D9970")
	colorAccent    = lipgloss.Color("#F2CC8F")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#E8E6E3")
	colorSubtle    = lipgloss.Color("#4A4E69")
	colorHighlight = lipgloss.Color("#81B29A")
)

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Greeting banner on the Today view
	greetingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	accentStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	secondaryStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)

// renderSegments paints tagged foods in their taxonomy color and leaves the
// rest of the text as is.
func renderSegments(segments []food.Segment) string {
	var b strings.Builder
	for _, s := range segments {
		if s.Kind == food.KindFood && s.Color != "" {
			b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(s.Color)).Render(s.Content))
			continue
		}
		b.WriteString(s.Content)
	}
	return b.String()
}

// categoryDot is a colored bullet for an intake category.
func categoryDot(t food.Taxonomy, category string) string {
	c := t.CategoryColor(category)
	if c == "" {
		return "●"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("●")
}
