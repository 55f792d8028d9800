package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/envcast/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar. info is shown on the
// right, typically the budget name and data age.
func RenderStatusBar(width int, info string, refreshing bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	left := " [?]help  [r]efresh  [q]uit"
	right := info
	if refreshing {
		right = "refreshing… " + right
	}
	if right != "" {
		right += " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return style.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}
