package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/tui/components"
	"github.com/theirongolddev/envcast/internal/tui/theme"
)

func (a App) renderCategoriesTab(cw int) string {
	t := theme.Active
	if len(a.months) == 0 {
		return components.ContentCard("Categories", "No forecast months.", cw)
	}
	innerW := components.CardInnerWidth(cw)
	month := a.months[a.monthIdx].Month

	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	groupStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	nameW := min(28, innerW/3)
	colW := max((innerW-nameW-6)/4, 10)

	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf("%-*s%*s%*s%*s%*s  %s",
		nameW, "Category", colW, "Budgeted", colW, "Was", colW, "Activity", colW, "Balance", "Goal")))
	b.WriteString("\n")

	group := ""
	for _, c := range a.categories {
		if c.Group != group {
			group = c.Group
			b.WriteString(groupStyle.Render(truncStr(group, innerW)))
			b.WriteString("\n")
		}
		b.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr("  "+c.Name, nameW))))
		b.WriteString(nameStyle.Render(fmt.Sprintf("%*s", colW, cli.FormatMoney(c.Budgeted))))
		b.WriteString(dimStyle.Render(fmt.Sprintf("%*s", colW, cli.FormatMoney(c.OriginalBudgeted))))
		b.WriteString(lipgloss.NewStyle().Foreground(t.Amount(c.Activity)).Background(t.Surface).
			Render(fmt.Sprintf("%*s", colW, cli.FormatMoney(c.Activity))))
		b.WriteString(lipgloss.NewStyle().Foreground(t.Amount(c.Balance)).Background(t.Surface).
			Render(fmt.Sprintf("%*s", colW, cli.FormatMoney(c.Balance))))
		if c.GoalType != "" {
			pct := 1.0
			if c.Needed > 0 {
				pct = float64(c.Funded) / float64(c.Needed)
			}
			b.WriteString(dimStyle.Render("  " + string(c.GoalType) + " "))
			b.WriteString(components.ProgressBar(pct, 8))
		}
		b.WriteString("\n")
	}

	title := fmt.Sprintf("%s  [%d/%d]  [ ] to change month", cli.FormatMonth(month), a.monthIdx+1, len(a.months))
	return components.ContentCard(title, strings.TrimSuffix(b.String(), "\n"), cw)
}
