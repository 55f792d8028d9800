package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/tui/components"
	"github.com/theirongolddev/envcast/internal/tui/theme"
)

func (a App) renderMonthsTab(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	cols := []string{"Month", "Income", "Budgeted", "Was", "Activity", "To Be Budgeted", "Remaining"}
	colW := max((innerW-10)/(len(cols)-1), 10)

	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf("%-10s", cols[0])))
	for _, c := range cols[1:] {
		b.WriteString(headStyle.Render(fmt.Sprintf("%*s", colW, c)))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", min(innerW, 10+colW*(len(cols)-1)))))
	b.WriteString("\n")

	amount := func(v int64) string {
		return lipgloss.NewStyle().Foreground(t.Amount(v)).Background(t.Surface).
			Render(fmt.Sprintf("%*s", colW, cli.FormatMoney(v)))
	}

	tbb := make([]int64, len(a.months))
	for i, m := range a.months {
		tbb[i] = m.ToBeBudgeted
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-10s", cli.FormatMonth(m.Month))))
		b.WriteString(amount(m.Income))
		b.WriteString(rowStyle.Render(fmt.Sprintf("%*s", colW, cli.FormatMoney(m.Budgeted))))
		b.WriteString(dimStyle.Render(fmt.Sprintf("%*s", colW, cli.FormatMoney(m.OriginalBudgeted))))
		b.WriteString(amount(m.Activity))
		b.WriteString(amount(m.ToBeBudgeted))
		b.WriteString(rowStyle.Render(fmt.Sprintf("%*s", colW, cli.FormatMoney(m.RemainingFunds))))
		b.WriteString("\n")
	}

	if len(tbb) > 1 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("To be budgeted  "))
		b.WriteString(components.Sparkline(tbb, t.Accent))
	}

	return components.ContentCard(fmt.Sprintf("Monthly Budget (%d months)", len(a.months)), b.String(), cw)
}
