package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/tui/theme"
)

// renderLedgerLines renders every forecast transaction, one per line, for
// the ledger viewport.
func (a App) renderLedgerLines(w int) string {
	t := theme.Active
	if len(a.ledger) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Render("  No forecast transactions.")
	}

	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	const (
		dateW = 11
		amtW  = 13
	)
	textW := max((w-dateW-amtW*2-4)/3, 8)

	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf(" %-*s%-*s%-*s%-*s%*s%*s",
		dateW, "Date", textW, "Account", textW, "Payee", textW, "Category", amtW, "Amount", amtW, "Balance")))
	for _, e := range a.ledger {
		b.WriteString("\n")
		style := rowStyle
		if e.Projected {
			style = dimStyle
		}
		b.WriteString(style.Render(fmt.Sprintf(" %-*s%-*s%-*s%-*s",
			dateW, cli.FormatDate(e.Date),
			textW, truncStr(e.Account, textW-1),
			textW, truncStr(e.Payee, textW-1),
			textW, truncStr(e.Category, textW-1))))
		b.WriteString(lipgloss.NewStyle().Foreground(t.Amount(e.Amount)).
			Render(fmt.Sprintf("%*s", amtW, cli.FormatMoney(e.Amount))))
		b.WriteString(style.Render(fmt.Sprintf("%*s", amtW, cli.FormatMoney(e.Balance))))
	}
	return b.String()
}
