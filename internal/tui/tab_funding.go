package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/tui/components"
	"github.com/theirongolddev/envcast/internal/tui/theme"
)

// renderFundingTab shows paychecks on the left and the selected paycheck's
// allocations on the right.
func (a App) renderFundingTab(cw, h int) string {
	t := theme.Active
	if len(a.funding) == 0 {
		return components.ContentCard("Funding", "No paychecks in the forecast horizon.", cw)
	}

	widths := []int{cw * 2 / 5, cw - cw*2/5}
	listW := components.CardInnerWidth(widths[0])
	rows := max(h-4, 3)

	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	// Keep the cursor inside the visible window.
	offset := 0
	if a.fundCursor >= rows {
		offset = a.fundCursor - rows + 1
	}
	end := min(offset+rows, len(a.funding))

	var list strings.Builder
	for i := offset; i < end; i++ {
		f := a.funding[i]
		amt := cli.FormatMoney(f.Amount)
		name := truncStr(f.Payee, max(listW-lipgloss.Width(amt)-8, 4))
		line := fmt.Sprintf("%s %-*s%s", f.Date.Format("01-02"), listW-lipgloss.Width(amt)-6, name, amt)
		if i == a.fundCursor {
			list.WriteString(selStyle.Render(line))
		} else {
			list.WriteString(rowStyle.Render(line))
		}
		if i < end-1 {
			list.WriteString("\n")
		}
	}

	left := components.ContentCard(fmt.Sprintf("Paychecks [%d/%d]", a.fundCursor+1, len(a.funding)), list.String(), widths[0])
	right := components.ContentCard("Allocation", a.renderFundingDetail(components.CardInnerWidth(widths[1])), widths[1])
	return components.CardRow([]string{left, right})
}

func (a App) renderFundingDetail(innerW int) string {
	t := theme.Active
	f := a.funding[a.fundCursor]

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", label.Render("Payee    "), value.Render(f.Payee))
	fmt.Fprintf(&b, "%s %s\n", label.Render("Date     "), value.Render(cli.FormatDate(f.Date)))
	fmt.Fprintf(&b, "%s %s\n", label.Render("Account  "), value.Render(f.Account))
	fmt.Fprintf(&b, "%s %s\n", label.Render("Amount   "), value.Render(cli.FormatMoney(f.Amount)))
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s\n\n",
		label.Render("Goals"), value.Render(cli.FormatMoney(f.Allocated)),
		label.Render("Split"), value.Render(cli.FormatMoney(f.Manual)),
		label.Render("Swept"), value.Render(cli.FormatMoney(f.Swept)))

	if len(f.Items) == 0 {
		b.WriteString(dim.Render("Nothing allocated."))
		return b.String()
	}

	amtW := 12
	nameW := max(innerW-amtW-7, 8)
	for i, item := range f.Items {
		due := "     "
		if !item.Date.IsZero() {
			due = item.Date.Format("01-02")
		}
		b.WriteString(dim.Render(due + " "))
		b.WriteString(value.Render(fmt.Sprintf("%-*s", nameW, truncStr(item.CategoryName, nameW))))
		b.WriteString(lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).
			Render(fmt.Sprintf("%*s", amtW, cli.FormatMoney(item.Amount))))
		if i < len(f.Items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
