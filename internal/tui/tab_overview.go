package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/model"
	"github.com/theirongolddev/envcast/internal/tui/components"
	"github.com/theirongolddev/envcast/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	stats := a.stats
	var b strings.Builder

	// Row 1: headline metrics
	fundedColor := t.Funded(stats.FundedRate())
	lowColor := t.Amount(stats.LowestBalance)
	if stats.LowestBalance >= 0 {
		lowColor = ""
	}
	metrics := []components.Metric{
		{
			Label: "Income",
			Value: cli.FormatMoney(stats.ScheduledIncome),
			Delta: fmt.Sprintf("%d paychecks", stats.IncomeEvents),
			Color: t.Green,
		},
		{
			Label: "Expenses",
			Value: cli.FormatMoney(stats.ScheduledExpenses + stats.ProjectedSpending),
			Delta: "projected " + cli.FormatMoney(stats.ProjectedSpending),
			Color: t.Red,
		},
		{
			Label: "Funded",
			Value: cli.FormatPercent(stats.FundedRate()),
			Delta: fmt.Sprintf("%d underfunded", stats.Underfunded),
			Color: fundedColor,
		},
		{
			Label: "Ending Balance",
			Value: cli.FormatMoney(stats.EndingBalance),
			Delta: "low " + cli.FormatMoney(stats.LowestBalance) + " " + cli.FormatDate(stats.LowestBalanceDate),
			Color: lowColor,
		},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: on-budget balance over the horizon
	if len(a.days) > 0 {
		vals := make([]int64, len(a.days))
		labels := make([]string, len(a.days))
		for i, d := range a.days {
			vals[i] = d.Balance
			labels[i] = d.Date.Format("Jan 2")
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("On-Budget Balance (%s → %s)", cli.FormatMonth(stats.CurrentMonth), cli.FormatMonth(stats.ForecastUntil)),
			components.BalanceChart(vals, labels, components.CardInnerWidth(cw), 8),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: near-term obligations and the funding split
	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Upcoming Obligations", a.renderObligations(components.CardInnerWidth(halves[0]), 10), halves[0]),
		components.ContentCard("Where Income Goes", a.renderFundingSplit(components.CardInnerWidth(halves[1])), halves[1]),
	}))

	return b.String()
}

// renderObligations lists the least funded near-term obligations first.
func (a App) renderObligations(innerW, limit int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(a.status) == 0 {
		return muted.Render("Nothing due this month or next.")
	}

	status := append([]model.FundStatus(nil), a.status...)
	sort.SliceStable(status, func(i, j int) bool {
		pi, pj := status[i].Percent(), status[j].Percent()
		if pi != pj {
			return pi < pj
		}
		return status[i].Date.Before(status[j].Date)
	})
	if len(status) > limit {
		status = status[:limit]
	}

	labelW := min(24, innerW/2)
	barW := max(innerW-labelW-6, 5)
	lines := make([]string, len(status))
	for i, s := range status {
		label := s.CategoryName
		if label == "" {
			label = s.PayeeName
		}
		label = s.Date.Format("01-02") + " " + label
		lines[i] = components.FundBar(label, s.Percent(), labelW, barW)
	}
	return strings.Join(lines, "\n")
}

func (a App) renderFundingSplit(innerW int) string {
	t := theme.Active
	s := a.stats
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	rows := []struct {
		name  string
		value int64
		color lipgloss.Color
	}{
		{"Allocated to goals", s.AllocatedTotal, t.Accent},
		{"Assigned by split", s.ManualTotal, t.Blue},
		{"Swept to remaining funds", s.SweptTotal, t.Yellow},
		{"Starting balance", s.StartingBalance, t.TextPrimary},
		{"Lowest balance", s.LowestBalance, t.Amount(s.LowestBalance)},
	}

	var b strings.Builder
	for i, r := range rows {
		val := lipgloss.NewStyle().Foreground(r.color).Background(t.Surface).Render(cli.FormatMoney(r.value))
		gap := innerW - lipgloss.Width(r.name) - lipgloss.Width(val)
		if gap < 1 {
			gap = 1
		}
		b.WriteString(label.Render(r.name) + space.Render(strings.Repeat(" ", gap)) + val)
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
