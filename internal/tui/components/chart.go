package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/tui/theme"
)

// Sparkline renders a unicode sparkline of milliunit values.
func Sparkline(values []int64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	return style.Render(cli.RenderSparkline(values))
}

// BalanceChart renders a column chart of milliunit balances. The baseline
// is zero, or the lowest value when the series dips below zero, and
// columns under zero are drawn in red. values wider than the chart are
// sampled down.
func BalanceChart(values []int64, labels []string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, theme.Active.Accent)
	}
	t := theme.Active

	lo, hi := int64(0), int64(0)
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	topLabel := cli.FormatCompact(hi)
	botLabel := cli.FormatCompact(lo)
	labelW := max(lipgloss.Width(topLabel), lipgloss.Width(botLabel)) + 1

	chartW := width - labelW - 1
	if chartW < 5 {
		chartW = 5
	}
	if len(values) > chartW {
		values, labels = sample(values, labels, chartW)
	}
	n := len(values)

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	posStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	negStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	blankStyle := lipgloss.NewStyle().Background(t.Surface)

	span := float64(hi - lo)
	var b strings.Builder
	for row := height; row >= 1; row-- {
		threshold := float64(lo) + span*float64(row-1)/float64(height)

		label := ""
		switch row {
		case height:
			label = topLabel
		case 1:
			label = botLabel
		}
		b.WriteString(axisStyle.Render(pad(label, labelW)))
		b.WriteString(axisStyle.Render("│"))

		for _, v := range values {
			switch {
			case float64(v) <= threshold:
				b.WriteString(blankStyle.Render(" "))
			case v < 0:
				b.WriteString(negStyle.Render("█"))
			default:
				b.WriteString(posStyle.Render("█"))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(strings.Repeat(" ", labelW) + "└" + strings.Repeat("─", n)))

	if len(labels) == n && n > 0 {
		first, last := labels[0], labels[n-1]
		gap := n - lipgloss.Width(first) - lipgloss.Width(last)
		if gap > 0 {
			b.WriteString("\n")
			b.WriteString(axisStyle.Render(strings.Repeat(" ", labelW+1) + first + strings.Repeat(" ", gap) + last))
		}
	}
	return b.String()
}

// sample picks n evenly spaced points, always keeping the first and last.
func sample(values []int64, labels []string, n int) ([]int64, []string) {
	if n < 2 {
		n = 2
	}
	out := make([]int64, n)
	var outLabels []string
	if len(labels) == len(values) {
		outLabels = make([]string, n)
	}
	for i := range out {
		src := i * (len(values) - 1) / (n - 1)
		out[i] = values[src]
		if outLabels != nil {
			outLabels[i] = labels[src]
		}
	}
	return out, outLabels
}

func pad(s string, w int) string {
	if n := w - lipgloss.Width(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}
