package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Per-month projection with headline totals",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	res, err := loadForecast()
	if err != nil {
		return err
	}

	stats := pipeline.Summarize(res)
	months := pipeline.AggregateMonths(res)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  %s → %s",
		stats.BudgetName, cli.FormatMonth(stats.CurrentMonth), cli.FormatMonth(stats.ForecastUntil))))
	fmt.Println()

	rows := [][]string{
		{"Scheduled income", cli.FormatMoney(stats.ScheduledIncome)},
		{"Scheduled expenses", cli.FormatMoney(stats.ScheduledExpenses)},
		{"Projected spending", cli.FormatMoney(stats.ProjectedSpending)},
		{"Transactions", cli.FormatNumber(int64(stats.Transactions))},
		{"---"},
		{"Allocated to goals", cli.FormatMoney(stats.AllocatedTotal)},
		{"Assigned by split", cli.FormatMoney(stats.ManualTotal)},
		{"Swept to remaining", cli.FormatMoney(stats.SweptTotal)},
		{"---"},
		{"Funded (next 2 months)", fmt.Sprintf("%s  (%d underfunded)", cli.FormatPercent(stats.FundedRate()), stats.Underfunded)},
		{"Starting balance", cli.FormatMoney(stats.StartingBalance)},
		{"Ending balance", cli.FormatMoney(stats.EndingBalance)},
		{"Lowest balance", fmt.Sprintf("%s on %s", cli.FormatMoney(stats.LowestBalance), cli.FormatDate(stats.LowestBalanceDate))},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Overview",
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if stats.LowestBalance < 0 {
		fmt.Println(cli.RenderWarning(fmt.Sprintf("On-budget balance goes negative on %s", cli.FormatDate(stats.LowestBalanceDate))))
	}

	monthRows := make([][]string, 0, len(months))
	tbb := make([]int64, 0, len(months))
	for _, m := range months {
		monthRows = append(monthRows, []string{
			cli.FormatMonth(m.Month),
			cli.FormatMoney(m.Income),
			cli.FormatMoney(m.Budgeted),
			cli.FormatSigned(m.Budgeted - m.OriginalBudgeted),
			cli.FormatMoney(m.Activity),
			cli.FormatMoney(m.ToBeBudgeted),
			cli.FormatMoney(m.RemainingFunds),
		})
		tbb = append(tbb, m.ToBeBudgeted)
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Months",
		Headers: []string{"Month", "Income", "Budgeted", "Forecast Δ", "Activity", "To Be Budgeted", "Remaining"},
		Rows:    monthRows,
	}))
	if len(tbb) > 1 {
		fmt.Printf("  To be budgeted  %s\n", cli.RenderSparkline(tbb))
	}
	fmt.Println()
	return nil
}
