package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/pipeline"
	"github.com/theirongolddev/envcast/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Recent forecast runs",
	RunE:  runHistory,
}

var (
	historyLimit int
	historyClear bool
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Number of runs to show")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the run history")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	if historyClear {
		if err := cache.ClearRuns(); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Println("  Run history cleared.")
		return nil
	}

	runs, err := cache.RecentRuns(historyLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("\n  No forecast runs recorded yet.")
		return nil
	}

	now := time.Now()
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		took := cli.FormatDuration(r.Duration)
		if r.Cached {
			took = "cached"
		}
		result := fmt.Sprintf("%d tx, %d short", r.Transactions, r.Underfunded)
		if r.Err != "" {
			result = cli.RenderWarning(truncate(r.Err, 40))
		}
		rows = append(rows, []string{
			cli.FormatAgo(r.StartedAt, now),
			truncate(r.BudgetName, 20),
			fmt.Sprintf("%dm", r.Months),
			took,
			result,
			cli.FormatMoney(r.IncomeTotal),
			cli.FormatMoney(r.ExpenseTotal),
			cli.FormatMoney(r.SweptTotal),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "Forecast runs",
		Headers:  []string{"When", "Budget", "Horizon", "Took", "Result", "Income", "Expenses", "Swept"},
		Rows:     rows,
		LeftCols: 5,
	}))
	return nil
}
