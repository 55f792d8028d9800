package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/pipeline"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Current vs forecast-end balance per category",
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(_ *cobra.Command, _ []string) error {
	res, err := loadForecast()
	if err != nil {
		return err
	}

	months := pipeline.AggregateMonths(res)
	if len(months) == 0 {
		fmt.Println("\n  No forecast months.")
		return nil
	}
	first, last := months[0].Month, months[len(months)-1].Month

	end := map[string]int64{}
	for _, c := range pipeline.AggregateCategories(res, last) {
		end[c.ID] = c.Balance
	}

	var rows [][]string
	for _, c := range pipeline.AggregateCategories(res, first) {
		goal := ""
		if c.GoalType != "" {
			goal = fmt.Sprintf("%s %s", c.GoalType, cli.FormatMoney(c.GoalTarget))
		}
		rows = append(rows, []string{
			truncate(c.Group, 18),
			truncate(c.Name, 26),
			goal,
			cli.FormatMoney(c.Balance),
			cli.FormatMoney(end[c.ID]),
			cli.FormatMoney(c.Budgeted),
			cli.FormatSigned(c.Budgeted - c.OriginalBudgeted),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    fmt.Sprintf("Categories  %s → %s", cli.FormatMonth(first), cli.FormatMonth(last)),
		Headers:  []string{"Group", "Category", "Goal", "Now", "End", "Budgeted", "Forecast Δ"},
		Rows:     rows,
		LeftCols: 3,
	}))
	return nil
}
