package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/pipeline"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Projected account balances",
	RunE:  runAccounts,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
}

func runAccounts(_ *cobra.Command, _ []string) error {
	res, err := loadForecast()
	if err != nil {
		return err
	}

	accounts := pipeline.AggregateAccounts(res)
	if len(accounts) == 0 {
		fmt.Println("\n  No open accounts.")
		return nil
	}

	rows := make([][]string, 0, len(accounts)+2)
	var start, end int64
	for _, a := range accounts {
		budget := "off"
		if a.OnBudget {
			budget = "on"
			start += a.Starting
			end += a.Projected
		}
		rows = append(rows, []string{
			truncate(a.Name, 24),
			a.Type,
			budget,
			cli.FormatMoney(a.Starting),
			cli.FormatMoney(a.Projected),
			cli.FormatSigned(a.Change()),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"On budget", "", "", cli.FormatMoney(start), cli.FormatMoney(end), cli.FormatSigned(end - start)})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    fmt.Sprintf("Accounts at %s", cli.FormatDate(res.ForecastUntil)),
		Headers:  []string{"Account", "Type", "Budget", "Today", "Projected", "Change"},
		Rows:     rows,
		LeftCols: 3,
	}))
	return nil
}
