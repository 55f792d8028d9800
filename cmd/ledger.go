package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/pipeline"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Forecast transactions with running balances",
	RunE:  runLedger,
}

var (
	ledgerAccount  string
	ledgerCategory string
	ledgerSince    string
	ledgerUntil    string
	ledgerSplits   bool
	ledgerLimit    int
)

func init() {
	ledgerCmd.Flags().StringVarP(&ledgerAccount, "account", "a", "", "Filter to account (substring match)")
	ledgerCmd.Flags().StringVarP(&ledgerCategory, "category", "c", "", "Filter to category (substring match)")
	ledgerCmd.Flags().StringVar(&ledgerSince, "since", "", "First date to show (YYYY-MM-DD)")
	ledgerCmd.Flags().StringVar(&ledgerUntil, "until", "", "Show dates before this one (YYYY-MM-DD)")
	ledgerCmd.Flags().BoolVar(&ledgerSplits, "splits", false, "Show the lines of split transactions")
	ledgerCmd.Flags().IntVarP(&ledgerLimit, "limit", "l", 0, "Number of transactions to show (0 for all)")
	rootCmd.AddCommand(ledgerCmd)
}

func parseOptionalDate(flag, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return t, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func runLedger(_ *cobra.Command, _ []string) error {
	since, err := parseOptionalDate("since", ledgerSince)
	if err != nil {
		return err
	}
	until, err := parseOptionalDate("until", ledgerUntil)
	if err != nil {
		return err
	}

	res, err := loadForecast()
	if err != nil {
		return err
	}

	entries := pipeline.FilterLedger(pipeline.LedgerEntries(res), since, until)

	rows := make([][]string, 0, len(entries))
	shown := 0
	for _, e := range entries {
		if ledgerAccount != "" && !containsFold(e.Account, ledgerAccount) {
			continue
		}
		subs := res.SubTransactionsOf(e.ID)
		if ledgerCategory != "" && !containsFold(e.Category, ledgerCategory) {
			matched := false
			for _, s := range subs {
				if containsFold(res.CategoryName(s.CategoryID), ledgerCategory) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		if ledgerLimit > 0 && shown >= ledgerLimit {
			break
		}
		shown++

		payee := e.Payee
		if e.Projected {
			payee = "(projected)"
		}
		rows = append(rows, []string{
			cli.FormatDate(e.Date),
			truncate(e.Account, 16),
			truncate(payee, 20),
			truncate(e.Category, 22),
			cli.FormatMoney(e.Amount),
			cli.FormatMoney(e.Balance),
		})
		if ledgerSplits {
			for _, s := range subs {
				name := res.CategoryName(s.CategoryID)
				if s.TransferAccountID != "" {
					name = "Transfer: " + res.AccountName(s.TransferAccountID)
				}
				rows = append(rows, []string{"", "", "", "  ↳ " + truncate(name, 18), cli.FormatMoney(s.Amount), ""})
			}
		}
	}

	if len(rows) == 0 {
		fmt.Println("\n  No forecast transactions match.")
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    fmt.Sprintf("Ledger (%d transactions)", shown),
		Headers:  []string{"Date", "Account", "Payee", "Category", "Amount", "Balance"},
		Rows:     rows,
		LeftCols: 4,
	}))
	return nil
}
