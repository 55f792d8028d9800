package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/forecast"
	"github.com/theirongolddev/envcast/internal/model"
	"github.com/theirongolddev/envcast/internal/pipeline"
)

var statusCmd = &cobra.Command{
	Use:   "status [key]",
	Short: "Funded share of upcoming obligations",
	Long: "Shows how far each obligation due this month or next is funded. The key is the current month (YYYY-MM-01) for " +
		"the baseline before any paycheck, or a paycheck id for the state right after it. Without a key, " +
		"the latest state in the current month is shown.",
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, args []string) error {
	res, err := loadForecast()
	if err != nil {
		return err
	}

	var (
		status []model.FundStatus
		title  string
	)
	switch {
	case len(args) == 0:
		status = pipeline.LatestStatus(res)
		title = "Funding status (latest)"
	case args[0] == forecast.MonthKey(res.CurrentMonth):
		status = res.BaselineStatus()
		title = "Funding status " + args[0] + " (before paychecks)"
	default:
		if _, ok := res.FundStatus[args[0]]; !ok {
			return fmt.Errorf("no funding status for %q; use %s or a paycheck id from `envcast funding`",
				args[0], forecast.MonthKey(res.CurrentMonth))
		}
		status = res.FundStatusFor(args[0])
		title = "Funding status after " + args[0]
		if res.IsIncomeKey(args[0]) {
			for _, tx := range res.Ledger() {
				if tx.ID == args[0] {
					title = fmt.Sprintf("Funding status after %s on %s", res.PayeeName(tx.PayeeID), cli.FormatDate(tx.Date))
					break
				}
			}
		}
	}

	if len(status) == 0 {
		fmt.Println("\n  Nothing due this month or next.")
		return nil
	}

	rows := make([][]string, 0, len(status))
	var need, funded int64
	for _, s := range status {
		name := s.CategoryName
		if s.PayeeName != "" {
			name += " · " + s.PayeeName
		}
		rows = append(rows, []string{
			cli.FormatDate(s.Date),
			truncate(name, 32),
			cli.FormatMoney(-s.Amount),
			cli.FormatMoney(s.Funded),
			cli.RenderFundBar(s.Percent(), 16),
		})
		need += -s.Amount
		funded += min(s.Funded, -s.Amount)
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    title,
		Headers:  []string{"Due", "Obligation", "Needed", "Funded", "Progress"},
		Rows:     rows,
		LeftCols: 2,
	}))
	if need > 0 {
		fmt.Printf("  Funded %s of %s (%s)\n\n", cli.FormatMoney(funded), cli.FormatMoney(need),
			cli.FormatPercent(float64(funded)/float64(need)))
	}
	return nil
}
