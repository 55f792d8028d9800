package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/model"
	"github.com/theirongolddev/envcast/internal/pipeline"
)

var fundingCmd = &cobra.Command{
	Use:   "funding [txid]",
	Short: "Where each paycheck went",
	Long:  "Without arguments, lists every forecast paycheck with its allocation totals. With a transaction id, shows the categories it funded.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFunding,
}

func init() {
	rootCmd.AddCommand(fundingCmd)
}

func runFunding(_ *cobra.Command, args []string) error {
	res, err := loadForecast()
	if err != nil {
		return err
	}

	funding := pipeline.AggregateFunding(res)
	if len(funding) == 0 {
		fmt.Println("\n  No paychecks in the forecast horizon.")
		return nil
	}

	if len(args) == 1 {
		for _, f := range funding {
			if f.TransactionID == args[0] {
				printFundingDetail(f)
				return nil
			}
		}
		return fmt.Errorf("no paycheck with id %q; run `envcast funding` to list them", args[0])
	}

	rows := make([][]string, 0, len(funding))
	for _, f := range funding {
		rows = append(rows, []string{
			f.TransactionID,
			cli.FormatDate(f.Date),
			truncate(f.Payee, 20),
			cli.FormatMoney(f.Amount),
			cli.FormatMoney(f.Allocated),
			cli.FormatMoney(f.Manual),
			cli.FormatMoney(f.Swept),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "Paychecks",
		Headers:  []string{"ID", "Date", "Payee", "Amount", "Goals", "Split", "Swept"},
		Rows:     rows,
		LeftCols: 3,
	}))
	return nil
}

func printFundingDetail(f model.FundingStats) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  %s  %s", f.Payee, cli.FormatDate(f.Date), cli.FormatMoney(f.Amount))))
	fmt.Println()

	if len(f.Items) == 0 {
		fmt.Println("  Nothing allocated.")
		return
	}

	rows := make([][]string, 0, len(f.Items)+2)
	for _, item := range f.Items {
		rows = append(rows, []string{
			truncate(item.CategoryName, 28),
			cli.FormatDate(item.Date),
			truncate(item.Payee, 20),
			cli.FormatMoney(item.Amount),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", "", "", cli.FormatMoney(f.Allocated + f.Manual + f.Swept)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"Category", "Due", "For", "Amount"},
		Rows:     rows,
		LeftCols: 3,
	}))
}
