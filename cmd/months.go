package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/pipeline"
)

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "Month-by-month category balances",
	RunE:  runMonths,
}

var monthsGroup string

func init() {
	monthsCmd.Flags().StringVarP(&monthsGroup, "group", "g", "", "Only categories in this group (substring match)")
	rootCmd.AddCommand(monthsCmd)
}

func runMonths(_ *cobra.Command, _ []string) error {
	res, err := loadForecast()
	if err != nil {
		return err
	}

	months := pipeline.AggregateMonths(res)
	if len(months) == 0 {
		fmt.Println("\n  No forecast months.")
		return nil
	}

	headers := []string{"Category"}
	for _, m := range months {
		headers = append(headers, m.Month.Format("Jan 06"))
	}

	// Category order follows the first month; balances are looked up per month.
	type rowKey struct{ group, name string }
	var order []string
	names := map[string]rowKey{}
	balances := map[string][]string{}
	for i, m := range months {
		for _, c := range pipeline.AggregateCategories(res, m.Month) {
			if monthsGroup != "" && !strings.Contains(strings.ToLower(c.Group), strings.ToLower(monthsGroup)) {
				continue
			}
			if _, ok := balances[c.ID]; !ok {
				order = append(order, c.ID)
				names[c.ID] = rowKey{c.Group, c.Name}
				balances[c.ID] = make([]string, len(months))
				for j := range balances[c.ID] {
					balances[c.ID][j] = "-"
				}
			}
			balances[c.ID][i] = cli.FormatMoney(c.Balance)
		}
	}

	if len(order) == 0 {
		fmt.Println("\n  No categories match.")
		return nil
	}

	rows := make([][]string, 0, len(order))
	group := ""
	for _, id := range order {
		k := names[id]
		if k.group != group {
			if group != "" {
				rows = append(rows, []string{"---"})
			}
			group = k.group
		}
		rows = append(rows, append([]string{truncate(k.name, 28)}, balances[id]...))
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Category balances",
		Headers: headers,
		Rows:    rows,
	}))
	return nil
}
