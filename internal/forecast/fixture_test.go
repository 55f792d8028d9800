package forecast

import (
	"time"

	"github.com/theirongolddev/envcast/internal/model"
)

var testNow = time.Date(2025, time.January, 10, 9, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newTestBudget returns a one-month snapshot with a checking account, a
// to-be-budgeted inflow category and two spending categories.
func newTestBudget() *model.Budget {
	cats := []model.Category{
		{ID: "cat-tbb", GroupID: "grp-inflow", Name: "Inflow: Ready to Assign"},
		{ID: "cat-rent", GroupID: "grp-bills", Name: "Rent"},
		{ID: "cat-food", GroupID: "grp-bills", Name: "Groceries"},
	}
	month := model.Month{
		Month:      date(2025, time.January, 1),
		Categories: append([]model.Category(nil), cats...),
	}
	return &model.Budget{
		ID:   "budget-1",
		Name: "Household",
		Accounts: []model.Account{
			{ID: "acc-checking", Name: "Checking", OnBudget: true, Balance: 500000},
			{ID: "acc-savings", Name: "Savings", OnBudget: true},
		},
		Categories: cats,
		CategoryGroups: []model.CategoryGroup{
			{ID: "grp-inflow", Name: "Inflow"},
			{ID: "grp-bills", Name: "Bills"},
		},
		Payees: []model.Payee{
			{ID: "payee-landlord", Name: "Landlord"},
			{ID: "payee-employer", Name: "Employer"},
			{ID: "payee-market", Name: "Market"},
		},
		Months: []model.Month{month},
	}
}

func scheduled(id, category, payee string, amount int64, next time.Time, f model.Frequency) model.ScheduledTransaction {
	return model.ScheduledTransaction{
		ID:         id,
		AccountID:  "acc-checking",
		CategoryID: category,
		PayeeID:    payee,
		Amount:     amount,
		DateFirst:  next,
		DateNext:   next,
		Frequency:  f,
	}
}

func amounts(txs []model.Transaction) []int64 {
	out := make([]int64, len(txs))
	for i, t := range txs {
		out[i] = t.Amount
	}
	return out
}
