package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/envcast/internal/model"
)

func rentBudget() *model.Budget {
	b := newTestBudget()
	b.ScheduledTransactions = []model.ScheduledTransaction{
		scheduled("rent", "cat-rent", "payee-landlord", -100000, date(2025, time.January, 10), model.Monthly),
	}
	return b
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		amount, delta int64
		exact         bool
		want          int64
	}{
		{-100000, 0, false, -100000},
		{-100000, 0, true, -100000},
		{-100000, 50, false, -105000},
		{-100000, -100, false, -90000},
		{-333, 50, false, -350},
		{5, 100, false, 6},
		{-5, 100, false, -6},
		{-50, 100, true, 50},
	}
	for _, tt := range tests {
		got := adjust(tt.amount, tt.delta, tt.exact)
		assert.Equal(t, tt.want, got, "adjust(%d, %d, %v)", tt.amount, tt.delta, tt.exact)
	}
}

func TestScenario_ZeroChangeLeavesAmounts(t *testing.T) {
	for _, exact := range []bool{false, true} {
		settings := model.Settings{
			TransactionScenarios: []model.TransactionScenario{{
				ID:                     "noop",
				ScheduledTransactionID: "rent",
				BeginDate:              date(2025, time.January, 1),
				Frequency:              model.Monthly,
				IsExactAmount:          exact,
				IsEnabled:              true,
			}},
		}
		res, err := Build(rentBudget(), Options{Months: 2, Now: testNow, Settings: settings})
		require.NoError(t, err)
		assert.Equal(t, []int64{-100000, -100000, -100000}, amounts(res.Ledger()))
	}
}

func TestScenario_PercentCompounds(t *testing.T) {
	settings := model.Settings{
		TransactionScenarios: []model.TransactionScenario{{
			ID:                     "raise",
			ScheduledTransactionID: "rent",
			BeginDate:              date(2025, time.February, 1),
			Frequency:              model.Monthly,
			Amount:                 50,
			IsEnabled:              true,
		}},
	}

	res, err := Build(rentBudget(), Options{Months: 2, Now: testNow, Settings: settings})
	require.NoError(t, err)
	assert.Equal(t, []int64{-100000, -105000, -110250}, amounts(res.Ledger()))
}

func TestScenario_EndDateStopsSteps(t *testing.T) {
	settings := model.Settings{
		TransactionScenarios: []model.TransactionScenario{{
			ID:                     "raise",
			ScheduledTransactionID: "rent",
			BeginDate:              date(2025, time.February, 1),
			EndDate:                date(2025, time.March, 1),
			Frequency:              model.Monthly,
			Amount:                 50,
			IsEnabled:              true,
		}},
	}

	res, err := Build(rentBudget(), Options{Months: 2, Now: testNow, Settings: settings})
	require.NoError(t, err)
	assert.Equal(t, []int64{-100000, -105000, -105000}, amounts(res.Ledger()))
}

func TestScenario_DisabledIgnored(t *testing.T) {
	settings := model.Settings{
		TransactionScenarios: []model.TransactionScenario{{
			ID:                     "off",
			ScheduledTransactionID: "rent",
			BeginDate:              date(2025, time.January, 1),
			Frequency:              model.Never,
			Amount:                 -5000,
			IsExactAmount:          true,
		}},
	}

	res, err := Build(rentBudget(), Options{Months: 2, Now: testNow, Settings: settings})
	require.NoError(t, err)
	assert.Equal(t, []int64{-100000, -100000, -100000}, amounts(res.Ledger()))
}

func TestScenario_ExactOnceWithNever(t *testing.T) {
	settings := model.Settings{
		TransactionScenarios: []model.TransactionScenario{{
			ID:                     "bump",
			ScheduledTransactionID: "rent",
			BeginDate:              date(2025, time.February, 1),
			Frequency:              model.Never,
			Amount:                 -2500,
			IsExactAmount:          true,
			IsEnabled:              true,
		}},
	}

	res, err := Build(rentBudget(), Options{Months: 2, Now: testNow, Settings: settings})
	require.NoError(t, err)
	assert.Equal(t, []int64{-100000, -102500, -102500}, amounts(res.Ledger()))
}

func TestScenario_SubLinePropagatesToParent(t *testing.T) {
	b := newTestBudget()
	b.ScheduledTransactions = []model.ScheduledTransaction{
		scheduled("split", "", "payee-market", -100000, date(2025, time.January, 10), model.Monthly),
	}
	b.ScheduledSubTransactions = []model.ScheduledSubTransaction{
		{ID: "s-rent", ScheduledTransactionID: "split", CategoryID: "cat-rent", Amount: -50000},
		{ID: "s-food", ScheduledTransactionID: "split", CategoryID: "cat-food", Amount: -50000},
	}
	settings := model.Settings{
		SubTransactionScenarios: []model.SubTransactionScenario{{
			ID:                        "sub",
			ScheduledSubTransactionID: "s-rent",
			BeginDate:                 date(2025, time.January, 1),
			Frequency:                 model.Never,
			Amount:                    100,
			IsExactAmount:             true,
			IsEnabled:                 true,
		}},
	}

	res, err := Build(b, Options{Months: 1, Now: testNow, Settings: settings})
	require.NoError(t, err)

	assert.Equal(t, []int64{-99900, -99900}, amounts(res.Ledger()))
	for _, tx := range res.Ledger() {
		var sum int64
		for _, s := range res.SubTransactionsOf(tx.ID) {
			sum += s.Amount
			if s.CategoryID == "cat-rent" {
				assert.Equal(t, int64(-49900), s.Amount)
			} else {
				assert.Equal(t, int64(-50000), s.Amount)
			}
		}
		assert.Equal(t, tx.Amount, sum)
	}
}

func TestScenario_TransactionRescalesSplitLines(t *testing.T) {
	tests := []struct {
		name               string
		amount             int64
		exact              bool
		parent, rent, food int64
	}{
		{"exact", 10000, true, -90000, -54000, -36000},
		{"percent", 50, false, -105000, -63000, -42000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBudget()
			b.ScheduledTransactions = []model.ScheduledTransaction{
				scheduled("split", "", "payee-market", -100000, date(2025, time.January, 10), model.Monthly),
			}
			b.ScheduledSubTransactions = []model.ScheduledSubTransaction{
				{ID: "s-rent", ScheduledTransactionID: "split", CategoryID: "cat-rent", Amount: -60000},
				{ID: "s-food", ScheduledTransactionID: "split", CategoryID: "cat-food", Amount: -40000},
			}
			settings := model.Settings{
				TransactionScenarios: []model.TransactionScenario{{
					ID:                     "change",
					ScheduledTransactionID: "split",
					BeginDate:              date(2025, time.January, 1),
					Frequency:              model.Never,
					Amount:                 tt.amount,
					IsExactAmount:          tt.exact,
					IsEnabled:              true,
				}},
			}

			res, err := Build(b, Options{Months: 1, Now: testNow, Settings: settings})
			require.NoError(t, err)

			ledger := res.Ledger()
			require.Len(t, ledger, 2)
			for _, tx := range ledger {
				assert.Equal(t, tt.parent, tx.Amount)
				var sum int64
				for _, s := range res.SubTransactionsOf(tx.ID) {
					sum += s.Amount
					if s.CategoryID == "cat-rent" {
						assert.Equal(t, tt.rent, s.Amount)
					} else {
						assert.Equal(t, tt.food, s.Amount)
					}
				}
				assert.Equal(t, tx.Amount, sum, "split lines of %s", tx.ID)
			}

			jan, _ := res.Month(date(2025, time.January, 1))
			activity := findCategory(t, jan, "cat-rent").Activity + findCategory(t, jan, "cat-food").Activity
			assert.Equal(t, tt.parent, activity)
		})
	}
}

func TestSpreadDelta(t *testing.T) {
	lines := []*item{{amount: -1}, {amount: -1}, {amount: -1}}
	spreadDelta(lines, -3, -100)

	var sum int64
	for _, l := range lines {
		sum += l.amount
	}
	assert.Equal(t, int64(-103), sum)
	assert.Equal(t, int64(-34), lines[0].amount)
	assert.Equal(t, int64(-35), lines[2].amount)

	zero := []*item{{amount: 0}, {amount: 0}}
	spreadDelta(zero, 0, -5)
	assert.Equal(t, int64(-3), zero[0].amount)
	assert.Equal(t, int64(-2), zero[1].amount)
}
