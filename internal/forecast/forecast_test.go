package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/envcast/internal/model"
)

func TestBuild_MonthlyExpense(t *testing.T) {
	b := newTestBudget()
	b.ScheduledTransactions = []model.ScheduledTransaction{
		scheduled("rent", "cat-rent", "payee-landlord", -100000, date(2025, time.January, 10), model.Monthly),
	}

	res, err := Build(b, Options{Months: 2, Now: testNow})
	require.NoError(t, err)

	ledger := res.Ledger()
	require.Len(t, ledger, 3)
	assert.Equal(t, []int64{-100000, -100000, -100000}, amounts(ledger))
	assert.Equal(t, date(2025, time.January, 10), ledger[0].Date)
	assert.Equal(t, date(2025, time.February, 10), ledger[1].Date)
	assert.Equal(t, date(2025, time.March, 10), ledger[2].Date)
	assert.Equal(t, "rent_2025-01-10", ledger[0].ID)
	for _, tx := range ledger {
		assert.Equal(t, model.ImportScheduled, tx.ImportID)
		assert.Equal(t, model.Uncleared, tx.Cleared)
		assert.True(t, tx.Approved)
	}
	assert.Empty(t, res.IncomeFunding)

	// January through April: horizon plus the expense look-ahead month.
	assert.Len(t, res.Budget.Months, 4)

	mar, ok := res.Month(date(2025, time.March, 1))
	require.True(t, ok)
	rent := findCategory(t, mar, "cat-rent")
	assert.Equal(t, int64(-300000), rent.Balance)
	assert.Equal(t, int64(-100000), rent.Activity)

	assert.Equal(t, int64(200000), res.Budget.Accounts[0].Balance)
}

func TestBuild_IncomeFundsUpcomingExpenses(t *testing.T) {
	b := newTestBudget()
	b.ScheduledTransactions = []model.ScheduledTransaction{
		scheduled("paycheck", "cat-tbb", "payee-employer", 200000, date(2025, time.January, 10), model.Monthly),
		scheduled("food", "cat-food", "payee-market", -50000, date(2025, time.January, 15), model.TwiceAMonth),
	}

	res, err := Build(b, Options{Months: 1, Now: testNow})
	require.NoError(t, err)

	ledger := res.Ledger()
	require.Len(t, ledger, 5)
	assert.Equal(t, []int64{200000, -50000, -50000, -50000, -50000}, amounts(ledger))

	funding := res.IncomeFundingFor("paycheck_2025-01-10")
	require.Len(t, funding, 4)
	var total int64
	for _, f := range funding {
		assert.Equal(t, "cat-food", f.CategoryID)
		assert.Equal(t, "Market", f.Payee)
		assert.Equal(t, int64(50000), f.Amount)
		total += f.Amount
	}
	assert.Equal(t, int64(200000), total)

	status := res.FundStatusFor("paycheck_2025-01-10")
	require.Len(t, status, 4)
	for _, s := range status {
		assert.Equal(t, -s.Amount, s.Funded, "expense on %s", s.Date.Format(time.DateOnly))
		assert.Equal(t, "Groceries", s.CategoryName)
	}

	jan, _ := res.Month(date(2025, time.January, 1))
	feb, _ := res.Month(date(2025, time.February, 1))
	assert.Equal(t, int64(200000), jan.Income)
	assert.Equal(t, int64(0), jan.ToBeBudgeted-feb.Budgeted)
}

func TestBuild_SweepsLeftoverIncome(t *testing.T) {
	b := newTestBudget()
	b.ScheduledTransactions = []model.ScheduledTransaction{
		scheduled("paycheck", "cat-tbb", "payee-employer", 300000, date(2025, time.January, 10), model.Monthly),
		scheduled("food", "cat-food", "payee-market", -50000, date(2025, time.January, 15), model.TwiceAMonth),
	}

	res, err := Build(b, Options{Months: 1, Now: testNow})
	require.NoError(t, err)

	funding := res.IncomeFundingFor("paycheck_2025-01-10")
	require.Len(t, funding, 5)
	sweep := funding[4]
	assert.Equal(t, RemainingFundsCategoryID, sweep.CategoryID)
	assert.Equal(t, RemainingFundsCategoryName, sweep.CategoryName)
	assert.Equal(t, int64(100000), sweep.Amount)
	assert.Empty(t, sweep.Payee)

	jan, _ := res.Month(date(2025, time.January, 1))
	remaining := findCategory(t, jan, RemainingFundsCategoryID)
	assert.Equal(t, int64(100000), remaining.Balance)
	assert.Equal(t, int64(100000), remaining.Budgeted)

	var later int64
	for _, m := range res.Budget.Months {
		if m.Month.After(jan.Month) {
			later += m.Budgeted
		}
	}
	assert.Equal(t, int64(0), jan.ToBeBudgeted-later)
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	b := newTestBudget()
	b.ScheduledTransactions = []model.ScheduledTransaction{
		scheduled("rent", "cat-rent", "payee-landlord", -100000, date(2025, time.January, 10), model.Monthly),
	}

	_, err := Build(b, Options{Months: 3, Now: testNow})
	require.NoError(t, err)

	assert.Len(t, b.Months, 1)
	assert.Len(t, b.Categories, 3)
	assert.Len(t, b.Months[0].Categories, 3)
	assert.Len(t, b.Payees, 3)
	assert.Empty(t, b.Transactions)
	assert.Equal(t, int64(500000), b.Accounts[0].Balance)
	assert.Equal(t, int64(0), b.Months[0].Categories[1].Balance)
}

func TestBuild_InjectsReservedEntities(t *testing.T) {
	res, err := Build(newTestBudget(), Options{Months: 1, Now: testNow})
	require.NoError(t, err)

	assert.Equal(t, ProgramCategoryGroupID, res.Budget.CategoryGroups[0].ID)
	assert.Equal(t, RemainingFundsCategoryID, res.Budget.Categories[0].ID)
	assert.Equal(t, ProjectedSpendingPayeeID, res.Budget.Payees[0].ID)
	for _, m := range res.Budget.Months {
		assert.Equal(t, RemainingFundsCategoryID, m.Categories[0].ID)
	}
	assert.Equal(t, RemainingFundsCategoryName, res.CategoryName(RemainingFundsCategoryID))
	assert.Equal(t, CategoryNotFoundName, res.CategoryName("nope"))
}

func TestBuild_ReservedIDCollision(t *testing.T) {
	b := newTestBudget()
	b.Payees = append(b.Payees, model.Payee{ID: ProjectedSpendingPayeeID, Name: "Impostor"})

	_, err := Build(b, Options{Months: 1, Now: testNow})
	assert.ErrorIs(t, err, ErrReservedID)
}

func TestBuild_InputErrors(t *testing.T) {
	_, err := Build(nil, Options{})
	assert.ErrorIs(t, err, ErrNilBudget)

	b := newTestBudget()
	b.Months = nil
	_, err = Build(b, Options{Months: 1, Now: testNow})
	assert.ErrorIs(t, err, ErrNoMonths)
}

func TestClampMonths(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{60, 60},
		{120, 120},
		{500, 120},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampMonths(tt.in), "ClampMonths(%d)", tt.in)
	}

	res, err := Build(newTestBudget(), Options{Months: 0, Now: testNow})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Months)
	assert.Equal(t, date(2025, time.February, 1), res.ForecastUntil)
}

func TestBuild_PastTemplateIsAdvanced(t *testing.T) {
	b := newTestBudget()
	b.Months = append(b.Months, model.Month{Month: date(2024, time.December, 1), Categories: b.Months[0].Categories})
	b.ScheduledTransactions = []model.ScheduledTransaction{
		scheduled("rent", "cat-rent", "payee-landlord", -1000, date(2024, time.December, 1), model.Monthly),
	}

	res, err := Build(b, Options{Months: 1, Now: testNow})
	require.NoError(t, err)

	ledger := res.Ledger()
	require.Len(t, ledger, 1)
	assert.Equal(t, date(2025, time.February, 1), ledger[0].Date)
}

func TestBuild_NeverRecurrenceEmitsOnce(t *testing.T) {
	b := newTestBudget()
	b.ScheduledTransactions = []model.ScheduledTransaction{
		scheduled("deposit", "cat-rent", "payee-landlord", -2500, date(2025, time.January, 20), model.Never),
	}

	res, err := Build(b, Options{Months: 6, Now: testNow})
	require.NoError(t, err)
	assert.Len(t, res.Ledger(), 1)
}

func TestBuild_EmptyPayeeResolvesToUnknown(t *testing.T) {
	b := newTestBudget()
	b.ScheduledTransactions = []model.ScheduledTransaction{
		scheduled("paycheck", "cat-tbb", "", 1000, date(2025, time.January, 12), model.Never),
		scheduled("misc", "cat-food", "", -1000, date(2025, time.January, 20), model.Never),
	}

	res, err := Build(b, Options{Months: 1, Now: testNow})
	require.NoError(t, err)

	funding := res.IncomeFundingFor("paycheck_2025-01-12")
	require.Len(t, funding, 1)
	assert.Equal(t, UnknownPayeeName, funding[0].Payee)
}

func TestBuild_SplitTransaction(t *testing.T) {
	b := newTestBudget()
	b.ScheduledTransactions = []model.ScheduledTransaction{
		scheduled("split", "split-placeholder", "payee-market", -100000, date(2025, time.January, 10), model.Monthly),
	}
	b.ScheduledSubTransactions = []model.ScheduledSubTransaction{
		{ID: "s-food", ScheduledTransactionID: "split", CategoryID: "cat-food", Amount: -30000},
		{ID: "s-rent", ScheduledTransactionID: "split", CategoryID: "cat-rent", Amount: -70000},
		{ID: "s-gone", ScheduledTransactionID: "split", CategoryID: "cat-rent", Amount: -5, Deleted: true},
	}

	res, err := Build(b, Options{Months: 1, Now: testNow})
	require.NoError(t, err)

	require.Len(t, res.Ledger(), 2)
	assert.Len(t, res.SubLedger(), 4)

	subs := res.SubTransactionsOf("split_2025-01-10")
	require.Len(t, subs, 2)
	assert.Equal(t, "s-rent_2025-01-10", subs[0].ID)
	assert.Equal(t, int64(-70000), subs[0].Amount)
	assert.Equal(t, int64(-30000), subs[1].Amount)

	jan, _ := res.Month(date(2025, time.January, 1))
	assert.Equal(t, int64(-70000), findCategory(t, jan, "cat-rent").Activity)
	assert.Equal(t, int64(-30000), findCategory(t, jan, "cat-food").Activity)
}

func TestBuild_SplitIncomeRecordsManualFunding(t *testing.T) {
	b := newTestBudget()
	b.ScheduledTransactions = []model.ScheduledTransaction{
		scheduled("bonus", "split-placeholder", "payee-employer", 10000, date(2025, time.January, 20), model.Never),
	}
	b.ScheduledSubTransactions = []model.ScheduledSubTransaction{
		{ID: "b-tbb", ScheduledTransactionID: "bonus", CategoryID: "cat-tbb", Amount: 6000},
		{ID: "b-food", ScheduledTransactionID: "bonus", CategoryID: "cat-food", Amount: 4000},
	}

	res, err := Build(b, Options{Months: 1, Now: testNow})
	require.NoError(t, err)

	funding := res.IncomeFundingFor("bonus_2025-01-20")
	require.NotEmpty(t, funding)
	assert.Equal(t, ManualFundingPayee, funding[0].Payee)
	assert.Equal(t, "cat-food", funding[0].CategoryID)
	assert.Equal(t, int64(4000), funding[0].Amount)
}

func TestBuild_MonthNotFound(t *testing.T) {
	b := newTestBudget()
	b.Months[0].Month = date(2025, time.March, 1)
	b.ScheduledTransactions = []model.ScheduledTransaction{
		scheduled("rent", "cat-rent", "payee-landlord", -100000, date(2025, time.January, 10), model.Monthly),
	}

	_, err := Build(b, Options{Months: 1, Now: testNow})
	require.ErrorIs(t, err, ErrMonthNotFound)

	var ie *IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "rent", ie.ID)
	assert.Equal(t, date(2025, time.January, 10), ie.Date)
	assert.Equal(t, model.Monthly, ie.Freq)

	name, ok := ie.Detail("account_name")
	assert.True(t, ok)
	assert.Equal(t, "Checking", name)
	group, _ := ie.Detail("category_group_name")
	assert.Equal(t, "Bills", group)
	payee, _ := ie.Detail("payee_name")
	assert.Equal(t, "Landlord", payee)
}

func TestBuild_UnresolvedAccount(t *testing.T) {
	b := newTestBudget()
	st := scheduled("rent", "cat-rent", "payee-landlord", -100000, date(2025, time.January, 10), model.Monthly)
	st.AccountID = "acc-ghost"
	b.ScheduledTransactions = []model.ScheduledTransaction{st}

	_, err := Build(b, Options{Months: 1, Now: testNow})
	require.ErrorIs(t, err, ErrUnresolvedReference)

	var ie *IntegrityError
	require.True(t, errors.As(err, &ie))
	msg, _ := ie.Detail("account")
	assert.Contains(t, msg, "acc-ghost")
}

func TestBuild_UnsupportedFrequency(t *testing.T) {
	b := newTestBudget()
	b.ScheduledTransactions = []model.ScheduledTransaction{
		scheduled("rent", "cat-rent", "payee-landlord", -100000, date(2025, time.January, 10), model.Frequency("fortnightly")),
	}

	_, err := Build(b, Options{Months: 1, Now: testNow})
	assert.ErrorIs(t, err, ErrUnsupportedFrequency)
}

func TestBuild_UnsupportedGoal(t *testing.T) {
	for _, gt := range []model.GoalType{model.GoalTargetBalance, model.GoalTargetBalanceByDate, "NEED"} {
		t.Run(string(gt), func(t *testing.T) {
			b := newTestBudget()
			b.Months[0].Categories[1].Goal = &model.Goal{
				Type:          gt,
				Target:        1000,
				CreationMonth: date(2024, time.June, 1),
			}

			_, err := Build(b, Options{Months: 1, Now: testNow})
			require.ErrorIs(t, err, ErrUnsupportedGoal)

			var ue *UnsupportedError
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, string(gt), ue.Value)
		})
	}
}

func TestBuild_GoalFundingFromBudgeted(t *testing.T) {
	b := newTestBudget()
	rent := &b.Months[0].Categories[1]
	rent.Budgeted = 600
	rent.Goal = &model.Goal{Type: model.GoalMonthlyFunding, Target: 1000, CreationMonth: date(2024, time.June, 1)}

	res, err := Build(b, Options{Months: 1, Now: testNow})
	require.NoError(t, err)

	// Goal items are never written to the ledger.
	assert.Empty(t, res.Ledger())

	baseline := res.BaselineStatus()
	require.Len(t, baseline, 4)
	want := []struct {
		day    time.Time
		funded int64
	}{
		{date(2025, time.January, 1), 500},
		{date(2025, time.January, 15), 100},
		{date(2025, time.February, 1), 500},
		{date(2025, time.February, 15), 100},
	}
	for i, w := range want {
		assert.Equal(t, w.day, baseline[i].Date)
		assert.Equal(t, int64(-500), baseline[i].Amount)
		assert.Equal(t, w.funded, baseline[i].Funded)
		assert.Equal(t, GoalPayeeName, baseline[i].PayeeName)
		assert.Equal(t, "cat-rent", baseline[i].ID)
	}
}

func TestBuild_GoalCreatedLaterIsIgnored(t *testing.T) {
	b := newTestBudget()
	b.Months[0].Categories[1].Goal = &model.Goal{Type: model.GoalMonthlyFunding, Target: 1000, CreationMonth: date(2025, time.February, 1)}

	res, err := Build(b, Options{Months: 1, Now: testNow})
	require.NoError(t, err)

	baseline := res.BaselineStatus()
	require.Len(t, baseline, 2)
	assert.Equal(t, date(2025, time.February, 1), baseline[0].Date)
}

func TestBuild_ProjectedSpending(t *testing.T) {
	newBudget := func() *model.Budget {
		b := newTestBudget()
		rent := &b.Months[0].Categories[1]
		rent.Balance = 800
		rent.Budgeted = 1000
		rent.Goal = &model.Goal{Type: model.GoalMonthlyFunding, Target: 1000, CreationMonth: date(2024, time.June, 1)}
		return b
	}
	settings := model.Settings{
		ProjectedSpending: []model.ProjectedSpendingScenario{
			{ID: "p1", CategoryID: "cat-rent", AccountID: "acc-checking", Days: []int{5, 20}, IsEnabled: true},
		},
	}

	res, err := Build(newBudget(), Options{Months: 1, Now: testNow, Settings: settings})
	require.NoError(t, err)

	ledger := res.Ledger()
	require.Len(t, ledger, 4)
	assert.Equal(t, []int64{-400, -400, 0, 0}, amounts(ledger))
	for _, tx := range ledger {
		assert.Equal(t, model.ImportProjected, tx.ImportID)
		assert.Equal(t, ProjectedSpendingPayeeID, tx.PayeeID)
		assert.Equal(t, "acc-checking", tx.AccountID)
	}
	assert.Equal(t, date(2025, time.January, 5), ledger[0].Date)
	assert.Equal(t, date(2025, time.February, 20), ledger[3].Date)

	again, err := Build(newBudget(), Options{Months: 1, Now: testNow, Settings: settings})
	require.NoError(t, err)
	for i := range ledger {
		assert.Equal(t, ledger[i].ID, again.Ledger()[i].ID)
	}
	assert.NotEqual(t, ledger[0].ID, ledger[1].ID)

	// Projected items stay out of fund status.
	for _, s := range res.BaselineStatus() {
		assert.Equal(t, GoalPayeeName, s.PayeeName)
	}
}

func TestBuild_GoalWithoutCreationMonthSkipped(t *testing.T) {
	b := newTestBudget()
	b.Months[0].Categories[1].Goal = &model.Goal{Type: model.GoalMonthlyFunding, Target: 1000}

	res, err := Build(b, Options{Months: 1, Now: testNow})
	require.NoError(t, err)
	assert.Empty(t, res.BaselineStatus())

	b = newTestBudget()
	b.Months[0].Categories[1].Goal = &model.Goal{Type: model.GoalMonthlyFunding, Target: 1000, CreationMonth: date(2024, time.June, 1)}
	res, err = Build(b, Options{Months: 1, Now: testNow})
	require.NoError(t, err)
	assert.NotEmpty(t, res.BaselineStatus())
}

func TestBuild_ProjectedSpendingUnknownAccount(t *testing.T) {
	b := newTestBudget()
	b.Months[0].Categories[1].Goal = &model.Goal{Type: model.GoalMonthlyFunding, Target: 1000, CreationMonth: date(2024, time.June, 1)}
	settings := model.Settings{
		ProjectedSpending: []model.ProjectedSpendingScenario{
			{ID: "p1", CategoryID: "cat-rent", AccountID: "acc-ghost", Days: []int{5}, IsEnabled: true},
		},
	}

	_, err := Build(b, Options{Months: 1, Now: testNow, Settings: settings})
	require.ErrorIs(t, err, ErrUnresolvedReference)

	var ie *IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "p1", ie.ID)
	msg, _ := ie.Detail("account")
	assert.Contains(t, msg, "acc-ghost")
}

func TestBuild_DisabledProjectedSpendingIgnored(t *testing.T) {
	b := newTestBudget()
	b.Months[0].Categories[1].Goal = &model.Goal{Type: model.GoalMonthlyFunding, Target: 1000, CreationMonth: date(2024, time.June, 1)}
	settings := model.Settings{
		ProjectedSpending: []model.ProjectedSpendingScenario{
			{ID: "p1", CategoryID: "cat-rent", Days: []int{5}, IsEnabled: false},
		},
	}

	res, err := Build(b, Options{Months: 1, Now: testNow, Settings: settings})
	require.NoError(t, err)
	assert.Empty(t, res.Ledger())
}

func TestBuild_OriginalBudgeted(t *testing.T) {
	b := newTestBudget()
	b.Months[0].Categories[2].Budgeted = 12345
	b.ScheduledTransactions = []model.ScheduledTransaction{
		scheduled("paycheck", "cat-tbb", "payee-employer", 200000, date(2025, time.January, 10), model.Monthly),
		scheduled("food", "cat-food", "payee-market", -50000, date(2025, time.January, 15), model.Monthly),
	}

	res, err := Build(b, Options{Months: 1, Now: testNow})
	require.NoError(t, err)

	assert.Equal(t, int64(12345), res.OriginalBudgetedFor(date(2025, time.January, 1), "cat-food"))
	assert.Equal(t, int64(0), res.OriginalBudgetedFor(date(2025, time.February, 1), "cat-food"))

	jan, _ := res.Month(date(2025, time.January, 1))
	assert.Greater(t, findCategory(t, jan, "cat-food").Budgeted, int64(12345))
}

func TestBuild_TransferMovesBothAccounts(t *testing.T) {
	b := newTestBudget()
	st := scheduled("save", "", "", -25000, date(2025, time.January, 20), model.Never)
	st.TransferAccountID = "acc-savings"
	b.ScheduledTransactions = []model.ScheduledTransaction{st}
	b.ScheduledSubTransactions = nil

	res, err := Build(b, Options{Months: 1, Now: testNow})
	require.NoError(t, err)

	assert.Equal(t, int64(475000), res.Budget.Accounts[0].Balance)
	assert.Equal(t, int64(25000), res.Budget.Accounts[1].Balance)
}

func findCategory(t *testing.T, m *model.Month, id string) model.Category {
	t.Helper()
	for _, c := range m.Categories {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("category %s not found in %s", id, m.Month.Format("2006-01"))
	return model.Category{}
}
