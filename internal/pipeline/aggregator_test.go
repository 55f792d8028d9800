package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/envcast/internal/forecast"
	"github.com/theirongolddev/envcast/internal/model"
)

var testNow = time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

// testBudget has a paycheck that covers two rent payments with money to
// spare, plus a monthly transfer to savings.
func testBudget() *model.Budget {
	cats := []model.Category{
		{ID: "tbb", GroupID: "g-in", Name: "Inflow: Ready to Assign"},
		{ID: "rent", GroupID: "g-bills", Name: "Rent"},
		{ID: "old", GroupID: "g-bills", Name: "Old", Hidden: true},
	}
	return &model.Budget{
		ID:       "b1",
		Name:     "Household",
		FilePath: "/data/household.json",
		Accounts: []model.Account{
			{ID: "chk", Name: "Checking", Type: "checking", OnBudget: true, Balance: 100000},
			{ID: "sav", Name: "Savings", Type: "savings", OnBudget: false, Balance: 0},
			{ID: "gone", Name: "Closed", Closed: true},
		},
		Categories: cats,
		CategoryGroups: []model.CategoryGroup{
			{ID: "g-in", Name: "Inflow"},
			{ID: "g-bills", Name: "Bills"},
		},
		Payees: []model.Payee{{ID: "emp", Name: "Employer"}, {ID: "lord", Name: "Landlord"}},
		Months: []model.Month{{Month: day(time.January, 1), Categories: append([]model.Category(nil), cats...)}},
		ScheduledTransactions: []model.ScheduledTransaction{
			{ID: "pay", AccountID: "chk", CategoryID: "tbb", PayeeID: "emp", Amount: 300000, DateNext: day(time.January, 12), Frequency: model.Never},
			{ID: "rent", AccountID: "chk", CategoryID: "rent", PayeeID: "lord", Amount: -100000, DateNext: day(time.January, 20), Frequency: model.Monthly},
			{ID: "save", AccountID: "chk", TransferAccountID: "sav", Amount: -20000, DateNext: day(time.January, 25), Frequency: model.Never},
		},
	}
}

func buildTest(t *testing.T) *forecast.Result {
	t.Helper()
	res, err := forecast.Build(testBudget(), forecast.Options{Months: 1, Now: testNow})
	if err != nil {
		t.Fatalf("forecast.Build: %v", err)
	}
	return res
}

func TestSummarize(t *testing.T) {
	s := Summarize(buildTest(t))

	if s.Transactions != 4 {
		t.Errorf("Transactions = %d, want 4", s.Transactions)
	}
	if s.IncomeEvents != 1 || s.ScheduledIncome != 300000 {
		t.Errorf("income = %d events / %d, want 1 / 300000", s.IncomeEvents, s.ScheduledIncome)
	}
	if s.ScheduledExpenses != -220000 {
		t.Errorf("ScheduledExpenses = %d, want -220000", s.ScheduledExpenses)
	}
	if s.AllocatedTotal != 200000 {
		t.Errorf("AllocatedTotal = %d, want 200000", s.AllocatedTotal)
	}
	if s.SweptTotal != 100000 {
		t.Errorf("SweptTotal = %d, want 100000", s.SweptTotal)
	}
	if s.Underfunded != 1 {
		t.Errorf("Underfunded = %d, want 1 (the uncategorized transfer)", s.Underfunded)
	}
	if s.StartingBalance != 100000 {
		t.Errorf("StartingBalance = %d, want 100000", s.StartingBalance)
	}
	if s.EndingBalance != 180000 {
		t.Errorf("EndingBalance = %d, want 180000", s.EndingBalance)
	}
	if s.LowestBalance != 100000 {
		t.Errorf("LowestBalance = %d, want 100000", s.LowestBalance)
	}
}

func TestAggregateAccounts(t *testing.T) {
	accts := AggregateAccounts(buildTest(t))
	if len(accts) != 2 {
		t.Fatalf("accounts = %d, want 2 (closed skipped)", len(accts))
	}
	chk, sav := accts[0], accts[1]
	if chk.Starting != 100000 || chk.Projected != 180000 {
		t.Errorf("checking = %d -> %d, want 100000 -> 180000", chk.Starting, chk.Projected)
	}
	if sav.Starting != 0 || sav.Projected != 20000 {
		t.Errorf("savings = %d -> %d, want 0 -> 20000", sav.Starting, sav.Projected)
	}
	if chk.Change() != 80000 {
		t.Errorf("Change = %d, want 80000", chk.Change())
	}
}

func TestAggregateMonths(t *testing.T) {
	months := AggregateMonths(buildTest(t))
	if len(months) != 2 {
		t.Fatalf("months = %d, want 2", len(months))
	}
	jan := months[0]
	if !jan.Month.Equal(day(time.January, 1)) {
		t.Errorf("first month = %v, want January", jan.Month)
	}
	if jan.Transactions != 3 {
		t.Errorf("Jan transactions = %d, want 3", jan.Transactions)
	}
	if jan.Inflow != 300000 || jan.Outflow != -120000 {
		t.Errorf("Jan flow = %d / %d, want 300000 / -120000", jan.Inflow, jan.Outflow)
	}
	if jan.RemainingFunds != 100000 {
		t.Errorf("Jan RemainingFunds = %d, want 100000", jan.RemainingFunds)
	}
	if months[1].Transactions != 1 {
		t.Errorf("Feb transactions = %d, want 1", months[1].Transactions)
	}
}

func TestAggregateCategories(t *testing.T) {
	cats := AggregateCategories(buildTest(t), day(time.January, 1))

	var rent *model.CategoryStats
	for i := range cats {
		if cats[i].Name == "Old" {
			t.Error("hidden category reported")
		}
		if cats[i].ID == "rent" {
			rent = &cats[i]
		}
	}
	if rent == nil {
		t.Fatal("Rent missing")
	}
	if rent.Group != "Bills" {
		t.Errorf("Group = %q, want Bills", rent.Group)
	}
	if rent.Needed != 100000 || rent.Funded != 100000 {
		t.Errorf("Rent need/funded = %d/%d, want 100000/100000", rent.Needed, rent.Funded)
	}
	if rent.OriginalBudgeted != 0 || rent.Budgeted != 100000 {
		t.Errorf("Rent budgeted = %d (was %d), want 100000 (was 0)", rent.Budgeted, rent.OriginalBudgeted)
	}

	if AggregateCategories(buildTest(t), day(time.December, 1).AddDate(-1, 0, 0)) != nil {
		t.Error("expected nil for a month outside the forecast")
	}
}

func TestAggregateFunding(t *testing.T) {
	funding := AggregateFunding(buildTest(t))
	if len(funding) != 1 {
		t.Fatalf("funding = %d, want 1", len(funding))
	}
	f := funding[0]
	if f.Payee != "Employer" || f.Account != "Checking" {
		t.Errorf("paycheck = %q into %q", f.Payee, f.Account)
	}
	if f.Allocated != 200000 || f.Swept != 100000 || f.Manual != 0 {
		t.Errorf("allocated/swept/manual = %d/%d/%d, want 200000/100000/0", f.Allocated, f.Swept, f.Manual)
	}
	if len(f.Items) != 3 {
		t.Errorf("items = %d, want 3", len(f.Items))
	}
}

func TestAggregateDays(t *testing.T) {
	days := AggregateDays(buildTest(t))
	if len(days) == 0 {
		t.Fatal("no days")
	}
	if !days[0].Date.Equal(day(time.January, 10)) {
		t.Errorf("first day = %v, want Jan 10", days[0].Date)
	}
	last := days[len(days)-1]
	if !last.Date.Equal(day(time.February, 20)) {
		t.Errorf("last day = %v, want Feb 20", last.Date)
	}
	if last.Balance != 180000 {
		t.Errorf("final balance = %d, want 180000", last.Balance)
	}

	for _, d := range days {
		if d.Date.Equal(day(time.January, 25)) && d.Outflow != -20000 {
			t.Errorf("Jan 25 outflow = %d, want -20000 (transfer off budget)", d.Outflow)
		}
		if d.Date.Equal(day(time.January, 11)) && d.Net() != 0 {
			t.Errorf("Jan 11 net = %d, want 0", d.Net())
		}
	}
}

func TestLedgerEntries(t *testing.T) {
	entries := LedgerEntries(buildTest(t))
	if len(entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(entries))
	}
	if entries[0].Payee != "Employer" || entries[0].Balance != 400000 {
		t.Errorf("first = %q balance %d, want Employer 400000", entries[0].Payee, entries[0].Balance)
	}
	if entries[1].Category != "Rent" {
		t.Errorf("Category = %q, want Rent", entries[1].Category)
	}
	if entries[2].Payee != "Transfer: Savings" {
		t.Errorf("Payee = %q, want Transfer: Savings", entries[2].Payee)
	}
	if entries[3].Balance != 180000 {
		t.Errorf("final balance = %d, want 180000", entries[3].Balance)
	}

	feb := FilterLedger(entries, day(time.February, 1), time.Time{})
	if len(feb) != 1 {
		t.Errorf("February entries = %d, want 1", len(feb))
	}
	jan := FilterLedger(entries, time.Time{}, day(time.February, 1))
	if len(jan) != 3 {
		t.Errorf("January entries = %d, want 3", len(jan))
	}
}
