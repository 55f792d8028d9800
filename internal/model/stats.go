package model

import "time"

// SummaryStats holds the headline numbers of one forecast.
type SummaryStats struct {
	BudgetName    string
	CurrentMonth  time.Time
	ForecastUntil time.Time
	Months        int

	Transactions      int
	IncomeEvents      int
	ScheduledIncome   int64
	ScheduledExpenses int64
	ProjectedSpending int64

	AllocatedTotal int64 // income-driven funding, excluding the sweep
	ManualTotal    int64 // split income lines assigned straight to categories
	SweptTotal     int64 // leftovers moved into the remaining funds category

	// Obligations due in the current and following month.
	NeededSoon  int64
	FundedSoon  int64
	Underfunded int

	StartingBalance   int64 // on-budget accounts
	EndingBalance     int64
	LowestBalance     int64
	LowestBalanceDate time.Time
}

// FundedRate returns the funded share of near-term obligations in [0, 1].
func (s SummaryStats) FundedRate() float64 {
	if s.NeededSoon <= 0 {
		return 1
	}
	return float64(s.FundedSoon) / float64(s.NeededSoon)
}

// MonthStats is one forecast month's totals.
type MonthStats struct {
	Month            time.Time
	Income           int64
	Budgeted         int64
	OriginalBudgeted int64
	Activity         int64
	ToBeBudgeted     int64
	Inflow           int64
	Outflow          int64
	Transactions     int
	RemainingFunds   int64
}

// CategoryStats is one category's position in a month.
type CategoryStats struct {
	ID               string
	Name             string
	Group            string
	Budgeted         int64
	OriginalBudgeted int64
	Activity         int64
	Balance          int64
	GoalTarget       int64
	GoalType         GoalType
	Needed           int64
	Funded           int64
}

// AccountStats compares an account's balance today with its projection at
// the end of the horizon.
type AccountStats struct {
	ID        string
	Name      string
	Type      string
	OnBudget  bool
	Starting  int64
	Projected int64
}

// Change returns the projected movement of the balance.
func (a AccountStats) Change() int64 {
	return a.Projected - a.Starting
}

// FundingStats explains where one paycheck went.
type FundingStats struct {
	TransactionID string
	Date          time.Time
	Payee         string
	Account       string
	Amount        int64
	Allocated     int64
	Manual        int64
	Swept         int64
	Items         []FundItem
}

// DailyStats is the forecast cash flow of one day.
type DailyStats struct {
	Date    time.Time
	Inflow  int64
	Outflow int64
	Balance int64 // running on-budget balance at end of day
}

// Net returns inflow plus (negative) outflow.
func (d DailyStats) Net() int64 {
	return d.Inflow + d.Outflow
}

// LedgerEntry is a forecast transaction resolved for display.
type LedgerEntry struct {
	ID        string
	Date      time.Time
	Account   string
	Payee     string
	Category  string
	Memo      string
	Amount    int64
	Projected bool
	Split     bool
	Balance   int64 // running balance of the entry's account
}
