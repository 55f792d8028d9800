// Package forecast projects an envelope budget forward in time.
//
// Build clones the caller's snapshot, expands recurring transactions and
// monthly funding goals into dated items, applies the user's scenarios, and
// simulates how existing balances, budgeted amounts and future income fund
// each upcoming obligation. The result is a forecast ledger, per-category
// balances for every month of the horizon, and funding records that explain
// where each paycheck went.
package forecast

import (
	"fmt"
	"time"

	"github.com/theirongolddev/envcast/internal/common"
	"github.com/theirongolddev/envcast/internal/model"
)

// Horizon bounds, in months.
const (
	MinMonths = 1
	MaxMonths = 120
)

// Reserved bookkeeping ids injected into every forecast.
const (
	RemainingFundsCategoryID = "03a612f6-5d66-4e77-807d-123cad5956e9"
	ProjectedSpendingPayeeID = "d32f86cf-f480-451f-80c8-8106dc4ecc46"
	ProgramCategoryGroupID   = "4faac58a-7a62-448c-b56c-6c722c6cb6b7"

	RemainingFundsCategoryName = "Remaining Money"
	ProjectedSpendingPayeeName = "Projected Spending"
	ProgramCategoryGroupName   = "envcast"
)

// Display names used for synthetic payees and missing references.
const (
	GoalPayeeName        = "Monthly Funding Goal"
	ManualFundingPayee   = "Manual Funding"
	UnknownPayeeName     = "[Unknown Payee]"
	CategoryNotFoundName = "[Category Not Found]"
	splitCategoryName    = "Split"
	remainingFundsNote   = "Collects money left over after fully funding upcoming categories. Exists only in the forecast."
)

// Options configures one build.
type Options struct {
	// Months is the horizon length. It is clamped to [MinMonths, MaxMonths].
	Months int
	// Now fixes "today". Zero means time.Now().
	Now time.Time
	// Settings carries the user's scenarios.
	Settings model.Settings
	// Logger receives per-phase debug lines. Nil is silent.
	Logger *common.Logger
}

// Result is the read-only outcome of a build.
type Result struct {
	Budget *model.Budget

	Now           time.Time
	CurrentMonth  time.Time
	ForecastUntil time.Time
	Months        int

	// LedgerStart indexes the first forecast entry in Budget.Transactions;
	// SubLedgerStart does the same for Budget.SubTransactions.
	LedgerStart    int
	SubLedgerStart int

	// IncomeFunding maps an income transaction id to its allocations.
	IncomeFunding map[string][]model.FundItem
	// FundStatus maps a month key (see MonthKey) or an income transaction
	// id to the funding snapshot taken at that point.
	FundStatus map[string][]model.FundStatus
	// OriginalBudgeted maps month key -> category id -> budgeted amount
	// before the forecast ran.
	OriginalBudgeted map[string]map[string]int64
}

// MonthKey formats a month for use as a FundStatus/OriginalBudgeted key.
func MonthKey(t time.Time) string {
	return model.MonthStart(t).Format(time.DateOnly)
}

// ClampMonths bounds a requested horizon to the supported range.
func ClampMonths(n int) int {
	if n < MinMonths {
		return MinMonths
	}
	if n > MaxMonths {
		return MaxMonths
	}
	return n
}

// Build runs a full forecast over a private copy of budget.
func Build(budget *model.Budget, opts Options) (*Result, error) {
	if budget == nil {
		return nil, ErrNilBudget
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	months := ClampMonths(opts.Months)

	log := opts.Logger
	if log == nil {
		log = common.NewSilentLogger()
	}

	bd := newBuild(budget.Clone(), now, months, opts.Settings, log)
	if err := bd.run(); err != nil {
		return nil, err
	}
	return bd.result, nil
}

// Ledger returns the forecast transactions in materialization order.
func (r *Result) Ledger() []model.Transaction {
	if r.LedgerStart > len(r.Budget.Transactions) {
		return nil
	}
	return r.Budget.Transactions[r.LedgerStart:]
}

// SubLedger returns the split lines of forecast transactions.
func (r *Result) SubLedger() []model.SubTransaction {
	if r.SubLedgerStart > len(r.Budget.SubTransactions) {
		return nil
	}
	return r.Budget.SubTransactions[r.SubLedgerStart:]
}

// SubTransactionsOf returns the forecast split lines of one transaction.
func (r *Result) SubTransactionsOf(txID string) []model.SubTransaction {
	var out []model.SubTransaction
	for _, s := range r.SubLedger() {
		if s.TransactionID == txID {
			out = append(out, s)
		}
	}
	return out
}

// IncomeFundingFor returns the allocations made from one income transaction.
func (r *Result) IncomeFundingFor(txID string) []model.FundItem {
	return r.IncomeFunding[txID]
}

// FundStatusFor returns the snapshot recorded under key, which is either a
// MonthKey or an income transaction id.
func (r *Result) FundStatusFor(key string) []model.FundStatus {
	return r.FundStatus[key]
}

// BaselineStatus returns the snapshot taken before any income was allocated.
func (r *Result) BaselineStatus() []model.FundStatus {
	return r.FundStatus[MonthKey(r.CurrentMonth)]
}

// OriginalBudgetedFor returns the pre-forecast budgeted amount of a category
// in a month, or zero when the month or category was not in the snapshot.
func (r *Result) OriginalBudgetedFor(month time.Time, categoryID string) int64 {
	return r.OriginalBudgeted[MonthKey(month)][categoryID]
}

// Month returns the forecast copy of a month.
func (r *Result) Month(t time.Time) (*model.Month, bool) {
	key := model.MonthStart(t)
	for i := range r.Budget.Months {
		if r.Budget.Months[i].Month.Equal(key) {
			return &r.Budget.Months[i], true
		}
	}
	return nil, false
}

// CategoryName resolves a category id against the master category list.
func (r *Result) CategoryName(id string) string {
	for _, c := range r.Budget.Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return CategoryNotFoundName
}

// PayeeName resolves a payee id.
func (r *Result) PayeeName(id string) string {
	for _, p := range r.Budget.Payees {
		if p.ID == id {
			return p.Name
		}
	}
	return UnknownPayeeName
}

// AccountName resolves an account id, returning the id itself when unknown.
func (r *Result) AccountName(id string) string {
	for _, a := range r.Budget.Accounts {
		if a.ID == id {
			return a.Name
		}
	}
	return id
}

// IsIncomeKey reports whether a FundStatus key names an income transaction
// rather than a month.
func (r *Result) IsIncomeKey(key string) bool {
	_, err := time.Parse(time.DateOnly, key)
	return err != nil
}

func (r *Result) String() string {
	return fmt.Sprintf("forecast %s: %d months from %s, %d transactions",
		r.Budget.Name, r.Months, r.CurrentMonth.Format("Jan 2006"), len(r.Ledger()))
}
