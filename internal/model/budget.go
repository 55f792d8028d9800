// Package model defines domain types for envcast budgets and forecasts.
package model

import "time"

// Account is a budget account. Balances are in milliunits.
type Account struct {
	ID               string
	Name             string
	Type             string
	Note             string
	OnBudget         bool
	Closed           bool
	Deleted          bool
	Balance          int64
	ClearedBalance   int64
	UnclearedBalance int64
	TransferPayeeID  string
}

// GoalType identifies the funding rule attached to a category.
type GoalType string

// Goal types reported by the budgeting service.
const (
	GoalMonthlyFunding      GoalType = "MF"
	GoalTargetBalance       GoalType = "TB"
	GoalTargetBalanceByDate GoalType = "TBD"
)

// Goal is a category funding target.
type Goal struct {
	Type               GoalType
	Target             int64
	CreationMonth      time.Time
	TargetMonth        time.Time
	PercentageComplete int
}

// Category is one budget envelope. The budget holds one master copy and
// every Month holds its own per-month copy with month-specific figures.
type Category struct {
	ID              string
	GroupID         string
	OriginalGroupID string
	Name            string
	Note            string
	Hidden          bool
	Deleted         bool
	Budgeted        int64
	Activity        int64
	Balance         int64
	Goal            *Goal
}

// CategoryGroup groups categories for display.
type CategoryGroup struct {
	ID      string
	Name    string
	Hidden  bool
	Deleted bool
}

// Payee is a transaction counterparty.
type Payee struct {
	ID                string
	Name              string
	TransferAccountID string
	Deleted           bool
}

// PayeeLocation is a geotag recorded for a payee.
type PayeeLocation struct {
	ID        string
	PayeeID   string
	Latitude  string
	Longitude string
	Deleted   bool
}

// Month is one calendar month of the budget. Month.Month is always the
// first day of the month at midnight UTC.
type Month struct {
	Month        time.Time
	Note         string
	Income       int64
	Budgeted     int64
	Activity     int64
	ToBeBudgeted int64
	AgeOfMoney   *int
	Categories   []Category
}

// ScheduledTransaction is a recurring transaction template.
type ScheduledTransaction struct {
	ID                string
	AccountID         string
	CategoryID        string
	PayeeID           string
	TransferAccountID string
	Memo              string
	FlagColor         string
	Amount            int64
	DateFirst         time.Time
	DateNext          time.Time
	Frequency         Frequency
	Deleted           bool
}

// ScheduledSubTransaction is one split line of a scheduled transaction.
type ScheduledSubTransaction struct {
	ID                     string
	ScheduledTransactionID string
	CategoryID             string
	PayeeID                string
	TransferAccountID      string
	Memo                   string
	Amount                 int64
	Deleted                bool
}

// ClearedStatus is the reconciliation state of a transaction.
type ClearedStatus string

// Cleared states.
const (
	Uncleared  ClearedStatus = "uncleared"
	Cleared    ClearedStatus = "cleared"
	Reconciled ClearedStatus = "reconciled"
)

// Transaction is a posted (or forecast) ledger entry.
type Transaction struct {
	ID                    string
	AccountID             string
	CategoryID            string
	PayeeID               string
	TransferAccountID     string
	TransferTransactionID string
	Memo                  string
	FlagColor             string
	ImportID              string
	Amount                int64
	Date                  time.Time
	Cleared               ClearedStatus
	Approved              bool
	Deleted               bool
}

// SubTransaction is one split line of a transaction.
type SubTransaction struct {
	ID                string
	TransactionID     string
	CategoryID        string
	PayeeID           string
	TransferAccountID string
	Memo              string
	Amount            int64
	Deleted           bool
}

// CurrencyFormat describes how the budget displays money.
type CurrencyFormat struct {
	ISOCode          string
	ExampleFormat    string
	DecimalDigits    int
	DecimalSeparator string
	GroupSeparator   string
	CurrencySymbol   string
	SymbolFirst      bool
	DisplaySymbol    bool
}

// Budget is a full snapshot of one envelope budget.
type Budget struct {
	ID             string
	Name           string
	FilePath       string
	FirstMonth     string
	LastMonth      string
	DateFormat     string
	LastModifiedOn time.Time
	CurrencyFormat CurrencyFormat

	Accounts                 []Account
	Categories               []Category
	CategoryGroups           []CategoryGroup
	Payees                   []Payee
	PayeeLocations           []PayeeLocation
	Months                   []Month
	ScheduledTransactions    []ScheduledTransaction
	ScheduledSubTransactions []ScheduledSubTransaction
	Transactions             []Transaction
	SubTransactions          []SubTransaction
}

// MonthStart normalizes t to the first day of its month at midnight UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DayStart normalizes t to midnight UTC of the same calendar day.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Clone returns a deep copy of the budget. The forecast engine mutates its
// copy freely, so callers keep their snapshot intact.
func (b *Budget) Clone() *Budget {
	if b == nil {
		return nil
	}
	c := *b
	c.Accounts = append([]Account(nil), b.Accounts...)
	c.Categories = cloneCategories(b.Categories)
	c.CategoryGroups = append([]CategoryGroup(nil), b.CategoryGroups...)
	c.Payees = append([]Payee(nil), b.Payees...)
	c.PayeeLocations = append([]PayeeLocation(nil), b.PayeeLocations...)
	c.ScheduledTransactions = append([]ScheduledTransaction(nil), b.ScheduledTransactions...)
	c.ScheduledSubTransactions = append([]ScheduledSubTransaction(nil), b.ScheduledSubTransactions...)
	c.Transactions = append([]Transaction(nil), b.Transactions...)
	c.SubTransactions = append([]SubTransaction(nil), b.SubTransactions...)

	c.Months = make([]Month, len(b.Months))
	for i, m := range b.Months {
		c.Months[i] = m.Clone()
	}
	return &c
}

// Clone returns a deep copy of the month and its category copies.
func (m Month) Clone() Month {
	c := m
	if m.AgeOfMoney != nil {
		v := *m.AgeOfMoney
		c.AgeOfMoney = &v
	}
	c.Categories = cloneCategories(m.Categories)
	return c
}

func cloneCategories(in []Category) []Category {
	if in == nil {
		return nil
	}
	out := make([]Category, len(in))
	for i, cat := range in {
		out[i] = cat
		if cat.Goal != nil {
			g := *cat.Goal
			out[i].Goal = &g
		}
	}
	return out
}
