package model

import "time"

// Import markers stamped on forecast transactions.
const (
	ImportScheduled = "scheduled"
	ImportProjected = "projected"
)

// FundItem records one funding allocation: which category received how much,
// for which dated obligation, attributed to which payee.
type FundItem struct {
	CategoryID   string
	CategoryName string
	Date         time.Time
	Payee        string
	Amount       int64
}

// FundStatus compares the need of one upcoming obligation with what has been
// funded so far. Amount is negative; Funded counts up toward -Amount.
type FundStatus struct {
	ID           string
	CategoryName string
	PayeeName    string
	Date         time.Time
	Amount       int64
	Funded       int64
}

// Percent returns the funded share of the obligation in [0, 1].
func (s FundStatus) Percent() float64 {
	if s.Amount >= 0 {
		return 1
	}
	p := float64(s.Funded) / float64(-s.Amount)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}
