package model

import "time"

// TransactionScenario adjusts every occurrence of one scheduled transaction
// from BeginDate on, re-applying itself at its own frequency.
//
// When IsExactAmount is set, Amount is a milliunit delta added per step.
// Otherwise Amount is a per-mille change: 50 means +5%, -100 means -10%.
type TransactionScenario struct {
	ID                     string
	ScheduledTransactionID string
	BeginDate              time.Time
	EndDate                time.Time
	Frequency              Frequency
	Amount                 int64
	IsExactAmount          bool
	IsEnabled              bool
}

// SubTransactionScenario is a TransactionScenario aimed at one split line.
type SubTransactionScenario struct {
	ID                        string
	ScheduledSubTransactionID string
	BeginDate                 time.Time
	EndDate                   time.Time
	Frequency                 Frequency
	Amount                    int64
	IsExactAmount             bool
	IsEnabled                 bool
}

// ProjectedSpendingScenario spreads estimated, unscheduled spending for a
// category across fixed days of each month.
type ProjectedSpendingScenario struct {
	ID            string
	CategoryID    string
	AccountID     string
	Days          []int
	Amount        int64
	IsExactAmount bool
	IsEnabled     bool
}

// Settings bundles the user-defined scenarios for one forecast build.
type Settings struct {
	TransactionScenarios    []TransactionScenario
	SubTransactionScenarios []SubTransactionScenario
	ProjectedSpending       []ProjectedSpendingScenario
}

// ProjectedFor returns the enabled projected-spending rule for a category.
func (s Settings) ProjectedFor(categoryID string) (ProjectedSpendingScenario, bool) {
	for _, p := range s.ProjectedSpending {
		if p.IsEnabled && p.CategoryID == categoryID {
			return p, true
		}
	}
	return ProjectedSpendingScenario{}, false
}
