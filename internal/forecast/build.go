package forecast

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/envcast/internal/common"
	"github.com/theirongolddev/envcast/internal/model"
)

// buildState tracks progress through a build. Transitions are strictly
// linear; a stage that finds the build in any other state refuses to run.
type buildState uint8

const (
	stateNew buildState = iota
	stateExpanded
	stateScenarioAdjusted
	stateInitialFunded
	stateMaterialized
)

var stateNames = [...]string{"not-yet-expanded", "expanded", "scenario-adjusted", "initial-funded", "materialized"}

func (s buildState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// build owns every piece of mutable state for one forecast run.
type build struct {
	b        *model.Budget
	settings model.Settings
	log      *common.Logger
	state    buildState

	today         time.Time
	currentMonth  time.Time
	forecastUntil time.Time
	incomeEnd     time.Time
	expenseEnd    time.Time
	months        int

	// id-indexed lookups into b. monthIdx and monthCats are rebuilt after
	// month expansion because expansion prepends.
	monthIdx   map[time.Time]int
	monthCats  []map[string]int
	categories map[string]int
	groups     map[string]int
	payees     map[string]int
	accounts   map[string]int

	// items is the working arena, cleared when the build finishes.
	items    []*item
	parents  map[string]*item
	children map[string][]*item

	result *Result
}

func newBuild(b *model.Budget, now time.Time, months int, settings model.Settings, log *common.Logger) *build {
	today := model.DayStart(now)
	current := model.MonthStart(today)
	until := current.AddDate(0, months, 0)
	return &build{
		b:             b,
		settings:      settings,
		log:           log,
		today:         today,
		currentMonth:  current,
		forecastUntil: until,
		incomeEnd:     until,
		expenseEnd:    until.AddDate(0, 1, 0),
		months:        months,
	}
}

func (bd *build) advance(from, to buildState) error {
	if bd.state != from || to != from+1 {
		return fmt.Errorf("%w: cannot move from %s to %s (at %s)", ErrInvalidState, from, to, bd.state)
	}
	bd.state = to
	return nil
}

func (bd *build) run() error {
	if err := bd.normalize(); err != nil {
		return err
	}
	if err := bd.expandMonths(); err != nil {
		return err
	}
	bd.index()

	scheduled, err := bd.expandScheduled()
	if err != nil {
		return err
	}
	goals, err := bd.expandGoals()
	if err != nil {
		return err
	}
	if err := bd.orderItems(append(scheduled, goals...)); err != nil {
		return err
	}
	if err := bd.advance(stateNew, stateExpanded); err != nil {
		return err
	}
	bd.log.Debug().
		Int("scheduled", len(scheduled)).
		Int("goal", len(goals)).
		Time("until", bd.forecastUntil).
		Msg("forecast items expanded")

	applied, err := bd.applyScenarios()
	if err != nil {
		return err
	}
	if err := bd.advance(stateExpanded, stateScenarioAdjusted); err != nil {
		return err
	}
	bd.log.Debug().Int("steps", applied).Msg("scenarios applied")

	if err := bd.initialFunding(); err != nil {
		return err
	}
	if err := bd.advance(stateScenarioAdjusted, stateInitialFunded); err != nil {
		return err
	}

	bd.result.FundStatus[MonthKey(bd.currentMonth)] = bd.fundStatus(bd.currentMonth)
	if err := bd.materialize(); err != nil {
		return err
	}
	if err := bd.advance(stateInitialFunded, stateMaterialized); err != nil {
		return err
	}
	bd.log.Debug().
		Int("transactions", len(bd.result.Ledger())).
		Int("incomes", len(bd.result.IncomeFunding)).
		Msg("forecast materialized")

	bd.items, bd.parents, bd.children = nil, nil, nil
	return nil
}

// normalize sorts months newest first, records the original budgeted
// amounts, and injects the reserved bookkeeping entities.
func (bd *build) normalize() error {
	b := bd.b
	for i := range b.Months {
		b.Months[i].Month = model.MonthStart(b.Months[i].Month)
	}
	sort.SliceStable(b.Months, func(i, j int) bool {
		return b.Months[i].Month.After(b.Months[j].Month)
	})

	original := make(map[string]map[string]int64, len(b.Months))
	for _, m := range b.Months {
		cats := make(map[string]int64, len(m.Categories))
		for _, c := range m.Categories {
			cats[c.ID] = c.Budgeted
		}
		original[MonthKey(m.Month)] = cats
	}

	for _, g := range b.CategoryGroups {
		if g.ID == ProgramCategoryGroupID {
			return fmt.Errorf("%w: category group %s", ErrReservedID, g.ID)
		}
	}
	for _, c := range b.Categories {
		if c.ID == RemainingFundsCategoryID {
			return fmt.Errorf("%w: category %s", ErrReservedID, c.ID)
		}
	}
	for _, p := range b.Payees {
		if p.ID == ProjectedSpendingPayeeID {
			return fmt.Errorf("%w: payee %s", ErrReservedID, p.ID)
		}
	}

	b.CategoryGroups = append([]model.CategoryGroup{{
		ID:   ProgramCategoryGroupID,
		Name: ProgramCategoryGroupName,
	}}, b.CategoryGroups...)
	b.Categories = append([]model.Category{remainingFundsCategory()}, b.Categories...)
	for i := range b.Months {
		b.Months[i].Categories = append([]model.Category{remainingFundsCategory()}, b.Months[i].Categories...)
	}
	b.Payees = append([]model.Payee{{
		ID:   ProjectedSpendingPayeeID,
		Name: ProjectedSpendingPayeeName,
	}}, b.Payees...)

	bd.result = &Result{
		Budget:           b,
		Now:              bd.today,
		CurrentMonth:     bd.currentMonth,
		ForecastUntil:    bd.forecastUntil,
		Months:           bd.months,
		LedgerStart:      len(b.Transactions),
		SubLedgerStart:   len(b.SubTransactions),
		IncomeFunding:    make(map[string][]model.FundItem),
		FundStatus:       make(map[string][]model.FundStatus),
		OriginalBudgeted: original,
	}
	return nil
}

func remainingFundsCategory() model.Category {
	return model.Category{
		ID:      RemainingFundsCategoryID,
		GroupID: ProgramCategoryGroupID,
		Name:    RemainingFundsCategoryName,
		Note:    remainingFundsNote,
	}
}

// index builds the id lookups used by every later stage.
func (bd *build) index() {
	b := bd.b
	bd.monthIdx = make(map[time.Time]int, len(b.Months))
	bd.monthCats = make([]map[string]int, len(b.Months))
	for i, m := range b.Months {
		bd.monthIdx[m.Month] = i
		cats := make(map[string]int, len(m.Categories))
		for j, c := range m.Categories {
			cats[c.ID] = j
		}
		bd.monthCats[i] = cats
	}

	bd.categories = make(map[string]int, len(b.Categories))
	for i, c := range b.Categories {
		bd.categories[c.ID] = i
	}
	bd.groups = make(map[string]int, len(b.CategoryGroups))
	for i, g := range b.CategoryGroups {
		bd.groups[g.ID] = i
	}
	bd.payees = make(map[string]int, len(b.Payees))
	for i, p := range b.Payees {
		bd.payees[p.ID] = i
	}
	bd.accounts = make(map[string]int, len(b.Accounts))
	for i, a := range b.Accounts {
		bd.accounts[a.ID] = i
	}
}

// month returns the forecast month containing t.
func (bd *build) month(t time.Time) (*model.Month, int, bool) {
	i, ok := bd.monthIdx[model.MonthStart(t)]
	if !ok {
		return nil, -1, false
	}
	return &bd.b.Months[i], i, true
}

// monthCategory returns a category's copy within month index mi.
func (bd *build) monthCategory(mi int, categoryID string) (*model.Category, bool) {
	j, ok := bd.monthCats[mi][categoryID]
	if !ok {
		return nil, false
	}
	return &bd.b.Months[mi].Categories[j], true
}

func (bd *build) category(id string) (*model.Category, bool) {
	i, ok := bd.categories[id]
	if !ok {
		return nil, false
	}
	return &bd.b.Categories[i], true
}

func (bd *build) payeeName(id string) string {
	if i, ok := bd.payees[id]; ok {
		return bd.b.Payees[i].Name
	}
	return UnknownPayeeName
}

// toBeBudgetedNames are the names the budgeting service has used for the
// inflow category that feeds "to be budgeted".
var toBeBudgetedNames = []string{
	"To be Budgeted",
	"Inflow: To be Budgeted",
	"Ready to Assign",
	"Inflow: Ready to Assign",
}

func isToBeBudgeted(name string) bool {
	for _, n := range toBeBudgetedNames {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// referenceDetails collects best-effort names for a template's account,
// category (with its group) and payee.
func (bd *build) referenceDetails(accountID, categoryID, payeeID string) []Detail {
	var out []Detail
	if i, ok := bd.accounts[accountID]; ok {
		out = append(out, Detail{"account_id", accountID}, Detail{"account_name", bd.b.Accounts[i].Name})
	} else {
		out = append(out, Detail{"account", accountID + " was not found"})
	}
	if cat, ok := bd.category(categoryID); ok {
		out = append(out, Detail{"category_id", categoryID}, Detail{"category_name", cat.Name})
		if gi, ok := bd.groups[cat.GroupID]; ok {
			out = append(out, Detail{"category_group_name", bd.b.CategoryGroups[gi].Name})
		} else {
			out = append(out, Detail{"category_group", cat.GroupID + " was not found"})
		}
	} else {
		out = append(out, Detail{"category", categoryID + " was not found"})
	}
	if i, ok := bd.payees[payeeID]; ok {
		out = append(out, Detail{"payee_id", payeeID}, Detail{"payee_name", bd.b.Payees[i].Name})
	} else {
		out = append(out, Detail{"payee", payeeID + " was not found"})
	}
	return out
}
