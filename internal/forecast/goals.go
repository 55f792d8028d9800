package forecast

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/envcast/internal/model"
)

// goalDays are the days of month a monthly funding goal is spread over.
var goalDays = []int{1, 15}

// projectedNamespace seeds the deterministic ids of projected-spending
// occurrences so rebuilding the same snapshot yields the same ledger ids.
var projectedNamespace = uuid.MustParse("7f1c2d9e-3b4a-4c5d-8e6f-a1b2c3d4e5f6")

// splitEvenly divides total across n shares, flooring each share and
// giving the remainder to the last one.
func splitEvenly(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	share := total / int64(n)
	if total%int64(n) != 0 && total < 0 {
		share--
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = share
	}
	out[n-1] = total - share*int64(n-1)
	return out
}

// expandGoals emits goal-funding items for every monthly funding goal in
// every month from the current month up to the expense horizon, plus
// projected-spending items for categories with an enabled rule.
func (bd *build) expandGoals() ([]*item, error) {
	var out []*item
	for m := bd.currentMonth; m.Before(bd.expenseEnd); m = m.AddDate(0, 1, 0) {
		_, mi, ok := bd.month(m)
		if !ok {
			return nil, &IntegrityError{
				Err:     ErrMonthNotFound,
				Message: "could not find goal month",
				Date:    m,
			}
		}
		for _, cat := range bd.b.Months[mi].Categories {
			if cat.Goal == nil || cat.Deleted {
				continue
			}
			if cat.Goal.CreationMonth.IsZero() || model.MonthStart(cat.Goal.CreationMonth).After(m) {
				continue
			}
			items, err := bd.goalItems(m, cat)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
		}
	}
	return out, nil
}

func (bd *build) goalItems(month time.Time, cat model.Category) ([]*item, error) {
	switch cat.Goal.Type {
	case model.GoalMonthlyFunding:
	case model.GoalTargetBalance, model.GoalTargetBalanceByDate:
		return nil, &UnsupportedError{
			Err:     ErrUnsupportedGoal,
			Feature: "goal type",
			Value:   string(cat.Goal.Type),
			Context: fmt.Sprintf("category %s (%s)", cat.Name, cat.ID),
		}
	default:
		return nil, &UnsupportedError{
			Err:     ErrUnsupportedGoal,
			Feature: "unknown goal type",
			Value:   string(cat.Goal.Type),
			Context: fmt.Sprintf("category %s (%s)", cat.Name, cat.ID),
		}
	}

	var out []*item
	if target := cat.Goal.Target; target > 0 {
		for i, amt := range splitEvenly(-target, len(goalDays)) {
			out = append(out, &item{
				kind:         kindGoalFunding,
				date:         dayOf(month, goalDays[i]),
				categoryID:   cat.ID,
				categoryName: cat.Name,
				payeeName:    GoalPayeeName,
				amount:       amt,
			})
		}
	}

	rule, ok := bd.settings.ProjectedFor(cat.ID)
	if !ok || len(rule.Days) == 0 {
		return out, nil
	}
	if _, ok := bd.accounts[rule.AccountID]; rule.AccountID != "" && !ok {
		return nil, &IntegrityError{
			Err:     ErrUnresolvedReference,
			Message: "projected spending references an unknown account",
			ID:      rule.ID,
			Date:    month,
			Details: bd.referenceDetails(rule.AccountID, cat.ID, ProjectedSpendingPayeeID),
		}
	}
	total := cat.Goal.Target
	if rule.IsExactAmount && rule.Amount > 0 {
		total = rule.Amount
	}
	if total <= 0 {
		return out, nil
	}
	for i, amt := range splitEvenly(-total, len(rule.Days)) {
		date := dayOf(month, rule.Days[i])
		out = append(out, &item{
			kind:         kindProjected,
			date:         date,
			accountID:    rule.AccountID,
			categoryID:   cat.ID,
			categoryName: cat.Name,
			payeeID:      ProjectedSpendingPayeeID,
			payeeName:    ProjectedSpendingPayeeName,
			amount:       amt,
			txID:         projectedID(cat.ID, date, i),
		})
	}
	return out, nil
}

// dayOf returns day d of month m, clamped into the month.
func dayOf(m time.Time, d int) time.Time {
	if d < 1 {
		d = 1
	}
	if last := daysIn(m); d > last {
		d = last
	}
	return time.Date(m.Year(), m.Month(), d, 0, 0, 0, 0, time.UTC)
}

func projectedID(categoryID string, date time.Time, n int) string {
	name := fmt.Sprintf("%s/%s/%d", categoryID, date.Format(time.DateOnly), n)
	return uuid.NewSHA1(projectedNamespace, []byte(name)).String()
}
