package forecast

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/envcast/internal/model"
)

var perMille = decimal.NewFromInt(1000)

// adjust applies one scenario step to an amount. Percentage steps are
// rounded half away from zero.
func adjust(amount, delta int64, exact bool) int64 {
	if exact {
		return amount + delta
	}
	factor := decimal.NewFromInt(1000 + delta).Div(perMille)
	return decimal.NewFromInt(amount).Mul(factor).Round(0).IntPart()
}

// scenarioWindow is the part of a scenario the applier needs, shared by
// transaction and split-line scenarios.
type scenarioWindow struct {
	id        string
	begin     time.Time
	end       time.Time
	frequency model.Frequency
	amount    int64
	exact     bool
}

// walk calls step for each scenario date from begin until limit (or the
// scenario's own end date, when set), advancing by the scenario frequency.
func (w scenarioWindow) walk(limit time.Time, step func(time.Time) error) (int, error) {
	if !w.end.IsZero() && w.end.Before(limit) {
		limit = w.end
	}
	n := 0
	for d := model.DayStart(w.begin); d.Before(limit); n++ {
		if err := step(d); err != nil {
			return n, err
		}
		next, err := Advance(d, w.frequency)
		if err != nil {
			return n, fmt.Errorf("scenario %s: %w", w.id, err)
		}
		d = next
	}
	return n, nil
}

// applyScenarios rewrites item amounts for every enabled transaction and
// split-line scenario. Each scenario re-applies at every step of its own
// recurrence to all matching items dated on or after that step, so
// successive steps compound. It returns the number of steps applied.
func (bd *build) applyScenarios() (int, error) {
	if len(bd.items) == 0 {
		return 0, nil
	}
	var maxDate time.Time
	for _, it := range bd.items {
		if it.date.After(maxDate) {
			maxDate = it.date
		}
	}
	limit := maxDate.AddDate(0, 0, 1)

	txs := make([]model.TransactionScenario, 0, len(bd.settings.TransactionScenarios))
	for _, s := range bd.settings.TransactionScenarios {
		if s.IsEnabled {
			txs = append(txs, s)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].BeginDate.Before(txs[j].BeginDate) })

	steps := 0
	for _, s := range txs {
		w := scenarioWindow{s.ID, s.BeginDate, s.EndDate, s.Frequency, s.Amount, s.IsExactAmount}
		n, err := w.walk(limit, func(from time.Time) error {
			for _, it := range bd.items {
				if it.kind == kindScheduledSub || it.scheduledID != s.ScheduledTransactionID || it.date.Before(from) {
					continue
				}
				before := it.amount
				it.amount = adjust(it.amount, w.amount, w.exact)
				if it.split {
					spreadDelta(bd.children[it.txID], before, it.amount-before)
				}
			}
			return nil
		})
		steps += n
		if err != nil {
			return steps, err
		}
	}

	subs := make([]model.SubTransactionScenario, 0, len(bd.settings.SubTransactionScenarios))
	for _, s := range bd.settings.SubTransactionScenarios {
		if s.IsEnabled {
			subs = append(subs, s)
		}
	}
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].BeginDate.Before(subs[j].BeginDate) })

	for _, s := range subs {
		w := scenarioWindow{s.ID, s.BeginDate, s.EndDate, s.Frequency, s.Amount, s.IsExactAmount}
		n, err := w.walk(limit, func(from time.Time) error {
			for _, it := range bd.items {
				if it.kind != kindScheduledSub || it.scheduledSubID != s.ScheduledSubTransactionID || it.date.Before(from) {
					continue
				}
				parent, ok := bd.parents[it.txID]
				if !ok {
					return &IntegrityError{
						Err:     ErrUnresolvedReference,
						Message: "split line has no parent transaction",
						ID:      it.subID,
						Date:    it.date,
						Details: []Detail{{"scenario_id", s.ID}, {"transaction_id", it.txID}},
					}
				}
				before := it.amount
				it.amount = adjust(it.amount, w.amount, w.exact)
				parent.amount += it.amount - before
			}
			return nil
		})
		steps += n
		if err != nil {
			return steps, err
		}
	}
	return steps, nil
}

// spreadDelta distributes a split parent's change across its lines in
// proportion to their share of the old parent amount, so the lines keep
// summing to the parent. The last line takes the rounding remainder.
func spreadDelta(lines []*item, parentBefore, delta int64) {
	if len(lines) == 0 || delta == 0 {
		return
	}
	var shares []int64
	if parentBefore == 0 {
		shares = splitEvenly(delta, len(lines))
	} else {
		shares = make([]int64, len(lines))
		d, whole := decimal.NewFromInt(delta), decimal.NewFromInt(parentBefore)
		var given int64
		for i, l := range lines[:len(lines)-1] {
			shares[i] = d.Mul(decimal.NewFromInt(l.amount)).Div(whole).Round(0).IntPart()
			given += shares[i]
		}
		shares[len(lines)-1] = delta - given
	}
	for i, l := range lines {
		l.amount += shares[i]
	}
}
