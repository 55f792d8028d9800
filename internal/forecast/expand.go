package forecast

import (
	"container/heap"
	"fmt"
	"sort"
	"time"

	"github.com/theirongolddev/envcast/internal/model"
)

// pending is a scheduled transaction template being walked forward.
type pending struct {
	st   model.ScheduledTransaction
	next time.Time
}

// pendingQueue pops the earliest-due template; ties go to the smaller
// amount, then the smaller id, so expansion order is deterministic.
type pendingQueue []*pending

func (q pendingQueue) Len() int { return len(q) }
func (q pendingQueue) Less(i, j int) bool {
	if !q[i].next.Equal(q[j].next) {
		return q[i].next.Before(q[j].next)
	}
	if q[i].st.Amount != q[j].st.Amount {
		return q[i].st.Amount < q[j].st.Amount
	}
	return q[i].st.ID < q[j].st.ID
}
func (q pendingQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *pendingQueue) Push(x any)   { *q = append(*q, x.(*pending)) }
func (q *pendingQueue) Pop() any {
	old := *q
	n := len(old)
	p := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return p
}

// withinHorizon applies the income horizon to inflows and the one-month
// longer expense horizon to outflows.
func (bd *build) withinHorizon(amount int64, date time.Time) bool {
	if amount >= 0 {
		return date.Before(bd.incomeEnd)
	}
	return date.Before(bd.expenseEnd)
}

// expandScheduled turns every live scheduled transaction into one item per
// occurrence inside its horizon. Templates whose category is not a
// category of the occurrence month are splits: the parent item is marked
// split and followed by one item per sub-transaction line.
func (bd *build) expandScheduled() ([]*item, error) {
	subs := make(map[string][]model.ScheduledSubTransaction)
	for _, s := range bd.b.ScheduledSubTransactions {
		if s.Deleted {
			continue
		}
		subs[s.ScheduledTransactionID] = append(subs[s.ScheduledTransactionID], s)
	}

	q := make(pendingQueue, 0, len(bd.b.ScheduledTransactions))
	for _, st := range bd.b.ScheduledTransactions {
		if st.Deleted || !bd.withinHorizon(st.Amount, st.DateNext) {
			continue
		}
		q = append(q, &pending{st: st, next: model.DayStart(st.DateNext)})
	}
	heap.Init(&q)

	var out []*item
	for q.Len() > 0 {
		p := heap.Pop(&q).(*pending)

		if p.next.Before(bd.today) {
			next, err := bd.step(p)
			if err != nil {
				return nil, err
			}
			if bd.withinHorizon(p.st.Amount, next) {
				p.next = next
				heap.Push(&q, p)
			}
			continue
		}

		emitted, err := bd.emitOccurrence(p, subs[p.st.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, emitted...)

		next, err := bd.step(p)
		if err != nil {
			return nil, err
		}
		if bd.withinHorizon(p.st.Amount, next) {
			p.next = next
			heap.Push(&q, p)
		}
	}
	return out, nil
}

func (bd *build) step(p *pending) (time.Time, error) {
	next, err := Advance(p.next, p.st.Frequency)
	if err != nil {
		return time.Time{}, fmt.Errorf("advancing scheduled transaction %s: %w", p.st.ID, err)
	}
	return next, nil
}

func (bd *build) emitOccurrence(p *pending, lines []model.ScheduledSubTransaction) ([]*item, error) {
	st := p.st
	date := p.next

	month, mi, ok := bd.month(date)
	if !ok {
		return nil, &IntegrityError{
			Err:     ErrMonthNotFound,
			Message: "could not find scheduled transaction month",
			ID:      st.ID,
			Date:    date,
			Freq:    st.Frequency,
			Details: bd.referenceDetails(st.AccountID, st.CategoryID, st.PayeeID),
		}
	}
	if err := bd.checkReferences(st, date); err != nil {
		return nil, err
	}

	txID := syntheticID(st.ID, date)
	parent := &item{
		kind:              kindScheduled,
		date:              date,
		accountID:         st.AccountID,
		categoryID:        st.CategoryID,
		categoryName:      splitCategoryName,
		payeeID:           st.PayeeID,
		payeeName:         bd.payeeName(st.PayeeID),
		transferAccountID: st.TransferAccountID,
		memo:              st.Memo,
		flagColor:         st.FlagColor,
		amount:            st.Amount,
		scheduledID:       st.ID,
		txID:              txID,
	}

	if cat, ok := bd.monthCategory(mi, st.CategoryID); ok {
		parent.categoryName = cat.Name
		return []*item{parent}, nil
	}

	parent.split = true
	out := []*item{parent}
	for _, line := range lines {
		child := &item{
			kind:              kindScheduledSub,
			date:              date,
			accountID:         st.AccountID,
			categoryID:        line.CategoryID,
			payeeID:           st.PayeeID,
			payeeName:         parent.payeeName,
			transferAccountID: line.TransferAccountID,
			memo:              line.Memo,
			flagColor:         st.FlagColor,
			amount:            line.Amount,
			scheduledID:       st.ID,
			scheduledSubID:    line.ID,
			txID:              txID,
			subID:             syntheticID(line.ID, date),
		}
		if line.Memo == "" {
			child.memo = st.Memo
		}
		if line.CategoryID != "" {
			cat, ok := bd.monthCategory(mi, line.CategoryID)
			if !ok {
				return nil, &IntegrityError{
					Err:     ErrUnresolvedReference,
					Message: fmt.Sprintf("split line category not found in %s", month.Month.Format("Jan 2006")),
					ID:      line.ID,
					Date:    date,
					Freq:    st.Frequency,
					Details: bd.referenceDetails(st.AccountID, line.CategoryID, st.PayeeID),
				}
			}
			child.categoryName = cat.Name
		}
		out = append(out, child)
	}
	return out, nil
}

// checkReferences rejects templates pointing at accounts or payees the
// snapshot does not contain. Empty references are allowed.
func (bd *build) checkReferences(st model.ScheduledTransaction, date time.Time) error {
	var missing string
	if _, ok := bd.accounts[st.AccountID]; st.AccountID != "" && !ok {
		missing = "account"
	} else if _, ok := bd.payees[st.PayeeID]; st.PayeeID != "" && !ok {
		missing = "payee"
	} else if _, ok := bd.accounts[st.TransferAccountID]; st.TransferAccountID != "" && !ok {
		missing = "transfer account"
	}
	if missing == "" {
		return nil
	}
	return &IntegrityError{
		Err:     ErrUnresolvedReference,
		Message: "scheduled transaction references an unknown " + missing,
		ID:      st.ID,
		Date:    date,
		Freq:    st.Frequency,
		Details: bd.referenceDetails(st.AccountID, st.CategoryID, st.PayeeID),
	}
}

func syntheticID(templateID string, date time.Time) string {
	return templateID + "_" + date.Format(time.DateOnly)
}

// orderItems lays items out day by day. Within a day, inflows come first
// from largest to smallest, each followed by its split lines (largest
// first); then outflows from most to least negative, each followed by its
// split lines (most negative first).
func (bd *build) orderItems(all []*item) error {
	for i, it := range all {
		it.seq = i
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].date.Before(all[j].date)
	})

	bd.items = make([]*item, 0, len(all))
	for start := 0; start < len(all); {
		end := start
		for end < len(all) && all[end].date.Equal(all[start].date) {
			end++
		}
		day := all[start:end]
		before := len(bd.items)

		kids := make(map[string][]*item)
		var incomes, expenses []*item
		for _, it := range day {
			switch {
			case !it.topLevel():
				kids[it.txID] = append(kids[it.txID], it)
			case it.amount >= 0:
				incomes = append(incomes, it)
			default:
				expenses = append(expenses, it)
			}
		}

		desc := func(s []*item) {
			sort.SliceStable(s, func(i, j int) bool { return s[i].amount > s[j].amount })
		}
		asc := func(s []*item) {
			sort.SliceStable(s, func(i, j int) bool { return s[i].amount < s[j].amount })
		}

		desc(incomes)
		for _, in := range incomes {
			bd.items = append(bd.items, in)
			lines := kids[in.txID]
			desc(lines)
			bd.items = append(bd.items, lines...)
		}
		asc(expenses)
		for _, ex := range expenses {
			bd.items = append(bd.items, ex)
			lines := kids[ex.txID]
			asc(lines)
			bd.items = append(bd.items, lines...)
		}

		if got := len(bd.items) - before; got != len(day) {
			return &IntegrityError{
				Err:     ErrDayOrderMismatch,
				Message: fmt.Sprintf("ordered %d items, expected %d", got, len(day)),
				Date:    day[0].date,
				Details: []Detail{{"day", day[0].date.Format(time.DateOnly)}},
			}
		}
		start = end
	}

	bd.parents = make(map[string]*item)
	bd.children = make(map[string][]*item)
	for _, it := range bd.items {
		if it.txID == "" {
			continue
		}
		if it.topLevel() {
			bd.parents[it.txID] = it
		} else {
			bd.children[it.txID] = append(bd.children[it.txID], it)
		}
	}
	return nil
}
