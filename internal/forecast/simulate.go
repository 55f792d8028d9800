package forecast

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/envcast/internal/model"
)

type ledgerKey struct {
	month    time.Time
	category string
}

// initialFunding funds items from money already in the budget. Goal items
// draw on their own month's budgeted amount; scheduled items draw on the
// category balance, and whatever they take is gone from every later month
// too. Projected spending is settled during materialization instead.
func (bd *build) initialFunding() error {
	balance := make(map[ledgerKey]int64)
	budgeted := make(map[ledgerKey]int64)
	for _, m := range bd.b.Months {
		if m.Month.Before(bd.currentMonth) {
			continue
		}
		for _, c := range m.Categories {
			k := ledgerKey{m.Month, c.ID}
			balance[k] = c.Balance
			budgeted[k] = c.Budgeted
		}
	}

	for _, it := range bd.items {
		if it.remaining() >= 0 {
			continue
		}
		k := ledgerKey{model.MonthStart(it.date), it.categoryID}

		switch it.kind {
		case kindGoalFunding:
			avail, ok := budgeted[k]
			if !ok || avail <= 0 {
				continue
			}
			budgeted[k] = avail - it.fund(avail)
		case kindScheduled, kindScheduledSub:
			avail, ok := balance[k]
			if !ok || avail <= 0 {
				continue
			}
			used := it.fund(avail)
			for lk := range balance {
				if lk.category == it.categoryID && !lk.month.Before(k.month) {
					balance[lk] -= used
				}
			}
		case kindProjected:
		default:
			return unknownKind(it.kind)
		}
	}
	return nil
}

// materialize writes the forecast ledger and lets each paycheck fund the
// obligations that follow it.
func (bd *build) materialize() error {
	for i, it := range bd.items {
		switch it.kind {
		case kindGoalFunding, kindScheduledSub:
			continue
		case kindScheduled, kindProjected:
		default:
			return unknownKind(it.kind)
		}

		itemMonth := model.MonthStart(it.date)
		t := model.Transaction{
			ID:                it.txID,
			AccountID:         it.accountID,
			CategoryID:        it.categoryID,
			PayeeID:           it.payeeID,
			TransferAccountID: it.transferAccountID,
			Memo:              it.memo,
			FlagColor:         it.flagColor,
			ImportID:          model.ImportScheduled,
			Amount:            it.amount,
			Date:              it.date,
			Cleared:           model.Uncleared,
			Approved:          true,
		}
		if it.kind == kindProjected {
			t.ImportID = model.ImportProjected
			t.Amount = bd.projectedAmount(i)
			it.amount = t.Amount
		}
		bd.b.Transactions = append(bd.b.Transactions, t)
		bd.applyCategory(itemMonth, t.CategoryID, t.Amount)
		bd.applyAccount(t.AccountID, t.TransferAccountID, t.Amount)

		for _, child := range bd.children[it.txID] {
			s := model.SubTransaction{
				ID:                child.subID,
				TransactionID:     child.txID,
				CategoryID:        child.categoryID,
				PayeeID:           child.payeeID,
				TransferAccountID: child.transferAccountID,
				Memo:              child.memo,
				Amount:            child.amount,
			}
			bd.b.SubTransactions = append(bd.b.SubTransactions, s)
			if t.Amount > 0 && s.Amount > 0 {
				if cat, ok := bd.category(s.CategoryID); ok && !isToBeBudgeted(cat.Name) {
					bd.addFunding(t.ID, model.FundItem{
						CategoryID:   cat.ID,
						CategoryName: cat.Name,
						Date:         t.Date,
						Payee:        ManualFundingPayee,
						Amount:       s.Amount,
					})
				}
			}
			bd.applyCategory(itemMonth, s.CategoryID, s.Amount)
			bd.applyAccount("", s.TransferAccountID, s.Amount)
		}

		if t.Amount > 0 {
			if err := bd.allocateIncome(t, itemMonth); err != nil {
				return err
			}
			bd.result.FundStatus[t.ID] = bd.fundStatus(itemMonth)
		}
	}
	return nil
}

// projectedAmount spreads what is left in the category this month evenly
// over the projected occurrences not yet written, starting with items[i].
func (bd *build) projectedAmount(i int) int64 {
	it := bd.items[i]
	itemMonth := model.MonthStart(it.date)
	monthEnd := itemMonth.AddDate(0, 1, 0)

	_, mi, ok := bd.month(itemMonth)
	if !ok {
		return 0
	}
	cat, ok := bd.monthCategory(mi, it.categoryID)
	if !ok || cat.Balance <= 0 {
		return 0
	}

	n := 0
	for _, other := range bd.items[i:] {
		if other.kind == kindProjected && other.categoryID == it.categoryID &&
			!other.date.Before(it.date) && other.date.Before(monthEnd) {
			n++
		}
	}
	if n == 0 {
		n = 1
	}
	share := decimal.NewFromInt(cat.Balance).Div(decimal.NewFromInt(int64(n))).Round(0)
	return -share.IntPart()
}

// applyCategory posts amt against a category in month m. Balances roll
// forward into every later month; activity, income and budgeted only move
// in m itself. Inflows to the to-be-budgeted category feed TBB instead.
func (bd *build) applyCategory(m time.Time, categoryID string, amt int64) {
	if categoryID == "" {
		return
	}
	master, ok := bd.category(categoryID)
	if !ok {
		return
	}
	tbb := isToBeBudgeted(master.Name)

	for i := range bd.b.Months {
		month := &bd.b.Months[i]
		if month.Month.Before(m) {
			continue
		}
		own := month.Month.Equal(m)
		if tbb {
			if own {
				month.Income += amt
			}
			month.ToBeBudgeted += amt
			continue
		}
		cat, ok := bd.monthCategory(i, categoryID)
		if !ok {
			continue
		}
		cat.Balance += amt
		if !own {
			continue
		}
		if amt < 0 {
			month.Activity += amt
			cat.Activity += amt
		} else {
			month.Income += amt
			month.Budgeted += amt
			cat.Budgeted += amt
		}
	}
}

// applyAccount moves an account's projected balance. A transfer moves the
// opposite amount in the target account.
func (bd *build) applyAccount(accountID, transferAccountID string, amt int64) {
	if i, ok := bd.accounts[accountID]; ok {
		bd.b.Accounts[i].Balance += amt
		bd.b.Accounts[i].UnclearedBalance += amt
	}
	if i, ok := bd.accounts[transferAccountID]; ok {
		bd.b.Accounts[i].Balance -= amt
		bd.b.Accounts[i].UnclearedBalance -= amt
	}
}

// allocateIncome hands the money an income leaves in to-be-budgeted to the
// most urgent underfunded items up to the end of the following month, then
// sweeps anything left into the remaining funds category.
func (bd *build) allocateIncome(t model.Transaction, itemMonth time.Time) error {
	month, _, ok := bd.month(itemMonth)
	if !ok {
		return &IntegrityError{
			Err:     ErrMonthNotFound,
			Message: "could not find income month",
			ID:      t.ID,
			Date:    t.Date,
		}
	}
	tbb := month.ToBeBudgeted
	for _, m := range bd.b.Months {
		if m.Month.After(itemMonth) {
			tbb -= m.Budgeted
		}
	}
	if tbb <= 0 {
		return nil
	}

	cutoff := itemMonth.AddDate(0, 2, 0)
	for _, next := range bd.items {
		if tbb <= 0 {
			break
		}
		if !next.date.Before(cutoff) || next.split || next.remaining() >= 0 {
			continue
		}
		switch next.kind {
		case kindProjected:
			continue
		case kindScheduled, kindScheduledSub, kindGoalFunding:
		default:
			return unknownKind(next.kind)
		}
		md := model.MonthStart(next.date)
		_, mi, ok := bd.month(md)
		if !ok {
			continue
		}
		if _, ok := bd.monthCategory(mi, next.categoryID); !ok {
			continue
		}
		master, ok := bd.category(next.categoryID)
		if !ok || isToBeBudgeted(master.Name) {
			continue
		}

		budget := next.fund(tbb)
		if budget <= 0 {
			continue
		}
		tbb -= budget
		bd.budgetForward(md, next.categoryID, budget)
		bd.addFunding(t.ID, model.FundItem{
			CategoryID:   master.ID,
			CategoryName: master.Name,
			Date:         next.date,
			Payee:        next.payeeName,
			Amount:       budget,
		})
	}

	if tbb > 0 {
		bd.budgetForward(itemMonth, RemainingFundsCategoryID, tbb)
		bd.addFunding(t.ID, model.FundItem{
			CategoryID:   RemainingFundsCategoryID,
			CategoryName: RemainingFundsCategoryName,
			Date:         t.Date,
			Amount:       tbb,
		})
	}
	return nil
}

// budgetForward moves amt out of to-be-budgeted into a category from month
// md on. The category balance and TBB change in every month from md;
// budgeted totals change in md only.
func (bd *build) budgetForward(md time.Time, categoryID string, amt int64) {
	for i := range bd.b.Months {
		month := &bd.b.Months[i]
		if month.Month.Before(md) {
			continue
		}
		month.ToBeBudgeted -= amt
		cat, ok := bd.monthCategory(i, categoryID)
		if ok {
			cat.Balance += amt
		}
		if month.Month.Equal(md) {
			month.Budgeted += amt
			if ok {
				cat.Budgeted += amt
			}
		}
	}
}

func (bd *build) addFunding(txID string, f model.FundItem) {
	bd.result.IncomeFunding[txID] = append(bd.result.IncomeFunding[txID], f)
}
