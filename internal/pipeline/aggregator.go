// Package pipeline orchestrates budget loading, caching, forecasting and
// aggregation of forecast results for display.
package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/envcast/internal/forecast"
	"github.com/theirongolddev/envcast/internal/model"
)

// Summarize computes the headline numbers of a forecast.
func Summarize(res *forecast.Result) model.SummaryStats {
	stats := model.SummaryStats{
		BudgetName:    res.Budget.Name,
		CurrentMonth:  res.CurrentMonth,
		ForecastUntil: res.ForecastUntil,
		Months:        res.Months,
	}

	for _, tx := range res.Ledger() {
		stats.Transactions++
		switch {
		case tx.ImportID == model.ImportProjected:
			stats.ProjectedSpending += tx.Amount
		case tx.Amount > 0:
			stats.IncomeEvents++
			stats.ScheduledIncome += tx.Amount
		default:
			stats.ScheduledExpenses += tx.Amount
		}
	}

	for _, items := range res.IncomeFunding {
		for _, f := range items {
			switch {
			case f.Payee == forecast.ManualFundingPayee:
				stats.ManualTotal += f.Amount
			case f.CategoryID == forecast.RemainingFundsCategoryID:
				stats.SweptTotal += f.Amount
			default:
				stats.AllocatedTotal += f.Amount
			}
		}
	}

	for _, s := range LatestStatus(res) {
		need := -s.Amount
		funded := min(s.Funded, need)
		stats.NeededSoon += need
		stats.FundedSoon += funded
		if funded < need {
			stats.Underfunded++
		}
	}

	for _, a := range AggregateAccounts(res) {
		if !a.OnBudget {
			continue
		}
		stats.StartingBalance += a.Starting
		stats.EndingBalance += a.Projected
	}

	stats.LowestBalance = stats.StartingBalance
	stats.LowestBalanceDate = res.Now
	for _, d := range AggregateDays(res) {
		if d.Balance < stats.LowestBalance {
			stats.LowestBalance = d.Balance
			stats.LowestBalanceDate = d.Date
		}
	}

	return stats
}

// LatestStatus returns the most recent funding snapshot: the one taken
// after the last paycheck of the current month, or the baseline when no
// paycheck lands this month.
func LatestStatus(res *forecast.Result) []model.FundStatus {
	latest := res.BaselineStatus()
	next := res.CurrentMonth.AddDate(0, 1, 0)
	for _, tx := range res.Ledger() {
		if !tx.Date.Before(next) {
			break
		}
		if s, ok := res.FundStatus[tx.ID]; ok {
			latest = s
		}
	}
	return latest
}

// AggregateMonths computes per-month totals from the current month to the
// end of the horizon, oldest first.
func AggregateMonths(res *forecast.Result) []model.MonthStats {
	months := make([]model.Month, 0, len(res.Budget.Months))
	for _, m := range res.Budget.Months {
		if !m.Month.Before(res.CurrentMonth) && m.Month.Before(res.ForecastUntil.AddDate(0, 1, 0)) {
			months = append(months, m)
		}
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month.Before(months[j].Month) })

	byMonth := make(map[time.Time]*model.MonthStats, len(months))
	out := make([]model.MonthStats, len(months))
	for i, m := range months {
		ms := model.MonthStats{
			Month:        m.Month,
			Income:       m.Income,
			Budgeted:     m.Budgeted,
			Activity:     m.Activity,
			ToBeBudgeted: m.ToBeBudgeted,
		}
		for _, c := range m.Categories {
			ms.OriginalBudgeted += res.OriginalBudgetedFor(m.Month, c.ID)
			if c.ID == forecast.RemainingFundsCategoryID {
				ms.RemainingFunds = c.Balance
			}
		}
		out[i] = ms
		byMonth[m.Month] = &out[i]
	}

	for _, tx := range res.Ledger() {
		ms, ok := byMonth[model.MonthStart(tx.Date)]
		if !ok {
			continue
		}
		ms.Transactions++
		if tx.Amount > 0 {
			ms.Inflow += tx.Amount
		} else {
			ms.Outflow += tx.Amount
		}
	}
	return out
}

// AggregateCategories reports every live category's position in month.
// Results are grouped by category group, then sorted by name.
func AggregateCategories(res *forecast.Result, month time.Time) []model.CategoryStats {
	m, ok := res.Month(month)
	if !ok {
		return nil
	}

	groups := make(map[string]string, len(res.Budget.CategoryGroups))
	for _, g := range res.Budget.CategoryGroups {
		groups[g.ID] = g.Name
	}

	need := make(map[string][2]int64)
	for _, s := range LatestStatus(res) {
		if model.MonthStart(s.Date).Equal(m.Month) {
			v := need[s.ID]
			v[0] += -s.Amount
			v[1] += min(s.Funded, -s.Amount)
			need[s.ID] = v
		}
	}

	var out []model.CategoryStats
	for _, c := range m.Categories {
		if c.Deleted || c.Hidden {
			continue
		}
		cs := model.CategoryStats{
			ID:               c.ID,
			Name:             c.Name,
			Group:            groups[c.GroupID],
			Budgeted:         c.Budgeted,
			OriginalBudgeted: res.OriginalBudgetedFor(m.Month, c.ID),
			Activity:         c.Activity,
			Balance:          c.Balance,
			Needed:           need[c.ID][0],
			Funded:           need[c.ID][1],
		}
		if c.Goal != nil {
			cs.GoalType = c.Goal.Type
			cs.GoalTarget = c.Goal.Target
		}
		out = append(out, cs)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// AggregateAccounts derives each open account's balance before the
// forecast from its projected balance and the forecast ledger.
func AggregateAccounts(res *forecast.Result) []model.AccountStats {
	delta := make(map[string]int64)
	for _, tx := range res.Ledger() {
		delta[tx.AccountID] += tx.Amount
		if tx.TransferAccountID != "" {
			delta[tx.TransferAccountID] -= tx.Amount
		}
	}
	for _, s := range res.SubLedger() {
		if s.TransferAccountID != "" {
			delta[s.TransferAccountID] -= s.Amount
		}
	}

	var out []model.AccountStats
	for _, a := range res.Budget.Accounts {
		if a.Deleted || a.Closed {
			continue
		}
		out = append(out, model.AccountStats{
			ID:        a.ID,
			Name:      a.Name,
			Type:      a.Type,
			OnBudget:  a.OnBudget,
			Starting:  a.Balance - delta[a.ID],
			Projected: a.Balance,
		})
	}
	return out
}

// AggregateFunding lists every paycheck in the forecast with the
// allocations it made, in ledger order.
func AggregateFunding(res *forecast.Result) []model.FundingStats {
	var out []model.FundingStats
	for _, tx := range res.Ledger() {
		if tx.Amount <= 0 {
			continue
		}
		fs := model.FundingStats{
			TransactionID: tx.ID,
			Date:          tx.Date,
			Payee:         res.PayeeName(tx.PayeeID),
			Account:       res.AccountName(tx.AccountID),
			Amount:        tx.Amount,
			Items:         res.IncomeFundingFor(tx.ID),
		}
		for _, f := range fs.Items {
			switch {
			case f.Payee == forecast.ManualFundingPayee:
				fs.Manual += f.Amount
			case f.CategoryID == forecast.RemainingFundsCategoryID:
				fs.Swept += f.Amount
			default:
				fs.Allocated += f.Amount
			}
		}
		out = append(out, fs)
	}
	return out
}

// AggregateDays computes the daily on-budget cash flow from today to the
// last forecast transaction, oldest first. Days without activity are
// included so charts show them as flat.
func AggregateDays(res *forecast.Result) []model.DailyStats {
	onBudget := make(map[string]bool)
	var balance int64
	for _, a := range AggregateAccounts(res) {
		if a.OnBudget {
			onBudget[a.ID] = true
			balance += a.Starting
		}
	}

	subTransfers := make(map[string][]model.SubTransaction)
	for _, s := range res.SubLedger() {
		if s.TransferAccountID != "" {
			subTransfers[s.TransactionID] = append(subTransfers[s.TransactionID], s)
		}
	}

	dayMap := make(map[time.Time]*model.DailyStats)
	last := model.DayStart(res.Now)
	for _, tx := range res.Ledger() {
		var effect int64
		if onBudget[tx.AccountID] {
			effect += tx.Amount
		}
		if onBudget[tx.TransferAccountID] {
			effect -= tx.Amount
		}
		for _, s := range subTransfers[tx.ID] {
			if onBudget[s.TransferAccountID] {
				effect -= s.Amount
			}
		}
		if effect == 0 {
			continue
		}

		day := model.DayStart(tx.Date)
		ds, ok := dayMap[day]
		if !ok {
			ds = &model.DailyStats{Date: day}
			dayMap[day] = ds
		}
		if effect > 0 {
			ds.Inflow += effect
		} else {
			ds.Outflow += effect
		}
		if day.After(last) {
			last = day
		}
	}

	var days []model.DailyStats
	for day := model.DayStart(res.Now); !day.After(last); day = day.AddDate(0, 0, 1) {
		ds := model.DailyStats{Date: day}
		if d, ok := dayMap[day]; ok {
			ds = *d
		}
		balance += ds.Net()
		ds.Balance = balance
		days = append(days, ds)
	}
	return days
}

// LedgerEntries resolves the forecast ledger for display, with a running
// balance per account.
func LedgerEntries(res *forecast.Result) []model.LedgerEntry {
	running := make(map[string]int64)
	for _, a := range AggregateAccounts(res) {
		running[a.ID] = a.Starting
	}

	entries := make([]model.LedgerEntry, 0, len(res.Ledger()))
	for _, tx := range res.Ledger() {
		e := model.LedgerEntry{
			ID:        tx.ID,
			Date:      tx.Date,
			Account:   res.AccountName(tx.AccountID),
			Memo:      tx.Memo,
			Amount:    tx.Amount,
			Projected: tx.ImportID == model.ImportProjected,
		}
		if tx.PayeeID != "" {
			e.Payee = res.PayeeName(tx.PayeeID)
		}
		if tx.TransferAccountID != "" {
			e.Payee = "Transfer: " + res.AccountName(tx.TransferAccountID)
		}
		if subs := res.SubTransactionsOf(tx.ID); len(subs) > 0 {
			e.Split = true
			e.Category = "Split"
		} else if tx.CategoryID != "" {
			e.Category = res.CategoryName(tx.CategoryID)
		}

		running[tx.AccountID] += tx.Amount
		e.Balance = running[tx.AccountID]
		entries = append(entries, e)
	}
	return entries
}

// FilterLedger returns entries dated within [since, until). A zero bound is
// open.
func FilterLedger(entries []model.LedgerEntry, since, until time.Time) []model.LedgerEntry {
	var out []model.LedgerEntry
	for _, e := range entries {
		if !since.IsZero() && e.Date.Before(since) {
			continue
		}
		if !until.IsZero() && !e.Date.Before(until) {
			continue
		}
		out = append(out, e)
	}
	return out
}
