// Package source discovers and parses exported envelope budgets.
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/envcast/internal/model"
)

var errNoBudget = errors.New("decoding budget: no budget object found")

// ParseResult holds the output of parsing a single budget export.
type ParseResult struct {
	Budget *model.Budget
	// ParseErrors counts entries dropped because a date could not be read.
	ParseErrors int
	Err         error
}

// ParseFile reads one budget export from disk.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	res := Parse(f)
	if res.Budget != nil {
		res.Budget.FilePath = df.Path
		if res.Budget.Name == "" {
			res.Budget.Name = df.Name
		}
	}
	return res
}

// Parse decodes a budget export. Both the wrapped service response and a
// bare budget object are accepted.
func Parse(r io.Reader) ParseResult {
	data, err := io.ReadAll(r)
	if err != nil {
		return ParseResult{Err: err}
	}

	var env RawEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ParseResult{Err: fmt.Errorf("decoding budget: %w", err)}
	}
	var raw *RawBudget
	if env.Data != nil && env.Data.Budget != nil {
		raw = env.Data.Budget
	} else {
		var bare RawBudget
		if err := json.Unmarshal(data, &bare); err != nil {
			return ParseResult{Err: fmt.Errorf("decoding budget: %w", err)}
		}
		raw = &bare
	}
	if raw.ID == "" && len(raw.Months) == 0 {
		return ParseResult{Err: errNoBudget}
	}

	c := converter{}
	b := c.budget(raw)
	return ParseResult{Budget: b, ParseErrors: c.errors}
}

// converter maps raw service records onto the domain model, counting the
// records it has to drop.
type converter struct {
	errors int
}

func (c *converter) date(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			c.errors++
			return time.Time{}, false
		}
	}
	return model.DayStart(t), true
}

func (c *converter) budget(raw *RawBudget) *model.Budget {
	b := &model.Budget{
		ID:         raw.ID,
		Name:       raw.Name,
		FirstMonth: raw.FirstMonth,
		LastMonth:  raw.LastMonth,
	}
	if ts, err := time.Parse(time.RFC3339Nano, raw.LastModifiedOn); err == nil {
		b.LastModifiedOn = ts
	}
	if raw.DateFormat != nil {
		b.DateFormat = raw.DateFormat.Format
	}
	if cf := raw.CurrencyFormat; cf != nil {
		b.CurrencyFormat = model.CurrencyFormat{
			ISOCode:          cf.ISOCode,
			ExampleFormat:    cf.ExampleFormat,
			DecimalDigits:    cf.DecimalDigits,
			DecimalSeparator: cf.DecimalSeparator,
			GroupSeparator:   cf.GroupSeparator,
			CurrencySymbol:   cf.CurrencySymbol,
			SymbolFirst:      cf.SymbolFirst,
			DisplaySymbol:    cf.DisplaySymbol,
		}
	}

	for _, a := range raw.Accounts {
		b.Accounts = append(b.Accounts, model.Account{
			ID:               a.ID,
			Name:             a.Name,
			Type:             a.Type,
			Note:             a.Note,
			OnBudget:         a.OnBudget,
			Closed:           a.Closed,
			Deleted:          a.Deleted,
			Balance:          a.Balance,
			ClearedBalance:   a.ClearedBalance,
			UnclearedBalance: a.UnclearedBalance,
			TransferPayeeID:  a.TransferPayeeID,
		})
	}
	for _, p := range raw.Payees {
		b.Payees = append(b.Payees, model.Payee{
			ID:                p.ID,
			Name:              p.Name,
			TransferAccountID: p.TransferAccountID,
			Deleted:           p.Deleted,
		})
	}
	for _, l := range raw.PayeeLocations {
		b.PayeeLocations = append(b.PayeeLocations, model.PayeeLocation(l))
	}
	for _, g := range raw.CategoryGroups {
		b.CategoryGroups = append(b.CategoryGroups, model.CategoryGroup(g))
	}
	b.Categories = c.categories(raw.Categories)

	for _, m := range raw.Months {
		if m.Deleted {
			continue
		}
		t, ok := c.date(m.Month)
		if !ok {
			continue
		}
		b.Months = append(b.Months, model.Month{
			Month:        model.MonthStart(t),
			Note:         m.Note,
			Income:       m.Income,
			Budgeted:     m.Budgeted,
			Activity:     m.Activity,
			ToBeBudgeted: m.ToBeBudgeted,
			AgeOfMoney:   m.AgeOfMoney,
			Categories:   c.categories(m.Categories),
		})
	}

	for _, t := range raw.Transactions {
		d, ok := c.date(t.Date)
		if !ok {
			continue
		}
		b.Transactions = append(b.Transactions, model.Transaction{
			ID:                    t.ID,
			AccountID:             t.AccountID,
			CategoryID:            t.CategoryID,
			PayeeID:               t.PayeeID,
			TransferAccountID:     t.TransferAccountID,
			TransferTransactionID: t.TransferTransactionID,
			Memo:                  t.Memo,
			FlagColor:             t.FlagColor,
			ImportID:              t.ImportID,
			Amount:                t.Amount,
			Date:                  d,
			Cleared:               model.ClearedStatus(strings.ToLower(t.Cleared)),
			Approved:              t.Approved,
			Deleted:               t.Deleted,
		})
	}
	for _, s := range raw.SubTransactions {
		b.SubTransactions = append(b.SubTransactions, model.SubTransaction{
			ID:                s.ID,
			TransactionID:     s.TransactionID,
			CategoryID:        s.CategoryID,
			PayeeID:           s.PayeeID,
			TransferAccountID: s.TransferAccountID,
			Memo:              s.Memo,
			Amount:            s.Amount,
			Deleted:           s.Deleted,
		})
	}

	for _, st := range raw.ScheduledTransactions {
		next, ok := c.date(st.DateNext)
		if !ok {
			continue
		}
		first, _ := c.date(st.DateFirst)
		freq, err := model.ParseFrequency(st.Frequency)
		if err != nil {
			// Keep the raw value so the forecast can report it.
			freq = model.Frequency(st.Frequency)
		}
		b.ScheduledTransactions = append(b.ScheduledTransactions, model.ScheduledTransaction{
			ID:                st.ID,
			AccountID:         st.AccountID,
			CategoryID:        st.CategoryID,
			PayeeID:           st.PayeeID,
			TransferAccountID: st.TransferAccountID,
			Memo:              st.Memo,
			FlagColor:         st.FlagColor,
			Amount:            st.Amount,
			DateFirst:         first,
			DateNext:          next,
			Frequency:         freq,
			Deleted:           st.Deleted,
		})
	}
	for _, s := range raw.ScheduledSubTransactions {
		b.ScheduledSubTransactions = append(b.ScheduledSubTransactions, model.ScheduledSubTransaction{
			ID:                     s.ID,
			ScheduledTransactionID: s.ScheduledTransactionID,
			CategoryID:             s.CategoryID,
			PayeeID:                s.PayeeID,
			TransferAccountID:      s.TransferAccountID,
			Memo:                   s.Memo,
			Amount:                 s.Amount,
			Deleted:                s.Deleted,
		})
	}
	return b
}

func (c *converter) categories(raw []RawCategory) []model.Category {
	if raw == nil {
		return nil
	}
	out := make([]model.Category, 0, len(raw))
	for _, rc := range raw {
		cat := model.Category{
			ID:              rc.ID,
			GroupID:         rc.CategoryGroupID,
			OriginalGroupID: rc.OriginalCategoryGroupID,
			Name:            rc.Name,
			Note:            rc.Note,
			Hidden:          rc.Hidden,
			Deleted:         rc.Deleted,
			Budgeted:        rc.Budgeted,
			Activity:        rc.Activity,
			Balance:         rc.Balance,
		}
		if rc.GoalType != "" {
			g := &model.Goal{
				Type:               model.GoalType(rc.GoalType),
				Target:             rc.GoalTarget,
				PercentageComplete: rc.GoalPercentageComplete,
			}
			if t, ok := c.date(rc.GoalCreationMonth); ok {
				g.CreationMonth = model.MonthStart(t)
			}
			if t, ok := c.date(rc.GoalTargetMonth); ok {
				g.TargetMonth = model.MonthStart(t)
			}
			cat.Goal = g
		}
		out = append(out, cat)
	}
	return out
}
