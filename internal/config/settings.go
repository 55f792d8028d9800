package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/theirongolddev/envcast/internal/model"
)

// settingsFile is the on-disk shape of the scenario settings file.
type settingsFile struct {
	Transactions    []transactionEntry `toml:"transaction_scenario"`
	SubTransactions []transactionEntry `toml:"sub_transaction_scenario"`
	Projected       []projectedEntry   `toml:"projected_spending"`
}

// transactionEntry serves both scenario arrays; Target is the scheduled
// transaction id or the scheduled split line id.
type transactionEntry struct {
	ID        string `toml:"id"`
	Target    string `toml:"target"`
	BeginDate string `toml:"begin_date"`
	EndDate   string `toml:"end_date,omitempty"`
	Frequency string `toml:"frequency"`
	Amount    int64  `toml:"amount"`
	Exact     bool   `toml:"exact"`
	Enabled   bool   `toml:"enabled"`
}

type projectedEntry struct {
	ID         string `toml:"id"`
	CategoryID string `toml:"category_id"`
	AccountID  string `toml:"account_id,omitempty"`
	Days       []int  `toml:"days"`
	Amount     int64  `toml:"amount,omitempty"`
	Exact      bool   `toml:"exact,omitempty"`
	Enabled    bool   `toml:"enabled"`
}

// LoadSettings reads scenario settings. A missing file yields empty
// settings. Entries without an id get a fresh one.
func LoadSettings(path string) (model.Settings, error) {
	var s model.Settings

	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided by design
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading settings: %w", err)
	}

	var f settingsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return s, fmt.Errorf("parsing settings: %w", err)
	}

	for i, e := range f.Transactions {
		begin, end, freq, err := e.schedule()
		if err != nil {
			return s, fmt.Errorf("transaction_scenario %d: %w", i+1, err)
		}
		s.TransactionScenarios = append(s.TransactionScenarios, model.TransactionScenario{
			ID:                     idOrNew(e.ID),
			ScheduledTransactionID: e.Target,
			BeginDate:              begin,
			EndDate:                end,
			Frequency:              freq,
			Amount:                 e.Amount,
			IsExactAmount:          e.Exact,
			IsEnabled:              e.Enabled,
		})
	}
	for i, e := range f.SubTransactions {
		begin, end, freq, err := e.schedule()
		if err != nil {
			return s, fmt.Errorf("sub_transaction_scenario %d: %w", i+1, err)
		}
		s.SubTransactionScenarios = append(s.SubTransactionScenarios, model.SubTransactionScenario{
			ID:                        idOrNew(e.ID),
			ScheduledSubTransactionID: e.Target,
			BeginDate:                 begin,
			EndDate:                   end,
			Frequency:                 freq,
			Amount:                    e.Amount,
			IsExactAmount:             e.Exact,
			IsEnabled:                 e.Enabled,
		})
	}
	for i, e := range f.Projected {
		if e.CategoryID == "" {
			return s, fmt.Errorf("projected_spending %d: category_id is required", i+1)
		}
		for _, d := range e.Days {
			if d < 1 || d > 31 {
				return s, fmt.Errorf("projected_spending %d: day %d out of range", i+1, d)
			}
		}
		s.ProjectedSpending = append(s.ProjectedSpending, model.ProjectedSpendingScenario{
			ID:            idOrNew(e.ID),
			CategoryID:    e.CategoryID,
			AccountID:     e.AccountID,
			Days:          e.Days,
			Amount:        e.Amount,
			IsExactAmount: e.Exact,
			IsEnabled:     e.Enabled,
		})
	}
	return s, nil
}

func (e transactionEntry) schedule() (begin, end time.Time, freq model.Frequency, err error) {
	if e.Target == "" {
		return begin, end, freq, fmt.Errorf("target is required")
	}
	begin, err = time.Parse(time.DateOnly, e.BeginDate)
	if err != nil {
		return begin, end, freq, fmt.Errorf("begin_date: %w", err)
	}
	if e.EndDate != "" {
		end, err = time.Parse(time.DateOnly, e.EndDate)
		if err != nil {
			return begin, end, freq, fmt.Errorf("end_date: %w", err)
		}
	}
	freq = model.Never
	if e.Frequency != "" {
		if freq, err = model.ParseFrequency(e.Frequency); err != nil {
			return begin, end, freq, err
		}
	}
	return begin, end, freq, nil
}

func idOrNew(id string) string {
	if strings.TrimSpace(id) == "" {
		return uuid.NewString()
	}
	return id
}

// SaveSettings writes s to path, creating the parent directory.
func SaveSettings(path string, s model.Settings) error {
	var f settingsFile
	for _, t := range s.TransactionScenarios {
		f.Transactions = append(f.Transactions, transactionEntry{
			ID:        idOrNew(t.ID),
			Target:    t.ScheduledTransactionID,
			BeginDate: t.BeginDate.Format(time.DateOnly),
			EndDate:   formatOptionalDate(t.EndDate),
			Frequency: string(t.Frequency),
			Amount:    t.Amount,
			Exact:     t.IsExactAmount,
			Enabled:   t.IsEnabled,
		})
	}
	for _, t := range s.SubTransactionScenarios {
		f.SubTransactions = append(f.SubTransactions, transactionEntry{
			ID:        idOrNew(t.ID),
			Target:    t.ScheduledSubTransactionID,
			BeginDate: t.BeginDate.Format(time.DateOnly),
			EndDate:   formatOptionalDate(t.EndDate),
			Frequency: string(t.Frequency),
			Amount:    t.Amount,
			Exact:     t.IsExactAmount,
			Enabled:   t.IsEnabled,
		})
	}
	for _, p := range s.ProjectedSpending {
		f.Projected = append(f.Projected, projectedEntry{
			ID:         idOrNew(p.ID),
			CategoryID: p.CategoryID,
			AccountID:  p.AccountID,
			Days:       p.Days,
			Amount:     p.Amount,
			Exact:      p.IsExactAmount,
			Enabled:    p.IsEnabled,
		})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is user-provided by design
	if err != nil {
		return fmt.Errorf("creating settings file: %w", err)
	}
	defer func() { _ = out.Close() }()

	return toml.NewEncoder(out).Encode(f)
}

func formatOptionalDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

// RemoveScenario deletes the scenario with the given id from any list.
func RemoveScenario(s *model.Settings, id string) bool {
	for i := range s.TransactionScenarios {
		if s.TransactionScenarios[i].ID == id {
			s.TransactionScenarios = append(s.TransactionScenarios[:i], s.TransactionScenarios[i+1:]...)
			return true
		}
	}
	for i := range s.SubTransactionScenarios {
		if s.SubTransactionScenarios[i].ID == id {
			s.SubTransactionScenarios = append(s.SubTransactionScenarios[:i], s.SubTransactionScenarios[i+1:]...)
			return true
		}
	}
	for i := range s.ProjectedSpending {
		if s.ProjectedSpending[i].ID == id {
			s.ProjectedSpending = append(s.ProjectedSpending[:i], s.ProjectedSpending[i+1:]...)
			return true
		}
	}
	return false
}

// SetScenarioEnabled toggles the scenario with the given id.
func SetScenarioEnabled(s *model.Settings, id string, enabled bool) bool {
	for i := range s.TransactionScenarios {
		if s.TransactionScenarios[i].ID == id {
			s.TransactionScenarios[i].IsEnabled = enabled
			return true
		}
	}
	for i := range s.SubTransactionScenarios {
		if s.SubTransactionScenarios[i].ID == id {
			s.SubTransactionScenarios[i].IsEnabled = enabled
			return true
		}
	}
	for i := range s.ProjectedSpending {
		if s.ProjectedSpending[i].ID == id {
			s.ProjectedSpending[i].IsEnabled = enabled
			return true
		}
	}
	return false
}
