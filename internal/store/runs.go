package store

import (
	"database/sql"
	"time"
)

// runTimeLayout keeps started_at sortable as text.
const runTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one recorded forecast build.
type Run struct {
	ID           string
	BudgetID     string
	BudgetName   string
	FilePath     string
	Months       int
	SettingsHash string
	StartedAt    time.Time
	Duration     time.Duration
	Transactions int
	IncomeTotal  int64
	ExpenseTotal int64
	SweptTotal   int64
	Underfunded  int
	Cached       bool
	Err          string
}

// RecordRun appends a run to the history.
func (c *Cache) RecordRun(r Run) error {
	cached := 0
	if r.Cached {
		cached = 1
	}
	var errText sql.NullString
	if r.Err != "" {
		errText = sql.NullString{String: r.Err, Valid: true}
	}
	_, err := c.db.Exec(`INSERT INTO forecast_runs
		(run_id, budget_id, budget_name, file_path, months, settings_hash, started_at,
		 duration_ms, transactions, income_total, expense_total, swept_total,
		 underfunded, cached, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.BudgetID, r.BudgetName, r.FilePath, r.Months, r.SettingsHash,
		r.StartedAt.UTC().Format(runTimeLayout), r.Duration.Milliseconds(),
		r.Transactions, r.IncomeTotal, r.ExpenseTotal, r.SweptTotal,
		r.Underfunded, cached, errText,
	)
	return err
}

// RecentRuns returns up to limit runs, newest first.
func (c *Cache) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := c.db.Query(`SELECT
		run_id, budget_id, budget_name, file_path, months, settings_hash, started_at,
		duration_ms, transactions, income_total, expense_total, swept_total,
		underfunded, cached, error
		FROM forecast_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		var durationMs int64
		var cached int
		var errText sql.NullString
		err := rows.Scan(
			&r.ID, &r.BudgetID, &r.BudgetName, &r.FilePath, &r.Months, &r.SettingsHash, &started,
			&durationMs, &r.Transactions, &r.IncomeTotal, &r.ExpenseTotal, &r.SweptTotal,
			&r.Underfunded, &cached, &errText,
		)
		if err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(runTimeLayout, started)
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.Cached = cached != 0
		if errText.Valid {
			r.Err = errText.String
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ClearRuns deletes the run history.
func (c *Cache) ClearRuns() error {
	_, err := c.db.Exec("DELETE FROM forecast_runs")
	return err
}
