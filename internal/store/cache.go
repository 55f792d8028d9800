// Package store provides a SQLite-backed cache for parsed budgets and
// forecast results, plus a history of forecast runs.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/envcast/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed budget and forecast caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveBudget stores a parsed budget and its file tracking info. Cached
// forecasts of the previous version of the file are dropped.
func (c *Cache) SaveBudget(b *model.Budget, mtimeNs, sizeBytes int64) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encoding budget: %w", err)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	lastModified := ""
	if !b.LastModifiedOn.IsZero() {
		lastModified = b.LastModifiedOn.UTC().Format(time.RFC3339)
	}

	if _, err := tx.Exec("DELETE FROM forecast_cache WHERE file_path = ?", b.FilePath); err != nil {
		return err
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO budgets
		(file_path, budget_id, name, last_modified_on, months, scheduled,
		 payload, file_mtime_ns, file_size, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.FilePath, b.ID, b.Name, lastModified, len(b.Months), len(b.ScheduledTransactions),
		payload, mtimeNs, sizeBytes, now,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?)`, b.FilePath, mtimeNs, sizeBytes)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadAllBudgets reads every cached budget.
func (c *Cache) LoadAllBudgets() ([]*model.Budget, error) {
	rows, err := c.db.Query("SELECT file_path, payload FROM budgets ORDER BY file_path")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var budgets []*model.Budget
	for rows.Next() {
		var path string
		var payload []byte
		if err := rows.Scan(&path, &payload); err != nil {
			return nil, err
		}
		var b model.Budget
		if err := json.Unmarshal(payload, &b); err != nil {
			return nil, fmt.Errorf("decoding cached budget %s: %w", path, err)
		}
		b.FilePath = path
		budgets = append(budgets, &b)
	}
	return budgets, rows.Err()
}

// DeleteBudget removes a budget and its cached forecasts.
func (c *Cache) DeleteBudget(filePath string) error {
	_, err := c.db.Exec("DELETE FROM budgets WHERE file_path = ?", filePath)
	return err
}

// DeleteFileTracker removes a file tracking entry.
func (c *Cache) DeleteFileTracker(filePath string) error {
	_, err := c.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath)
	return err
}

// BudgetCount returns the number of cached budgets.
func (c *Cache) BudgetCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM budgets").Scan(&count)
	return count, err
}

// ForecastKey identifies one cached forecast. A forecast depends on the
// budget file, the day it was built for, the horizon and the scenarios.
type ForecastKey struct {
	FilePath     string
	AsOf         time.Time
	Months       int
	SettingsHash string
}

// SaveForecast stores an encoded forecast result.
func (c *Cache) SaveForecast(k ForecastKey, payload []byte) error {
	_, err := c.db.Exec(`INSERT OR REPLACE INTO forecast_cache
		(file_path, as_of, months, settings_hash, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		k.FilePath, k.AsOf.Format(time.DateOnly), k.Months, k.SettingsHash, payload,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// LoadForecast returns the encoded forecast stored under k, if any.
func (c *Cache) LoadForecast(k ForecastKey) ([]byte, bool, error) {
	var payload []byte
	err := c.db.QueryRow(`SELECT payload FROM forecast_cache
		WHERE file_path = ? AND as_of = ? AND months = ? AND settings_hash = ?`,
		k.FilePath, k.AsOf.Format(time.DateOnly), k.Months, k.SettingsHash,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// PruneForecasts drops cached forecasts built for days before asOf.
func (c *Cache) PruneForecasts(asOf time.Time) (int64, error) {
	res, err := c.db.Exec("DELETE FROM forecast_cache WHERE as_of < ?", asOf.Format(time.DateOnly))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
