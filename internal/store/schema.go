package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS budgets (
    file_path            TEXT PRIMARY KEY,
    budget_id            TEXT NOT NULL,
    name                 TEXT NOT NULL,
    last_modified_on     TEXT,
    months               INTEGER NOT NULL,
    scheduled            INTEGER NOT NULL,
    payload              BLOB NOT NULL,
    file_mtime_ns        INTEGER NOT NULL,
    file_size            INTEGER NOT NULL,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS forecast_cache (
    file_path            TEXT NOT NULL REFERENCES budgets(file_path) ON DELETE CASCADE,
    as_of                TEXT NOT NULL,
    months               INTEGER NOT NULL,
    settings_hash        TEXT NOT NULL,
    payload              BLOB NOT NULL,
    created_at           TEXT NOT NULL,
    PRIMARY KEY (file_path, as_of, months, settings_hash)
);

CREATE TABLE IF NOT EXISTS forecast_runs (
    run_id               TEXT PRIMARY KEY,
    budget_id            TEXT NOT NULL,
    budget_name          TEXT NOT NULL,
    file_path            TEXT NOT NULL,
    months               INTEGER NOT NULL,
    settings_hash        TEXT NOT NULL,
    started_at           TEXT NOT NULL,
    duration_ms          INTEGER NOT NULL,
    transactions         INTEGER NOT NULL DEFAULT 0,
    income_total         INTEGER NOT NULL DEFAULT 0,
    expense_total        INTEGER NOT NULL DEFAULT 0,
    swept_total          INTEGER NOT NULL DEFAULT 0,
    underfunded          INTEGER NOT NULL DEFAULT 0,
    cached               INTEGER NOT NULL DEFAULT 0,
    error                TEXT
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_budgets_budget_id ON budgets(budget_id);
CREATE INDEX IF NOT EXISTS idx_runs_started ON forecast_runs(started_at);
`
