package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

const createRunsSQLite = `
CREATE TABLE IF NOT EXISTS plan_runs (
	run_id TEXT PRIMARY KEY,
	problem TEXT NOT NULL,
	planner TEXT NOT NULL,
	found INTEGER NOT NULL,
	score REAL NOT NULL,
	makespan INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	actions TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

const createRunsPostgres = `
CREATE TABLE IF NOT EXISTS plan_runs (
	run_id TEXT PRIMARY KEY,
	problem TEXT NOT NULL,
	planner TEXT NOT NULL,
	found BOOLEAN NOT NULL,
	score DOUBLE PRECISION NOT NULL,
	makespan INTEGER NOT NULL,
	duration_ms BIGINT NOT NULL,
	actions JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

const createRunsIndex = `
CREATE INDEX IF NOT EXISTS idx_plan_runs_created_at
ON plan_runs(created_at);
`

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	return initSchema(db, createRunsSQLite, createRunsIndex)
}

// Initialize the Postgres database schema.
func InitPostgresSchema(db *sql.DB) error {
	return initSchema(db, createRunsPostgres, createRunsIndex)
}

func initSchema(db *sql.DB, statements ...string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
