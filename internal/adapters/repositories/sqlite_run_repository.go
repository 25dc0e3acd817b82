package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"transport-planning-service/internal/domain"
	"transport-planning-service/internal/platform/obs"
)

// Fixed width so created_at sorts as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite-backed implementation of the RunRepository port.
type SqliteRunRepository struct{ DB *sql.DB }

func NewSqliteRunRepository(db *sql.DB) *SqliteRunRepository {
	return &SqliteRunRepository{DB: db}
}

func (s *SqliteRunRepository) SaveRun(ctx context.Context, run domain.PlanRun) (err error) {
	defer obs.Time(ctx, "runs.save")(&err)

	if s.DB == nil {
		return errors.New("sqlite run repository: DB is nil")
	}

	actions, err := encodeActions(run.Actions)
	if err != nil {
		return fmt.Errorf("save run %q: %w", run.RunID, err)
	}

	query := `
	INSERT INTO plan_runs (
		run_id, problem, planner, found, score, makespan, duration_ms, actions, created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = s.DB.ExecContext(ctx, query,
		run.RunID, run.Problem, run.Planner, run.Found, run.Score,
		run.Makespan, run.DurationMs, actions, run.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("save run %q: insert plan_runs: %w", run.RunID, err)
	}
	return nil
}

// Return the most recent runs, newest first.
func (s *SqliteRunRepository) ListRuns(ctx context.Context, limit int) (_ []domain.PlanRun, err error) {
	defer obs.Time(ctx, "runs.list")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite run repository: DB is nil")
	}

	query := `
	SELECT
		run_id, problem, planner, found, score, makespan, duration_ms, actions, created_at
	FROM plan_runs
	ORDER BY created_at DESC, run_id
	LIMIT ?;
	`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query plan_runs table: %w", err)
	}
	defer rows.Close()

	runs := make([]domain.PlanRun, 0, limit)
	for rows.Next() {
		var run domain.PlanRun
		var actions, created string
		err := rows.Scan(&run.RunID, &run.Problem, &run.Planner, &run.Found, &run.Score,
			&run.Makespan, &run.DurationMs, &actions, &created)
		if err != nil {
			return nil, fmt.Errorf("list runs: scan row: %w", err)
		}
		if run.Actions, err = decodeActions([]byte(actions)); err != nil {
			return nil, fmt.Errorf("list runs: run %q: %w", run.RunID, err)
		}
		if run.CreatedAt, err = time.Parse(createdAtLayout, created); err != nil {
			return nil, fmt.Errorf("list runs: run %q: parse created_at: %w", run.RunID, err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return runs, nil
}

func encodeActions(actions []string) (string, error) {
	if actions == nil {
		actions = []string{}
	}
	b, err := json.Marshal(actions)
	if err != nil {
		return "", fmt.Errorf("encode actions: %w", err)
	}
	return string(b), nil
}

func decodeActions(b []byte) ([]string, error) {
	var actions []string
	if err := json.Unmarshal(b, &actions); err != nil {
		return nil, fmt.Errorf("decode actions: %w", err)
	}
	return actions, nil
}
