package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"transport-planning-service/internal/domain"
	"transport-planning-service/internal/platform/obs"
)

// SQLRunRepository stores runs in Postgres through the pgx stdlib driver.
type SQLRunRepository struct {
	DB *sql.DB
}

func NewSQLRunRepository(db *sql.DB) *SQLRunRepository {
	return &SQLRunRepository{DB: db}
}

func (s *SQLRunRepository) SaveRun(ctx context.Context, run domain.PlanRun) (err error) {
	defer obs.Time(ctx, "runs.save")(&err)

	if s.DB == nil {
		return errors.New("run repository: db is nil")
	}

	actions, err := encodeActions(run.Actions)
	if err != nil {
		return fmt.Errorf("save run %q: %w", run.RunID, err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO plan_runs (
		run_id, problem, planner, found, score, makespan, duration_ms, actions, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)
	ON CONFLICT (run_id) DO NOTHING;
	`,
		run.RunID, run.Problem, run.Planner, run.Found, run.Score,
		run.Makespan, run.DurationMs, actions, run.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save run %q: insert plan_runs: %w", run.RunID, err)
	}
	return nil
}

func (s *SQLRunRepository) ListRuns(ctx context.Context, limit int) (_ []domain.PlanRun, err error) {
	defer obs.Time(ctx, "runs.list")(&err)

	if s.DB == nil {
		return nil, errors.New("run repository: db is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT run_id, problem, planner, found, score, makespan, duration_ms, actions::text, created_at
	FROM plan_runs
	ORDER BY created_at DESC, run_id
	LIMIT $1;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query plan_runs table: %w", err)
	}
	defer rows.Close()

	var runs []domain.PlanRun
	for rows.Next() {
		var run domain.PlanRun
		var actions string
		if err := rows.Scan(&run.RunID, &run.Problem, &run.Planner, &run.Found, &run.Score,
			&run.Makespan, &run.DurationMs, &actions, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("list runs: scan rows: %w", err)
		}
		if run.Actions, err = decodeActions([]byte(actions)); err != nil {
			return nil, fmt.Errorf("list runs: run %q: %w", run.RunID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return runs, nil
}
