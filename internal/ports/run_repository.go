package ports

import (
	"context"
	"transport-planning-service/internal/domain"
)

// Port: a boundary for persisting planner runs.
type RunRepository interface {
	SaveRun(ctx context.Context, run domain.PlanRun) error
	// Retrieve the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.PlanRun, error)
}
