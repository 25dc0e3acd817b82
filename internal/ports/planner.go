package ports

import (
	"context"
	"transport-planning-service/internal/domain"
)

// Contract for planners that search a problem for a plan.
type Planner interface {
	Name() string
	// Return a plan, or false when none was found before the search space
	// was exhausted or ctx was done.
	Plan(ctx context.Context, d *domain.Domain, p *domain.Problem) (domain.Plan, bool)
}
