package services

import (
	"context"
	"log"
	"time"
	"transport-planning-service/internal/domain"
	"transport-planning-service/internal/temporal"
)

const defaultLogEvery = 100_000

// Sink for planner progress lines. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

func loggerOrDefault(l Logger) Logger {
	if l == nil {
		return log.Default()
	}
	return l
}

func logEveryOrDefault(n int) int {
	if n <= 0 {
		return defaultLogEvery
	}
	return n
}

func sinceMillis(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

type searchFunc func(ctx context.Context, d *domain.Domain, p *domain.Problem) (domain.Plan, bool)

// Search states ignore fuel, so a fuel domain is searched without fuel and
// the refuels are placed on the plan found.
func planWithoutFuel(ctx context.Context, search searchFunc, d *domain.Domain, p *domain.Problem, logger Logger, name string) (domain.Plan, bool) {
	plan, ok := search(ctx, d.WithoutFuel(), temporal.ToSequentialProblem(p))
	if !ok {
		return nil, false
	}
	out, err := temporal.InsertRefuels(d, p, plan.Actions())
	if err != nil {
		logger.Printf("planner=%s refuel failed err=%v", name, err)
		return nil, false
	}
	logger.Printf("planner=%s refuelled actions=%d cost=%d", name, out.Len(), out.TotalCost())
	return out, true
}
