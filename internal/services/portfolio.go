package services

import (
	"context"
	"math"
	"slices"
	"strings"
	"transport-planning-service/internal/domain"
	"transport-planning-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

// Portfolio runs several planners concurrently on the same problem and
// returns the best-scoring plan. Each planner owns its caches; only the
// read-only problem is shared. Anytime planners run until ctx is done.
type Portfolio struct {
	Planners []ports.Planner
	Score    domain.ScoreFunction
	Logger   Logger
}

func (pf *Portfolio) Name() string { return "portfolio" }

type portfolioResult struct {
	planner string
	plan    domain.Plan
	score   float64
	found   bool
}

func (pf *Portfolio) Plan(ctx context.Context, d *domain.Domain, p *domain.Problem) (domain.Plan, bool) {
	logger := loggerOrDefault(pf.Logger)
	score := pf.Score
	if score == nil {
		score = domain.ScoreTotalCost
	}

	results := make([]portfolioResult, len(pf.Planners))
	g, gctx := errgroup.WithContext(ctx)
	for i, planner := range pf.Planners {
		g.Go(func() error {
			plan, ok := planner.Plan(gctx, d, p)
			res := portfolioResult{planner: planner.Name(), plan: plan, found: ok, score: math.Inf(1)}
			if ok {
				res.score = score(d, p, plan)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	ranked := rankResults(results)
	if len(ranked) == 0 {
		logger.Printf("planner=portfolio found=false planners=%d", len(pf.Planners))
		return nil, false
	}
	best := ranked[0]
	logger.Printf("planner=portfolio found=true winner=%s score=%g", best.planner, best.score)
	return best.plan, true
}

// Order found plans by score, then by planner name so ties are stable.
func rankResults(results []portfolioResult) []portfolioResult {
	var found []portfolioResult
	for _, r := range results {
		if r.found {
			found = append(found, r)
		}
	}
	slices.SortFunc(found, func(a, b portfolioResult) int {
		if a.score < b.score {
			return -1
		}
		if a.score > b.score {
			return 1
		}
		return strings.Compare(a.planner, b.planner)
	})
	return found
}
