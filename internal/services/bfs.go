package services

import (
	"context"
	"slices"
	"time"
	"transport-planning-service/internal/domain"
	"transport-planning-service/internal/routing"
	"transport-planning-service/internal/state"
)

// Breadth-first forward search. Returns a plan with the fewest actions in
// the pruned search space; children of a node are queued cheapest first.
type BFS struct {
	Logger   Logger
	LogEvery int
}

func (b *BFS) Name() string { return "bfs" }

// Plan searches until the first goal is popped, the frontier is empty or ctx
// is done. The last two report no plan.
func (b *BFS) Plan(ctx context.Context, d *domain.Domain, p *domain.Problem) (domain.Plan, bool) {
	if d.Labels().Fuel {
		return planWithoutFuel(ctx, b.search, d, p, loggerOrDefault(b.Logger), b.Name())
	}
	return b.search(ctx, d, p)
}

func (b *BFS) search(ctx context.Context, d *domain.Domain, p *domain.Problem) (domain.Plan, bool) {
	logger := loggerOrDefault(b.Logger)
	every := logEveryOrDefault(b.LogEvery)
	start := time.Now()

	m := routing.NewMatrix(p.Graph())
	root := state.New(p)

	seen := state.NewSet()
	seen.Add(root)
	queue := []*state.State{root}
	explored := 0

	for len(queue) > 0 {
		if ctx.Err() != nil {
			logger.Printf("planner=bfs cancelled explored=%d dur=%dms", explored, sinceMillis(start))
			return nil, false
		}

		cur := queue[0]
		queue[0] = nil
		queue = queue[1:]

		if cur.IsGoal() {
			logger.Printf("planner=bfs found actions=%d cost=%d explored=%d dur=%dms",
				cur.Depth(), cur.Cost(), explored, sinceMillis(start))
			return cur.Plan(), true
		}

		explored++
		if explored%every == 0 {
			logger.Printf("planner=bfs explored=%d open=%d depth=%d", explored, len(queue), cur.Depth())
		}

		var children []*state.State
		for _, a := range generateActions(d, cur, m) {
			next, ok := cur.Apply(a)
			if !ok {
				continue
			}
			children = append(children, next)
		}
		slices.SortStableFunc(children, func(x, y *state.State) int { return x.Cost() - y.Cost() })

		for _, c := range children {
			if seen.Add(c) {
				queue = append(queue, c)
			}
		}
	}

	logger.Printf("planner=bfs exhausted explored=%d dur=%dms", explored, sinceMillis(start))
	return nil, false
}
