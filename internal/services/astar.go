package services

import (
	"context"
	"time"
	"transport-planning-service/internal/domain"
	"transport-planning-service/internal/frontier"
	"transport-planning-service/internal/routing"
	"transport-planning-service/internal/state"
)

// Best-first forward search ranked by cost plus heuristic estimate. A closed
// state reached again at a lower cost is reopened.
//
// Unless StopAtFirstSolution is set the search keeps going after the first
// goal, pruning every node that cannot beat the best plan found, until the
// frontier empties or ctx is done.
type AStar struct {
	Heuristic           Heuristic
	StopAtFirstSolution bool
	Logger              Logger
	LogEvery            int
}

func (a *AStar) Name() string { return "astar" }

func (a *AStar) Plan(ctx context.Context, d *domain.Domain, p *domain.Problem) (domain.Plan, bool) {
	if d.Labels().Fuel {
		return planWithoutFuel(ctx, a.search, d, p, loggerOrDefault(a.Logger), a.Name())
	}
	return a.search(ctx, d, p)
}

func (a *AStar) search(ctx context.Context, d *domain.Domain, p *domain.Problem) (domain.Plan, bool) {
	logger := loggerOrDefault(a.Logger)
	every := logEveryOrDefault(a.LogEvery)
	start := time.Now()

	m := routing.NewMatrix(p.Graph())
	h := newHeuristicMemo(m, a.Heuristic)

	var queue frontier.Queue[*state.State] = frontier.NewBinaryHeap[*state.State]()
	entries := state.NewMap[*frontier.Entry[*state.State]]()
	gScore := state.NewMap[int]()
	closed := state.NewSet()

	root := state.New(p)
	if est := h.estimate(root); est != routing.Unreachable {
		entries.Put(root, queue.Insert(root, est))
		gScore.Put(root, 0)
	}

	var best *state.State
	explored, reopened := 0, 0

	for queue.Len() > 0 {
		if ctx.Err() != nil {
			logger.Printf("planner=astar cancelled explored=%d found=%t dur=%dms", explored, best != nil, sinceMillis(start))
			break
		}

		e, _ := queue.ExtractMin()
		cur := e.Item
		entries.Delete(cur)

		if best != nil && cur.Cost() >= best.Cost() {
			continue
		}
		if cur.IsGoal() {
			best = cur
			logger.Printf("planner=astar found actions=%d cost=%d explored=%d dur=%dms",
				cur.Depth(), cur.Cost(), explored, sinceMillis(start))
			if a.StopAtFirstSolution {
				break
			}
			continue
		}

		closed.Add(cur)
		explored++
		if explored%every == 0 {
			logger.Printf("planner=astar explored=%d open=%d closed=%d reopened=%d", explored, queue.Len(), closed.Len(), reopened)
		}

		for _, act := range generateActions(d, cur, m) {
			next, ok := cur.Apply(act)
			if !ok {
				continue
			}

			tentative := next.Cost()
			if best != nil && tentative >= best.Cost() {
				continue
			}
			if old, ok := gScore.Get(next); ok && old <= tentative {
				continue
			}
			est := h.estimate(next)
			if est == routing.Unreachable {
				continue
			}
			gScore.Put(next, tentative)
			if closed.Delete(next) {
				reopened++
			}

			f := tentative + est
			if en, ok := entries.Get(next); ok {
				en.Item = next
				queue.DecreaseKey(en, f)
				continue
			}
			entries.Put(next, queue.Insert(next, f))
		}
	}

	if best == nil {
		logger.Printf("planner=astar no plan explored=%d dur=%dms", explored, sinceMillis(start))
		return nil, false
	}
	return best.Plan(), true
}
