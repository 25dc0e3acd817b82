package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"transport-planning-service/internal/domain"
	"transport-planning-service/internal/platform/obs"
	"transport-planning-service/internal/ports"
	"transport-planning-service/internal/temporal"

	"github.com/google/uuid"
)

const DefaultTimeout = 10 * time.Second

// ErrBadRequest marks requests that name an unknown planner or score, or
// carry no problem.
var ErrBadRequest = errors.New("bad planning request")

// Tuning shared by the planners NewPlanner builds.
type PlannerOptions struct {
	Exploration float64
	Temperature float64
	RefuelMin   float64
	RefuelMax   float64
	RefuelStep  float64
	RefuelEvery int
	Seed        uint64

	Score  domain.ScoreFunction
	Logger Logger
}

// Return options matching NewRandomized.
func DefaultPlannerOptions() PlannerOptions {
	r := NewRandomized()
	return PlannerOptions{
		Exploration: r.Exploration,
		Temperature: r.Temperature,
		RefuelMin:   r.RefuelMin,
		RefuelMax:   r.RefuelMax,
		RefuelStep:  r.RefuelStep,
		RefuelEvery: r.RefuelEvery,
		Seed:        r.Seed,
	}
}

// Return the planner registered under name: bfs, astar, randomized or
// portfolio (astar and randomized side by side).
func NewPlanner(name string, opts PlannerOptions) (ports.Planner, error) {
	switch name {
	case "bfs":
		return &BFS{Logger: opts.Logger}, nil
	case "astar", "":
		return &AStar{Logger: opts.Logger}, nil
	case "randomized":
		return newRandomized(opts), nil
	case "portfolio":
		return &Portfolio{
			Planners: []ports.Planner{&AStar{Logger: opts.Logger}, newRandomized(opts)},
			Score:    opts.Score,
			Logger:   opts.Logger,
		}, nil
	default:
		return nil, fmt.Errorf("new planner: unknown planner %q", name)
	}
}

func newRandomized(opts PlannerOptions) *Randomized {
	return &Randomized{
		Exploration: opts.Exploration,
		Temperature: opts.Temperature,
		RefuelMin:   opts.RefuelMin,
		RefuelMax:   opts.RefuelMax,
		RefuelStep:  opts.RefuelStep,
		RefuelEvery: opts.RefuelEvery,
		Seed:        opts.Seed,
		Score:       opts.Score,
		Logger:      opts.Logger,
	}
}

type PlanDeliveriesRequest struct {
	Problem *domain.Problem
	Domain  *domain.Domain
	Planner string
	Score   string
	Timeout time.Duration
}

type PlanDeliveriesResult struct {
	RunID    string
	Planner  string
	Found    bool
	Plan     domain.Plan
	Score    float64
	Makespan int
	Duration time.Duration
}

// PlanDeliveries runs one planner on a problem within the request timeout
// and records the run.
//
// Temporal domains are planned sequentially on the problem with fuel
// removed, then scheduled onto a timeline for the requested domain.
// Otherwise the plan comes straight from the planner.
func PlanDeliveries(
	ctx context.Context,
	req PlanDeliveriesRequest,
	opts PlannerOptions,
	repo ports.RunRepository,
) (_ *PlanDeliveriesResult, err error) {
	defer obs.Time(ctx, "plan.deliveries")(&err)

	if req.Problem == nil {
		return nil, fmt.Errorf("plan deliveries: problem must be non-nil: %w", ErrBadRequest)
	}
	d := req.Domain
	if d == nil {
		d = domain.NewSequentialDomain()
	}

	score, err := domain.ScoreByName(req.Score)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w: %w", ErrBadRequest, err)
	}
	opts.Score = score

	planner, err := NewPlanner(req.Planner, opts)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w: %w", ErrBadRequest, err)
	}

	searchDomain, searchProblem := d, req.Problem
	if d.Labels().Temporal {
		searchDomain = domain.NewSequentialDomain()
		searchProblem = temporal.ToSequentialProblem(req.Problem)
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	planCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	plan, found := planner.Plan(planCtx, searchDomain, searchProblem)

	res := &PlanDeliveriesResult{
		RunID:   uuid.NewString(),
		Planner: planner.Name(),
		Found:   found,
	}

	if found && d.Labels().Temporal {
		scheduled, err := temporal.Schedule(d, req.Problem, plan.Actions())
		if err != nil {
			return nil, fmt.Errorf("plan deliveries: problem %q: %w", req.Problem.Name(), err)
		}
		plan = scheduled
	}
	res.Duration = time.Since(start)

	if found {
		res.Plan = plan
		res.Score = score(d, req.Problem, plan)
		res.Makespan = int(domain.ScoreTotalTime(d, req.Problem, plan))
	}

	if repo != nil {
		if err := repo.SaveRun(ctx, toRun(req.Problem.Name(), res)); err != nil {
			return nil, fmt.Errorf("plan deliveries: save run: %w", err)
		}
	}

	return res, nil
}

func toRun(problem string, res *PlanDeliveriesResult) domain.PlanRun {
	run := domain.PlanRun{
		RunID:      res.RunID,
		Problem:    problem,
		Planner:    res.Planner,
		Found:      res.Found,
		Score:      res.Score,
		Makespan:   res.Makespan,
		DurationMs: res.Duration.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if res.Plan != nil {
		for _, a := range res.Plan.Actions() {
			run.Actions = append(run.Actions, a.String())
		}
	}
	return run
}
