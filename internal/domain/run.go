package domain

import "time"

// Record of one planner invocation, kept for later inspection.
type PlanRun struct {
	RunID      string
	Problem    string
	Planner    string
	Found      bool
	Score      float64
	Actions    []string
	Makespan   int
	DurationMs int64
	CreatedAt  time.Time
}
