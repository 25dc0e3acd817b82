package dto

import "time"

type RunResponse struct {
	RunID      string    `json:"run_id"`
	Problem    string    `json:"problem"`
	Planner    string    `json:"planner"`
	Found      bool      `json:"found"`
	Score      float64   `json:"score"`
	Makespan   int       `json:"makespan"`
	DurationMs int64     `json:"duration_ms"`
	Actions    []string  `json:"actions"`
	CreatedAt  time.Time `json:"created_at"`
}

type ListRunsResponse struct {
	Runs []RunResponse `json:"runs"`
}
