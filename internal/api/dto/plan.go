package dto

import "transport-planning-service/internal/adapters/problemfile"

type PlanRequest struct {
	Problem   problemfile.File `json:"problem"`
	Planner   string           `json:"planner"`
	Score     string           `json:"score"`
	TimeoutMs int              `json:"timeout_ms"`
	// Schedule the plan onto a timeline even if the problem's domain is
	// sequential.
	Temporal bool `json:"temporal"`
}

type PlanActionResponse struct {
	Action string `json:"action"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

type PlanResponse struct {
	RunID      string               `json:"run_id"`
	Planner    string               `json:"planner"`
	Found      bool                 `json:"found"`
	Score      float64              `json:"score"`
	Makespan   int                  `json:"makespan"`
	DurationMs int64                `json:"duration_ms"`
	Actions    []PlanActionResponse `json:"actions"`
}
