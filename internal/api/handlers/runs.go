package handlers

import (
	"log"
	"net/http"
	"strconv"
	"transport-planning-service/internal/api/dto"
	"transport-planning-service/internal/platform/obs"
	"transport-planning-service/internal/ports"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 100
)

// RunHandler exposes read-only access to recorded planner runs.
type RunHandler struct {
	Repo ports.RunRepository
}

func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRunLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	runs, err := h.Repo.ListRuns(r.Context(), limit)
	if err != nil {
		log.Printf("req_id=%s list runs failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRunsResponse{Runs: make([]dto.RunResponse, 0, len(runs))}
	for _, run := range runs {
		actions := run.Actions
		if actions == nil {
			actions = []string{}
		}
		res.Runs = append(res.Runs, dto.RunResponse{
			RunID:      run.RunID,
			Problem:    run.Problem,
			Planner:    run.Planner,
			Found:      run.Found,
			Score:      run.Score,
			Makespan:   run.Makespan,
			DurationMs: run.DurationMs,
			Actions:    actions,
			CreatedAt:  run.CreatedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
