package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"
	"transport-planning-service/internal/api/dto"
	"transport-planning-service/internal/domain"
	"transport-planning-service/internal/platform/obs"
	"transport-planning-service/internal/ports"
	"transport-planning-service/internal/services"
	"transport-planning-service/internal/temporal"
)

const maxTimeoutMs = 60_000

type PlanHandler struct {
	Repo    ports.RunRepository
	Options services.PlannerOptions
	// Used when a request leaves timeout_ms unset.
	DefaultTimeout time.Duration
}

// Plan decodes a problem, runs the requested planner on it and records the
// run. A request that finds no plan still succeeds with found=false.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.TimeoutMs < 0 || req.TimeoutMs > maxTimeoutMs {
		writeError(w, r, http.StatusBadRequest, "timeout_ms must be between 0 and 60000")
		return
	}
	timeout := time.Duration(req.TimeoutMs) * time.Millisecond
	if timeout == 0 {
		timeout = h.DefaultTimeout
	}

	problem, d, err := req.Problem.Build()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Temporal && !d.Labels().Temporal {
		d = domain.NewTemporalDomain(d.Labels().Fuel)
	}

	svcReq := services.PlanDeliveriesRequest{
		Problem: problem,
		Domain:  d,
		Planner: req.Planner,
		Score:   req.Score,
		Timeout: timeout,
	}

	res, err := services.PlanDeliveries(r.Context(), svcReq, h.Options, h.Repo)
	if err != nil {
		if errors.Is(err, services.ErrBadRequest) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, temporal.ErrNoStation) || errors.Is(err, temporal.ErrInvalidPlan) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.Printf("req_id=%s plan deliveries failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	out := dto.PlanResponse{
		RunID:      res.RunID,
		Planner:    res.Planner,
		Found:      res.Found,
		Score:      res.Score,
		Makespan:   res.Makespan,
		DurationMs: res.Duration.Milliseconds(),
		Actions:    []dto.PlanActionResponse{},
	}
	if res.Plan != nil {
		for _, ta := range res.Plan.TemporalActions() {
			out.Actions = append(out.Actions, dto.PlanActionResponse{
				Action: ta.Action.String(),
				Start:  ta.Start,
				End:    ta.End,
			})
		}
	}

	writeJSON(w, r, http.StatusOK, out)
}
