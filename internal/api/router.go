package api

import (
	"net/http"
	"time"
	"transport-planning-service/internal/api/handlers"
	"transport-planning-service/internal/ports"
	"transport-planning-service/internal/services"
)

// NewRouter wires HTTP handlers with the run repository and planner tuning
// and returns an http.Handler.
func NewRouter(repo ports.RunRepository, opts services.PlannerOptions, timeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{
		Repo:           repo,
		Options:        opts,
		DefaultTimeout: timeout,
	}
	runHandler := &handlers.RunHandler{Repo: repo}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/runs", runHandler.List)

	return requestIDMiddleware(loggingMiddleware(mux))
}
