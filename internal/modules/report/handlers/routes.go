package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RegisterRoutes registers all risk and scenario routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/risk", func(r chi.Router) {
		// Full-catalog report builds run six Monte Carlo batches
		r.Use(middleware.Timeout(120 * time.Second))

		r.Post("/report", h.HandleBuildReport)
		r.Post("/report/csv", h.HandleReportCSV)
		r.Post("/simulate", h.HandleSimulate)
		r.Post("/scenarios/compare", h.HandleCompareScenarios)
	})

	r.Route("/api/scenarios", func(r chi.Router) {
		r.Get("/", h.HandleListScenarios)
		r.Get("/presets", h.HandleSeverityPreset)
		r.Get("/{id}", h.HandleGetScenario)
		r.Get("/{id}/projection", h.HandleProjectHazard)
	})
}
