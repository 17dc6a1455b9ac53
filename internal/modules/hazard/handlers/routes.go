package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all hazard routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/hazard", func(r chi.Router) {
		r.Get("/damage-ratio", h.HandleDamageRatio)
		r.Post("/assess", h.HandleAssess)

		r.Route("/regions", func(r chi.Router) {
			r.Get("/", h.HandleListRegions)
			r.Post("/", h.HandleUpsertRegion)
		})

		r.Route("/intensity", func(r chi.Router) {
			r.Get("/", h.HandleIntensity)
			r.Put("/", h.HandleUpsertIntensity)
		})
	})
}
