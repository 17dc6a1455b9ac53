package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/portfolio", func(r chi.Router) {
		r.Route("/assets", func(r chi.Router) {
			r.Get("/", h.HandleListAssets)
			r.Post("/", h.HandleAddAsset)
			r.Put("/", h.HandleReplaceAssets)
		})

		r.Get("/summary", h.HandleSummary)
	})
}
