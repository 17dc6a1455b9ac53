// Package handlers provides HTTP handlers for portfolio asset management.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aristath/climrisk/internal/domain"
	"github.com/aristath/climrisk/internal/events"
	"github.com/aristath/climrisk/internal/modules/portfolio"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	service *portfolio.Service
	bus     *events.Bus
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler. bus may be nil when event
// streaming is disabled.
func NewHandler(service *portfolio.Service, bus *events.Bus, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		bus:     bus,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

// HandleListAssets handles GET /api/portfolio/assets
func (h *Handler) HandleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.service.Load()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load portfolio")
		h.writeError(w, http.StatusInternalServerError, "Failed to load portfolio")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"assets":      assets,
		"count":       len(assets),
		"total_value": assets.TotalValue(),
	})
}

// HandleAddAsset handles POST /api/portfolio/assets
func (h *Handler) HandleAddAsset(w http.ResponseWriter, r *http.Request) {
	var asset domain.Asset

	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.Add(asset); err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.emitChanged(1)
	h.writeJSON(w, http.StatusCreated, map[string]string{
		"status":   "created",
		"asset_id": asset.ID,
	})
}

// HandleReplaceAssets handles PUT /api/portfolio/assets
//
// Replaces the entire portfolio atomically. Empty lists are rejected.
func (h *Handler) HandleReplaceAssets(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Assets domain.Portfolio `json:"assets"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.Store(request.Assets); err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.emitChanged(len(request.Assets))
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "replaced",
		"count":  len(request.Assets),
	})
}

// HandleSummary handles GET /api/portfolio/summary
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to summarize portfolio")
		h.writeError(w, http.StatusInternalServerError, "Failed to summarize portfolio")
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) emitChanged(count int) {
	if h.bus == nil {
		return
	}
	h.bus.Emit(events.PortfolioChanged, "portfolio", map[string]interface{}{
		"assets": count,
	})
}

func statusFor(err error) int {
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInvalidParameter) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
