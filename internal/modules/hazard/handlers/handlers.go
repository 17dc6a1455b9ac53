// Package handlers provides HTTP handlers for hazard damage curves and
// regional hazard data.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/aristath/climrisk/internal/domain"
	"github.com/aristath/climrisk/internal/modules/hazard"
)

// Handler handles hazard HTTP requests
type Handler struct {
	repo *hazard.Repository
	log  zerolog.Logger
}

// NewHandler creates a new hazard handler
func NewHandler(repo *hazard.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "hazard").Logger(),
	}
}

// HandleDamageRatio handles GET /api/hazard/damage-ratio
//
// Query parameters: type (required), intensity (required), asset_type,
// construction.
func (h *Handler) HandleDamageRatio(w http.ResponseWriter, r *http.Request) {
	hazardType := hazard.Type(r.URL.Query().Get("type"))
	if hazardType == "" {
		h.writeError(w, http.StatusBadRequest, "Missing hazard type")
		return
	}

	intensity, err := strconv.ParseFloat(r.URL.Query().Get("intensity"), 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid intensity: "+err.Error())
		return
	}

	opts := optionsFromQuery(r)

	ratio, err := hazard.DamageRatio(hazardType, intensity, opts...)
	if err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"hazard_type":  hazardType,
		"intensity":    intensity,
		"damage_ratio": ratio,
	})
}

// HandleAssess handles POST /api/hazard/assess
func (h *Handler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	var request struct {
		HazardType   hazard.Type             `json:"hazard_type"`
		Intensity    float64                 `json:"intensity"`
		AssetValue   float64                 `json:"asset_value"`
		AssetType    domain.AssetType        `json:"asset_type"`
		Construction hazard.ConstructionType `json:"construction"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var opts []hazard.Option
	if request.AssetType != "" {
		opts = append(opts, hazard.WithAssetType(request.AssetType))
	}
	if request.Construction != "" {
		opts = append(opts, hazard.WithConstruction(request.Construction))
	}

	assessment, err := hazard.Assess(request.HazardType, request.Intensity, request.AssetValue, opts...)
	if err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, assessment)
}

// HandleListRegions handles GET /api/hazard/regions
func (h *Handler) HandleListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.repo.ListRegions()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list regions")
		h.writeError(w, http.StatusInternalServerError, "Failed to list regions")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"regions": regions,
		"count":   len(regions),
	})
}

// HandleUpsertRegion handles POST /api/hazard/regions
func (h *Handler) HandleUpsertRegion(w http.ResponseWriter, r *http.Request) {
	var profile hazard.RegionProfile

	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if profile.Region == "" {
		h.writeError(w, http.StatusBadRequest, "Missing region name")
		return
	}

	if err := h.repo.UpsertRegion(profile); err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleIntensity handles GET /api/hazard/intensity
//
// Query parameters: region, type, return_period.
func (h *Handler) HandleIntensity(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	hazardType := hazard.Type(r.URL.Query().Get("type"))
	if region == "" || hazardType == "" {
		h.writeError(w, http.StatusBadRequest, "Missing region or hazard type")
		return
	}

	returnPeriod, err := strconv.Atoi(r.URL.Query().Get("return_period"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid return_period: "+err.Error())
		return
	}

	intensity, err := h.repo.Intensity(region, hazardType, returnPeriod)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("region", region).Msg("Failed to load intensity")
		h.writeError(w, http.StatusInternalServerError, "Failed to load intensity")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"region":        region,
		"hazard_type":   hazardType,
		"return_period": returnPeriod,
		"intensity":     intensity,
	})
}

// HandleUpsertIntensity handles PUT /api/hazard/intensity
func (h *Handler) HandleUpsertIntensity(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Region       string      `json:"region"`
		HazardType   hazard.Type `json:"hazard_type"`
		ReturnPeriod int         `json:"return_period"`
		Intensity    float64     `json:"intensity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if request.Region == "" || request.HazardType == "" {
		h.writeError(w, http.StatusBadRequest, "Missing region or hazard type")
		return
	}

	if err := h.repo.UpsertIntensity(request.Region, request.HazardType, request.ReturnPeriod, request.Intensity); err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func optionsFromQuery(r *http.Request) []hazard.Option {
	var opts []hazard.Option
	if at := r.URL.Query().Get("asset_type"); at != "" {
		opts = append(opts, hazard.WithAssetType(domain.AssetType(at)))
	}
	if c := r.URL.Query().Get("construction"); c != "" {
		opts = append(opts, hazard.WithConstruction(hazard.ConstructionType(c)))
	}
	return opts
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
