// Package handlers provides HTTP handlers for risk reports, Monte Carlo
// simulation, and scenario comparison.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/climrisk/internal/config"
	"github.com/aristath/climrisk/internal/domain"
	"github.com/aristath/climrisk/internal/events"
	"github.com/aristath/climrisk/internal/modules/hazard"
	"github.com/aristath/climrisk/internal/modules/portfolio"
	"github.com/aristath/climrisk/internal/modules/report"
	"github.com/aristath/climrisk/internal/modules/scenario"
	"github.com/aristath/climrisk/internal/modules/simulation"
)

// Handler handles risk report, simulation, and scenario HTTP requests
type Handler struct {
	reports   *report.Service
	portfolio *portfolio.Service
	engine    *simulation.Engine
	archiver  *report.Archiver // optional
	bus       *events.Bus      // optional
	defaults  config.SimulationDefaults
	log       zerolog.Logger
}

// NewHandler creates a new report handler. archiver and bus may be nil.
func NewHandler(
	reports *report.Service,
	portfolioService *portfolio.Service,
	engine *simulation.Engine,
	archiver *report.Archiver,
	bus *events.Bus,
	defaults config.SimulationDefaults,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		reports:   reports,
		portfolio: portfolioService,
		engine:    engine,
		archiver:  archiver,
		bus:       bus,
		defaults:  defaults,
		log:       log.With().Str("handler", "report").Logger(),
	}
}

// reportRequest is the shared body for report and comparison endpoints.
// Zero-valued fields fall back to the configured simulation defaults; an
// empty scenario list means the full standardized catalog.
type reportRequest struct {
	Scenarios      []scenario.Input `json:"scenarios"`
	NumSimulations int              `json:"num_simulations"`
	HorizonSteps   int              `json:"horizon_steps"`
	Confidence     float64          `json:"confidence"`
	Correlation    float64          `json:"correlation"`
	CapitalRatio   float64          `json:"capital_ratio"`
	Seed           int64            `json:"seed"`
	Archive        bool             `json:"archive"`
}

// HandleBuildReport handles POST /api/risk/report
func (h *Handler) HandleBuildReport(w http.ResponseWriter, r *http.Request) {
	rep, archive, ok := h.buildFromRequest(w, r)
	if !ok {
		return
	}

	if archive && h.archiver != nil {
		// Archival must not delay the response; failures are logged only.
		go func(rep *report.RiskReport) {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			key, err := h.archiver.Archive(ctx, rep)
			if err != nil {
				h.log.Error().Err(err).Str("report_id", rep.ID).Msg("Report archive upload failed")
				return
			}
			h.emit(events.ReportArchived, map[string]interface{}{
				"report_id": rep.ID,
				"key":       key,
			})
		}(rep)
	}

	h.writeJSON(w, http.StatusOK, rep)
}

// HandleReportCSV handles POST /api/risk/report/csv
//
// Builds the report (or serves the cached one) and streams it as CSV.
func (h *Handler) HandleReportCSV(w http.ResponseWriter, r *http.Request) {
	rep, _, ok := h.buildFromRequest(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="risk-report-`+rep.ID+`.csv"`)
	if err := report.WriteCSV(w, rep); err != nil {
		h.log.Error().Err(err).Msg("Failed to write CSV response")
	}
}

// buildFromRequest parses the request, builds the report, and emits progress
// events. On failure it writes the error response and returns ok=false.
func (h *Handler) buildFromRequest(w http.ResponseWriter, r *http.Request) (*report.RiskReport, bool, bool) {
	var request reportRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, false, false
	}

	assets, err := h.portfolio.Load()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load portfolio")
		h.writeError(w, http.StatusInternalServerError, "Failed to load portfolio")
		return nil, false, false
	}
	if len(assets) == 0 {
		h.writeError(w, http.StatusBadRequest, "Portfolio is empty")
		return nil, false, false
	}

	opts := h.buildOptions(request)

	h.emit(events.ReportStarted, map[string]interface{}{
		"assets":    len(assets),
		"scenarios": len(opts.Scenarios),
	})

	rep, err := h.reports.Build(assets, opts)
	if err != nil {
		h.emit(events.ReportFailed, map[string]interface{}{"error": err.Error()})
		h.writeError(w, statusFor(err), err.Error())
		return nil, false, false
	}

	h.emit(events.ReportCompleted, map[string]interface{}{
		"report_id":     rep.ID,
		"additional_el": rep.Portfolio.ExpectedLoss,
	})

	return rep, request.Archive, true
}

// HandleSimulate handles POST /api/risk/simulate
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var request struct {
		InitialValue   float64 `json:"initial_value"`
		ClimateFactor  float64 `json:"climate_factor"`
		HorizonSteps   int     `json:"horizon_steps"`
		NumSimulations int     `json:"num_simulations"`
		Confidence     float64 `json:"confidence"`
		Seed           int64   `json:"seed"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if request.HorizonSteps == 0 {
		request.HorizonSteps = h.defaults.TimeHorizon
	}
	if request.NumSimulations == 0 {
		request.NumSimulations = h.defaults.NumSimulations
	}
	if request.Confidence == 0 {
		request.Confidence = h.defaults.Confidence
	}
	if request.Seed == 0 {
		request.Seed = h.defaults.Seed
	}

	result, err := h.engine.Run(request.InitialValue, request.HorizonSteps, request.ClimateFactor, request.NumSimulations, request.Seed)
	if err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	terminal, err := simulation.Describe(result.Terminal)
	if err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}
	returns, err := simulation.Describe(result.Returns)
	if err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}
	metrics, err := simulation.Metrics(result.Returns, request.Confidence)
	if err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.emit(events.SimulationCompleted, map[string]interface{}{
		"paths":          request.NumSimulations,
		"climate_factor": request.ClimateFactor,
	})

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"initial_value":  result.InitialValue,
		"climate_factor": result.ClimateFactor,
		"horizon_steps":  result.HorizonSteps,
		"num_paths":      result.NumPaths,
		"terminal_value": terminal,
		"returns":        returns,
		"risk_metrics":   metrics,
	})
}

// HandleCompareScenarios handles POST /api/risk/scenarios/compare
func (h *Handler) HandleCompareScenarios(w http.ResponseWriter, r *http.Request) {
	var request reportRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	summary, err := h.portfolio.Summary()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to summarize portfolio")
		h.writeError(w, http.StatusInternalServerError, "Failed to summarize portfolio")
		return
	}

	opts := h.buildOptions(request)

	results, err := h.reports.CompareScenarios(summary, opts)
	if err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// HandleListScenarios handles GET /api/scenarios
//
// Optional query parameter: category (orderly, disorderly, hot_house).
func (h *Handler) HandleListScenarios(w http.ResponseWriter, r *http.Request) {
	defs := scenario.Catalog()
	if category := r.URL.Query().Get("category"); category != "" {
		defs = scenario.ByCategory(category)
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"scenarios": defs,
		"count":     len(defs),
	})
}

// HandleGetScenario handles GET /api/scenarios/{id}
func (h *Handler) HandleGetScenario(w http.ResponseWriter, r *http.Request) {
	def, err := scenario.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, def)
}

// HandleProjectHazard handles GET /api/scenarios/{id}/projection
//
// Query parameters: hazard (required), horizon (years), baseline (intensity).
func (h *Handler) HandleProjectHazard(w http.ResponseWriter, r *http.Request) {
	scenarioID := chi.URLParam(r, "id")
	hazardType := hazard.Type(r.URL.Query().Get("hazard"))
	if hazardType == "" {
		h.writeError(w, http.StatusBadRequest, "Missing hazard type")
		return
	}

	horizon, err := strconv.Atoi(r.URL.Query().Get("horizon"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid horizon: "+err.Error())
		return
	}

	baseline, err := strconv.ParseFloat(r.URL.Query().Get("baseline"), 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid baseline: "+err.Error())
		return
	}

	projection, err := scenario.ProjectHazard(scenarioID, hazardType, horizon, baseline)
	if err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, projection)
}

// HandleSeverityPreset handles GET /api/scenarios/presets
//
// Query parameters: hazard, severity (low, medium, high, extreme).
func (h *Handler) HandleSeverityPreset(w http.ResponseWriter, r *http.Request) {
	hazardType := hazard.Type(r.URL.Query().Get("hazard"))
	severity := r.URL.Query().Get("severity")
	if hazardType == "" || severity == "" {
		h.writeError(w, http.StatusBadRequest, "Missing hazard or severity")
		return
	}

	intensity, err := scenario.SeverityPreset(hazardType, severity)
	if err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"hazard_type": hazardType,
		"severity":    severity,
		"intensity":   intensity,
	})
}

// buildOptions merges a request with the configured defaults. An empty
// scenario list expands to the full catalog.
func (h *Handler) buildOptions(request reportRequest) report.Options {
	opts := report.Options{
		Scenarios:      request.Scenarios,
		NumSimulations: request.NumSimulations,
		HorizonSteps:   request.HorizonSteps,
		Confidence:     request.Confidence,
		Correlation:    request.Correlation,
		CapitalRatio:   request.CapitalRatio,
		Seed:           request.Seed,
	}

	if len(opts.Scenarios) == 0 {
		for _, def := range scenario.Catalog() {
			opts.Scenarios = append(opts.Scenarios, scenario.Input{
				Name:          def.Name,
				ClimateFactor: def.ClimateFactor,
			})
		}
	}
	if opts.NumSimulations == 0 {
		opts.NumSimulations = h.defaults.NumSimulations
	}
	if opts.HorizonSteps == 0 {
		opts.HorizonSteps = h.defaults.TimeHorizon
	}
	if opts.Confidence == 0 {
		opts.Confidence = h.defaults.Confidence
	}
	if opts.Correlation == 0 {
		opts.Correlation = h.defaults.Correlation
	}
	if opts.CapitalRatio == 0 {
		opts.CapitalRatio = h.defaults.CapitalRatio
	}
	if opts.Seed == 0 {
		opts.Seed = h.defaults.Seed
	}

	return opts
}

func (h *Handler) emit(eventType events.EventType, data map[string]interface{}) {
	if h.bus == nil {
		return
	}
	h.bus.Emit(eventType, "report", data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientSamples):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
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
