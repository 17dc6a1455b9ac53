// Package scenario provides the forward-looking climate scenario framework:
// a catalog of standardized NGFS-style scenarios, hazard severity presets,
// intensity projections over time, and the multi-scenario comparison service
// built on the Monte Carlo engine.
package scenario

import (
	"fmt"

	"github.com/aristath/climrisk/internal/domain"
	"github.com/aristath/climrisk/internal/modules/hazard"
)

// Definition is a named climate scenario.
type Definition struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Category            string  `json:"category"` // orderly, disorderly, hot_house
	ClimateFactor       float64 `json:"climate_factor"`
	Description         string  `json:"description"`
	TemperatureRise2100 float64 `json:"temperature_rise_2100"`
	TransitionRisk      string  `json:"transition_risk"`
	PhysicalRisk        string  `json:"physical_risk"`
}

// HazardProjection holds the projected hazard changes for a scenario,
// expressed as fractional increases over the 2050 baseline.
type HazardProjection struct {
	FloodFrequency  float64 `json:"flood_frequency"`
	FloodIntensity  float64 `json:"flood_intensity"`
	WildfireArea    float64 `json:"wildfire_area"`
	DroughtSeverity float64 `json:"drought_severity"`
	CycloneFreq     float64 `json:"cyclone_frequency"`
	SeaLevelRiseCm  float64 `json:"sea_level_rise_cm"`
}

// catalog is the standardized scenario set, ordered from orderly transition
// to hot-house outcomes.
var catalog = []Definition{
	{
		ID:                  "orderly_net_zero",
		Name:                "Orderly - Net Zero 2050",
		Category:            "orderly",
		ClimateFactor:       0.15,
		Description:         "Immediate coordinated climate policy action",
		TemperatureRise2100: 1.5,
		TransitionRisk:      "Low",
		PhysicalRisk:        "Medium-Low",
	},
	{
		ID:                  "orderly_below_2c",
		Name:                "Orderly - Below 2°C",
		Category:            "orderly",
		ClimateFactor:       0.20,
		Description:         "Below 2°C pathway with coordinated action",
		TemperatureRise2100: 1.8,
		TransitionRisk:      "Low-Medium",
		PhysicalRisk:        "Medium",
	},
	{
		ID:                  "disorderly_divergent",
		Name:                "Disorderly - Divergent Net Zero",
		Category:            "disorderly",
		ClimateFactor:       0.30,
		Description:         "Uneven transition across regions",
		TemperatureRise2100: 2.0,
		TransitionRisk:      "High",
		PhysicalRisk:        "Medium-High",
	},
	{
		ID:                  "disorderly_delayed",
		Name:                "Disorderly - Delayed Transition",
		Category:            "disorderly",
		ClimateFactor:       0.35,
		Description:         "Delayed policy action followed by rapid transition",
		TemperatureRise2100: 2.2,
		TransitionRisk:      "High",
		PhysicalRisk:        "High",
	},
	{
		ID:                  "hot_house_ndc",
		Name:                "Hot House - Nationally Determined Contributions",
		Category:            "hot_house",
		ClimateFactor:       0.50,
		Description:         "Current policy commitments only",
		TemperatureRise2100: 3.0,
		TransitionRisk:      "Low",
		PhysicalRisk:        "High",
	},
	{
		ID:                  "hot_house_current",
		Name:                "Hot House - Current Policies",
		Category:            "hot_house",
		ClimateFactor:       0.60,
		Description:         "No additional climate policy action",
		TemperatureRise2100: 3.5,
		TransitionRisk:      "Low",
		PhysicalRisk:        "Very High",
	},
}

// projections maps scenario IDs to their hazard projections.
var projections = map[string]HazardProjection{
	"orderly_net_zero":     {FloodFrequency: 0.10, FloodIntensity: 0.15, WildfireArea: 0.20, DroughtSeverity: 0.15, CycloneFreq: 0.05, SeaLevelRiseCm: 25},
	"orderly_below_2c":     {FloodFrequency: 0.15, FloodIntensity: 0.20, WildfireArea: 0.30, DroughtSeverity: 0.25, CycloneFreq: 0.10, SeaLevelRiseCm: 35},
	"disorderly_divergent": {FloodFrequency: 0.25, FloodIntensity: 0.35, WildfireArea: 0.45, DroughtSeverity: 0.40, CycloneFreq: 0.15, SeaLevelRiseCm: 50},
	"disorderly_delayed":   {FloodFrequency: 0.30, FloodIntensity: 0.45, WildfireArea: 0.55, DroughtSeverity: 0.50, CycloneFreq: 0.20, SeaLevelRiseCm: 60},
	"hot_house_ndc":        {FloodFrequency: 0.50, FloodIntensity: 0.70, WildfireArea: 0.80, DroughtSeverity: 0.70, CycloneFreq: 0.30, SeaLevelRiseCm: 80},
	"hot_house_current":    {FloodFrequency: 0.70, FloodIntensity: 1.00, WildfireArea: 1.20, DroughtSeverity: 1.00, CycloneFreq: 0.40, SeaLevelRiseCm: 110},
}

// severityPresets are hazard-specific climate factors for quick what-if runs.
var severityPresets = map[hazard.Type]map[string]float64{
	hazard.Flood:    {"minor": 0.05, "moderate": 0.15, "severe": 0.30, "extreme": 0.50},
	hazard.Wildfire: {"low": 0.05, "moderate": 0.15, "high": 0.30, "extreme": 0.50},
	hazard.Cyclone:  {"tropical": 0.10, "category1": 0.20, "category3": 0.35, "category5": 0.55},
	hazard.Drought:  {"moderate": 0.05, "severe": 0.15, "extreme": 0.30},
}

// Catalog returns the standardized scenario definitions in canonical order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the scenario definition for the given ID.
func Lookup(id string) (Definition, error) {
	for _, d := range catalog {
		if d.ID == id {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: unknown scenario %q", domain.ErrInvalidInput, id)
}

// ByCategory filters the catalog by scenario category.
func ByCategory(category string) []Definition {
	var out []Definition
	for _, d := range catalog {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// SeverityPreset returns the climate factor for a hazard-specific severity
// label, e.g. ("flood", "severe").
func SeverityPreset(hazardType hazard.Type, severity string) (float64, error) {
	presets, ok := severityPresets[hazardType]
	if !ok {
		return 0, fmt.Errorf("%w: unknown hazard type %q", domain.ErrInvalidInput, hazardType)
	}
	factor, ok := presets[severity]
	if !ok {
		return 0, fmt.Errorf("%w: unknown %s severity %q", domain.ErrInvalidInput, hazardType, severity)
	}
	return factor, nil
}

// Projection is the result of projecting a hazard intensity forward under a
// scenario.
type Projection struct {
	ScenarioID          string  `json:"scenario"`
	HazardType          string  `json:"hazard_type"`
	TimeHorizonYears    int     `json:"time_horizon"`
	BaselineIntensity   float64 `json:"baseline_intensity"`
	ProjectedIntensity  float64 `json:"projected_intensity"`
	IntensityMultiplier float64 `json:"intensity_multiplier"`
}

// ProjectHazard projects a baseline hazard intensity over a time horizon
// under the given scenario. The scenario's 2050 hazard increase and its
// temperature pathway are scaled linearly across the horizon.
func ProjectHazard(scenarioID string, hazardType hazard.Type, horizonYears int, baselineIntensity float64) (Projection, error) {
	def, err := Lookup(scenarioID)
	if err != nil {
		return Projection{}, err
	}
	if horizonYears < 0 {
		return Projection{}, fmt.Errorf("%w: time horizon must be non-negative, got %d", domain.ErrInvalidParameter, horizonYears)
	}

	proj := projections[scenarioID]

	var increase float64
	switch hazardType {
	case hazard.Flood:
		increase = proj.FloodIntensity
	case hazard.Wildfire:
		increase = proj.WildfireArea
	case hazard.Cyclone:
		increase = proj.CycloneFreq
	case hazard.Drought:
		increase = proj.DroughtSeverity
	default:
		return Projection{}, fmt.Errorf("%w: unknown hazard type %q", domain.ErrInvalidInput, hazardType)
	}

	// Linear scaling across the 2024-2050 projection window.
	yearFraction := float64(horizonYears) / 26.0
	baseMultiplier := 1.0 + increase*yearFraction
	tempFactor := 1.0 + ((def.TemperatureRise2100-1.5)/2.0)*yearFraction

	multiplier := baseMultiplier * tempFactor
	return Projection{
		ScenarioID:          scenarioID,
		HazardType:          string(hazardType),
		TimeHorizonYears:    horizonYears,
		BaselineIntensity:   baselineIntensity,
		ProjectedIntensity:  baselineIntensity * multiplier,
		IntensityMultiplier: multiplier,
	}, nil
}
