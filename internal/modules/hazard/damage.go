// Package hazard implements the physical-damage side of the model: piecewise
// damage curves per hazard type, recovery downtime estimates, and the
// regional hazard data repository.
//
// The curves map a hazard intensity to a damage ratio in [0,1]:
//   - flood: water depth in meters (insurance-style depth-damage curve)
//   - cyclone: max sustained wind speed in km/h (Saffir-Simpson bands)
//   - wildfire: burned share of the asset in percent (0-100)
//   - drought: Standardized Precipitation Index (SPI, negative = dry)
package hazard

import (
	"fmt"
	"math"

	"github.com/aristath/climrisk/internal/domain"
)

// Type identifies a climate hazard.
type Type string

const (
	Flood    Type = "flood"
	Cyclone  Type = "cyclone"
	Wildfire Type = "wildfire"
	Drought  Type = "drought"
)

// ConstructionType affects wind and fire resilience.
type ConstructionType string

const (
	ReinforcedConcrete ConstructionType = "reinforced_concrete"
	Masonry            ConstructionType = "masonry"
	Wood               ConstructionType = "wood"
	Steel              ConstructionType = "steel"
)

// windResilience scales cyclone damage by construction type.
var windResilience = map[ConstructionType]float64{
	ReinforcedConcrete: 0.7,
	Masonry:            0.9,
	Wood:               1.2,
	Steel:              0.8,
}

// fireResilience scales wildfire damage by construction type.
var fireResilience = map[ConstructionType]float64{
	ReinforcedConcrete: 0.8,
	Masonry:            1.0,
	Wood:               1.3,
	Steel:              0.9,
}

// Assessment is the result of evaluating a damage curve for one asset.
type Assessment struct {
	HazardType     Type    `json:"hazard_type"`
	Intensity      float64 `json:"intensity"`
	DamageRatio    float64 `json:"damage_ratio"`
	PhysicalDamage float64 `json:"physical_damage"`
	ResidualValue  float64 `json:"residual_value"`
	DowntimeDays   int     `json:"downtime_days"`
}

// DamageRatio maps hazard intensity to a damage ratio in [0,1].
//
// Drought intensity is the SPI index and may legitimately be negative
// (negative means dry); for every other hazard a negative intensity is
// rejected as invalid input.
func DamageRatio(hazardType Type, intensity float64, opts ...Option) (float64, error) {
	o := applyOptions(opts)

	switch hazardType {
	case Flood:
		if intensity < 0 {
			return 0, fmt.Errorf("%w: flood depth must be non-negative, got %v", domain.ErrInvalidInput, intensity)
		}
		return floodDamageCurve(intensity), nil

	case Cyclone:
		if intensity < 0 {
			return 0, fmt.Errorf("%w: wind speed must be non-negative, got %v", domain.ErrInvalidInput, intensity)
		}
		return cycloneDamageCurve(intensity, o.construction), nil

	case Wildfire:
		if intensity < 0 {
			return 0, fmt.Errorf("%w: burn percentage must be non-negative, got %v", domain.ErrInvalidInput, intensity)
		}
		return wildfireDamageCurve(intensity, o.construction), nil

	case Drought:
		return droughtDamageCurve(intensity, o.assetType), nil

	default:
		return 0, fmt.Errorf("%w: unknown hazard type %q", domain.ErrInvalidInput, hazardType)
	}
}

// Assess runs the damage curve for an asset and derives the absolute damage,
// residual value and expected recovery downtime.
func Assess(hazardType Type, intensity, assetValue float64, opts ...Option) (Assessment, error) {
	if assetValue <= 0 {
		return Assessment{}, fmt.Errorf("%w: asset value must be positive, got %v", domain.ErrInvalidParameter, assetValue)
	}

	ratio, err := DamageRatio(hazardType, intensity, opts...)
	if err != nil {
		return Assessment{}, err
	}

	o := applyOptions(opts)
	damage := assetValue * ratio

	return Assessment{
		HazardType:     hazardType,
		Intensity:      intensity,
		DamageRatio:    ratio,
		PhysicalDamage: damage,
		ResidualValue:  assetValue - damage,
		DowntimeDays:   EstimateDowntime(hazardType, intensity, o.assetType),
	}, nil
}

// Option customizes a damage-curve evaluation.
type Option func(*options)

type options struct {
	assetType    domain.AssetType
	construction ConstructionType
}

func applyOptions(opts []Option) options {
	o := options{
		assetType:    domain.AssetResidential,
		construction: ReinforcedConcrete,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithAssetType sets the asset type (affects drought impact and downtime).
func WithAssetType(t domain.AssetType) Option {
	return func(o *options) { o.assetType = t }
}

// WithConstruction sets the construction type (affects wind/fire resilience).
func WithConstruction(c ConstructionType) Option {
	return func(o *options) { o.construction = c }
}

// floodDamageCurve is the depth-damage curve for flood events.
//
// Based on typical insurance damage functions:
//   - 0-0.3m: minor damage (5-15%)
//   - 0.3-1.0m: moderate damage (15-40%)
//   - 1.0-2.0m: severe damage (40-70%)
//   - >2.0m: major damage (70-100%)
func floodDamageCurve(depthM float64) float64 {
	switch {
	case depthM <= 0:
		return 0.0
	case depthM <= 0.3:
		return 0.05 + 0.10*(depthM/0.3)
	case depthM <= 1.0:
		return 0.15 + 0.25*((depthM-0.3)/0.7)
	case depthM <= 2.0:
		return 0.40 + 0.30*((depthM-1.0)/1.0)
	default:
		return math.Min(1.0, 0.70+0.15*math.Min(1.0, (depthM-2.0)/3.0))
	}
}

// cycloneDamageCurve is the wind-damage curve, banded on the Saffir-Simpson
// scale and scaled by construction resilience.
func cycloneDamageCurve(windKmh float64, construction ConstructionType) float64 {
	var base float64
	switch {
	case windKmh < 63:
		return 0.0
	case windKmh < 119:
		base = 0.05 + 0.10*((windKmh-63)/56)
	case windKmh < 154:
		base = 0.15 + 0.15*((windKmh-119)/35)
	case windKmh < 178:
		base = 0.30 + 0.20*((windKmh-154)/24)
	case windKmh < 209:
		base = 0.50 + 0.20*((windKmh-178)/31)
	case windKmh < 252:
		base = 0.70 + 0.20*((windKmh-209)/43)
	default:
		base = math.Min(1.0, 0.90+0.05*((windKmh-252)/50))
	}

	resilience, ok := windResilience[construction]
	if !ok {
		resilience = 1.0
	}
	return math.Min(1.0, base*resilience)
}

// wildfireDamageCurve converts burned percentage to a damage ratio, scaled
// by construction resilience.
func wildfireDamageCurve(burnPct float64, construction ConstructionType) float64 {
	resilience, ok := fireResilience[construction]
	if !ok {
		resilience = 1.0
	}
	return math.Min(1.0, (burnPct/100.0)*resilience)
}

// droughtDamageCurve maps a Standardized Precipitation Index to a damage
// ratio. Agricultural assets are affected directly; other asset types only
// see secondary effects (water prices, ecosystem stress).
func droughtDamageCurve(spi float64, assetType domain.AssetType) float64 {
	if assetType == domain.AssetAgricultural {
		switch {
		case spi >= -0.5:
			return 0.0
		case spi >= -1.0:
			return 0.10 + 0.15*math.Abs(spi+0.5)/0.5
		case spi >= -1.5:
			return 0.25 + 0.25*math.Abs(spi+1.0)/0.5
		default:
			return math.Min(1.0, 0.50+0.25*math.Abs(spi+1.5)/1.0)
		}
	}

	switch {
	case spi >= -0.5:
		return 0.0
	case spi >= -1.0:
		return 0.02 + 0.03*math.Abs(spi+0.5)/0.5
	case spi >= -1.5:
		return 0.05 + 0.05*math.Abs(spi+1.0)/0.5
	default:
		return math.Min(1.0, 0.10+0.05*math.Abs(spi+1.5)/1.0)
	}
}

// EstimateDowntime estimates recovery downtime in days after a climate event.
func EstimateDowntime(hazardType Type, intensity float64, assetType domain.AssetType) int {
	baseDowntime := map[Type]float64{
		Flood:    21,
		Wildfire: 60,
		Cyclone:  30,
		Drought:  7,
	}

	base, ok := baseDowntime[hazardType]
	if !ok {
		base = 14
	}

	intensityFactor := 1.0
	switch hazardType {
	case Flood:
		intensityFactor = 1 + intensity/2
	case Cyclone:
		intensityFactor = intensity / 150 // Normalize to ~150 km/h
	}

	assetFactor := map[domain.AssetType]float64{
		domain.AssetResidential: 1.0,
		domain.AssetCommercial:  1.2,
		domain.AssetIndustrial:  1.5,
	}
	factor, ok := assetFactor[assetType]
	if !ok {
		factor = 1.0
	}

	return int(base * intensityFactor * factor)
}
