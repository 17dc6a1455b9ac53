// Package adjustment implements the climate extension of the one-factor
// Vasicek credit model: physical damage feeds a climate factor that stresses
// the baseline probability of default and loss given default.
//
// Model equation:
//
//	PD_climate = PD_base * (1 + beta_climate * ClimateFactor)
//
// with the 99th-percentile stressed form multiplying the shock term by the
// corresponding normal quantile (z = 2.33).
package adjustment

import (
	"fmt"
	"math"

	"github.com/aristath/climrisk/internal/domain"
)

// Multiplier caps keep the adjustment within the bounds used by internal
// credit models: PD at most triples, LGD grows at most 50%.
const (
	PDIncreaseCap  = 3.0
	LGDIncreaseCap = 1.5

	// LGDSensitivity scales how collateral damage raises LGD.
	LGDSensitivity = 0.5

	// StressZ99 is the standard normal quantile at 99% confidence.
	StressZ99 = 2.33
)

// Adjustment is the result of applying climate stress to base PD/LGD.
type Adjustment struct {
	ClimateFactor float64 `json:"climate_factor"`
	PDMultiplier  float64 `json:"pd_multiplier"`
	LGDMultiplier float64 `json:"lgd_multiplier"`
	AdjustedPD    float64 `json:"adjusted_pd"`
	AdjustedLGD   float64 `json:"adjusted_lgd"`
}

// Adjust derives the climate factor from physical damage and applies it to
// the baseline credit parameters.
//
// climateFactor = clamp(damageRatio * regionalMultiplier, 0, 1). The
// regional multiplier defaults to 1.0 upstream for uncalibrated regions.
func Adjust(basePD, baseLGD, damageRatio, betaClimate, regionalMultiplier float64) (Adjustment, error) {
	if err := validate(basePD, baseLGD, betaClimate); err != nil {
		return Adjustment{}, err
	}
	if damageRatio < 0 || damageRatio > 1 {
		return Adjustment{}, fmt.Errorf("%w: damage ratio must be in [0,1], got %v", domain.ErrInvalidParameter, damageRatio)
	}
	if regionalMultiplier < 0 {
		return Adjustment{}, fmt.Errorf("%w: regional multiplier must be non-negative, got %v", domain.ErrInvalidParameter, regionalMultiplier)
	}

	climateFactor := clamp(damageRatio*regionalMultiplier, 0, 1)

	pdMultiplier := math.Min(PDIncreaseCap, 1.0+betaClimate*climateFactor)
	lgdMultiplier := math.Min(LGDIncreaseCap, 1.0+LGDSensitivity*climateFactor)

	return Adjustment{
		ClimateFactor: climateFactor,
		PDMultiplier:  pdMultiplier,
		LGDMultiplier: lgdMultiplier,
		AdjustedPD:    clamp(basePD*pdMultiplier, 0, 1),
		AdjustedLGD:   math.Min(1.0, baseLGD*lgdMultiplier),
	}, nil
}

// StressedPD returns the 99th-percentile stressed PD: the climate shock term
// is scaled by the normal quantile before it is applied.
func StressedPD(basePD, betaClimate, climateFactor float64) (float64, error) {
	if basePD < 0 || basePD > 1 {
		return 0, fmt.Errorf("%w: base PD must be in [0,1], got %v", domain.ErrInvalidParameter, basePD)
	}
	if betaClimate < 0 || betaClimate > 1 {
		return 0, fmt.Errorf("%w: climate beta must be in [0,1], got %v", domain.ErrInvalidParameter, betaClimate)
	}
	if climateFactor < 0 || climateFactor > 1 {
		return 0, fmt.Errorf("%w: climate factor must be in [0,1], got %v", domain.ErrInvalidParameter, climateFactor)
	}

	return clamp(basePD*(1.0+betaClimate*climateFactor*StressZ99), 0, 1), nil
}

func validate(basePD, baseLGD, betaClimate float64) error {
	if basePD < 0 || basePD > 1 {
		return fmt.Errorf("%w: base PD must be in [0,1], got %v", domain.ErrInvalidParameter, basePD)
	}
	if baseLGD < 0 || baseLGD > 1 {
		return fmt.Errorf("%w: base LGD must be in [0,1], got %v", domain.ErrInvalidParameter, baseLGD)
	}
	if betaClimate < 0 || betaClimate > 1 {
		return fmt.Errorf("%w: climate beta must be in [0,1], got %v", domain.ErrInvalidParameter, betaClimate)
	}
	return nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
