// Package loss implements the closed-form credit-loss formulas: expected
// loss, the Basel IRB unexpected-loss approximation, capital requirements,
// and portfolio-level aggregation with a diversification discount.
package loss

import (
	"fmt"
	"math"

	"github.com/aristath/climrisk/internal/domain"
)

// ClimateBufferRatio is the share of stressed capital held as an additional
// climate buffer.
const ClimateBufferRatio = 0.15

// zScores maps confidence levels to standard normal quantiles for capital
// scaling. Unknown confidence levels fall back to the 99.9% quantile.
var zScores = map[float64]float64{
	0.90:  1.28,
	0.95:  1.645,
	0.99:  2.33,
	0.999: 3.09,
}

// ExpectedLoss computes EL = EAD * PD * LGD.
func ExpectedLoss(ead, pd, lgd float64) (float64, error) {
	if err := validateExposure(ead); err != nil {
		return 0, err
	}
	if err := validateUnit("pd", pd); err != nil {
		return 0, err
	}
	if err := validateUnit("lgd", lgd); err != nil {
		return 0, err
	}
	return ead * pd * lgd, nil
}

// UnexpectedLoss computes the Basel IRB approximation
//
//	UL = EAD * sqrt(PD * LGD^2 * (1-PD) * correlation)
//
// PD of exactly 1 yields UL = 0, a valid boundary rather than an error.
func UnexpectedLoss(ead, pd, lgd, correlation float64) (float64, error) {
	if err := validateExposure(ead); err != nil {
		return 0, err
	}
	if err := validateUnit("pd", pd); err != nil {
		return 0, err
	}
	if err := validateUnit("lgd", lgd); err != nil {
		return 0, err
	}
	if err := validateUnit("correlation", correlation); err != nil {
		return 0, err
	}
	return ead * math.Sqrt(pd*lgd*lgd*(1-pd)*correlation), nil
}

// Capital holds the capital requirement derived from unexpected loss.
type Capital struct {
	UnexpectedLoss  float64 `json:"unexpected_loss"`
	BaseCapital     float64 `json:"base_capital"`
	AdjustedCapital float64 `json:"adjusted_capital"`
	ConfidenceLevel float64 `json:"confidence_level"`
	ZScore          float64 `json:"z_score"`
	CapitalRatio    float64 `json:"capital_ratio"`
}

// CapitalRequirement sizes capital for unexpected losses. The base capital is
// UL * capitalRatio; the adjusted capital rescales it from the 99.9% quantile
// to the requested confidence level.
func CapitalRequirement(unexpectedLoss, confidenceLevel, capitalRatio float64) (Capital, error) {
	if unexpectedLoss < 0 {
		return Capital{}, fmt.Errorf("%w: unexpected loss must be non-negative, got %v", domain.ErrInvalidParameter, unexpectedLoss)
	}
	if capitalRatio <= 0 || capitalRatio > 1 {
		return Capital{}, fmt.Errorf("%w: capital ratio must be in (0,1], got %v", domain.ErrInvalidParameter, capitalRatio)
	}

	z, ok := zScores[confidenceLevel]
	if !ok {
		z = zScores[0.999]
	}

	base := unexpectedLoss * capitalRatio
	return Capital{
		UnexpectedLoss:  unexpectedLoss,
		BaseCapital:     base,
		AdjustedCapital: base * z / zScores[0.999],
		ConfidenceLevel: confidenceLevel,
		ZScore:          z,
		CapitalRatio:    capitalRatio,
	}, nil
}

// ClimateBuffer returns the additional capital buffer held against climate
// risk: 15% of the stressed capital requirement.
func ClimateBuffer(stressedCapital float64) float64 {
	return stressedCapital * ClimateBufferRatio
}

func validateExposure(ead float64) error {
	if ead <= 0 {
		return fmt.Errorf("%w: exposure must be positive, got %v", domain.ErrInvalidParameter, ead)
	}
	return nil
}

func validateUnit(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%w: %s must be in [0,1], got %v", domain.ErrInvalidParameter, name, v)
	}
	return nil
}
