package loss

import (
	"fmt"
	"math"

	"github.com/aristath/climrisk/internal/domain"
	"github.com/aristath/climrisk/internal/modules/adjustment"
)

// Params holds the model parameters shared by full-analysis runs.
type Params struct {
	Correlation     float64 // Basel asset correlation
	CapitalRatio    float64 // Minimum capital ratio
	ConfidenceLevel float64 // Confidence level for stressed capital
}

// DefaultParams are the Basel-flavored defaults used when a caller does not
// override them.
func DefaultParams() Params {
	return Params{
		Correlation:     0.3,
		CapitalRatio:    0.08,
		ConfidenceLevel: 0.999,
	}
}

// Analysis compares base and climate-stressed loss metrics for one exposure.
type Analysis struct {
	Adjustment adjustment.Adjustment `json:"climate_adjustment"`

	StressedPD float64 `json:"stressed_pd"`

	BaseEL     float64 `json:"base_expected_loss"`
	StressedEL float64 `json:"stressed_expected_loss"`

	BaseUL     float64 `json:"base_unexpected_loss"`
	StressedUL float64 `json:"stressed_unexpected_loss"`

	BaseCapital     float64 `json:"base_capital"`
	StressedCapital float64 `json:"stressed_capital"`
	ClimateBuffer   float64 `json:"climate_buffer"`
}

// AdditionalEL is the climate-driven increase in expected loss.
func (a Analysis) AdditionalEL() float64 { return a.StressedEL - a.BaseEL }

// AdditionalUL is the climate-driven increase in unexpected loss.
func (a Analysis) AdditionalUL() float64 { return a.StressedUL - a.BaseUL }

// AdditionalCapital is the climate-driven increase in required capital.
func (a Analysis) AdditionalCapital() float64 { return a.StressedCapital - a.BaseCapital }

// FullAnalysis runs the complete climate credit-risk comparison for one
// exposure: adjust PD/LGD for physical damage, stress PD at the 99th
// percentile, and compute base vs stressed EL/UL/capital.
func FullAnalysis(ead, basePD, baseLGD, damageRatio, betaClimate, regionalMultiplier float64, p Params) (Analysis, error) {
	adj, err := adjustment.Adjust(basePD, baseLGD, damageRatio, betaClimate, regionalMultiplier)
	if err != nil {
		return Analysis{}, err
	}

	stressedPD, err := adjustment.StressedPD(basePD, betaClimate, adj.ClimateFactor)
	if err != nil {
		return Analysis{}, err
	}

	baseEL, err := ExpectedLoss(ead, basePD, baseLGD)
	if err != nil {
		return Analysis{}, err
	}
	stressedEL, err := ExpectedLoss(ead, stressedPD, adj.AdjustedLGD)
	if err != nil {
		return Analysis{}, err
	}

	baseUL, err := UnexpectedLoss(ead, basePD, baseLGD, p.Correlation)
	if err != nil {
		return Analysis{}, err
	}
	stressedUL, err := UnexpectedLoss(ead, stressedPD, adj.AdjustedLGD, p.Correlation)
	if err != nil {
		return Analysis{}, err
	}

	baseCap, err := CapitalRequirement(baseUL, p.ConfidenceLevel, p.CapitalRatio)
	if err != nil {
		return Analysis{}, err
	}
	stressedCap, err := CapitalRequirement(stressedUL, p.ConfidenceLevel, p.CapitalRatio)
	if err != nil {
		return Analysis{}, err
	}

	return Analysis{
		Adjustment:      adj,
		StressedPD:      stressedPD,
		BaseEL:          baseEL,
		StressedEL:      stressedEL,
		BaseUL:          baseUL,
		StressedUL:      stressedUL,
		BaseCapital:     baseCap.BaseCapital,
		StressedCapital: stressedCap.AdjustedCapital,
		ClimateBuffer:   ClimateBuffer(stressedCap.AdjustedCapital),
	}, nil
}

// Concentration summarizes how concentrated the portfolio is.
type Concentration struct {
	MaxWeight float64 `json:"max_weight"`
	HHI       float64 `json:"hhi"`
	Level     string  `json:"concentration_level"`
}

// PortfolioRisk aggregates per-asset analyses into portfolio metrics.
type PortfolioRisk struct {
	TotalExposure         float64 `json:"total_exposure"`
	NumExposures          int     `json:"num_exposures"`
	DiversificationFactor float64 `json:"diversification_factor"`
	ExpectedLoss          float64 `json:"expected_loss"`
	UnexpectedLoss        float64 `json:"unexpected_loss"`
	CapitalImpact         float64 `json:"capital_impact"`

	Concentration Concentration `json:"concentration"`
}

// AggregatePortfolio sums the climate-driven loss increases across assets,
// applying a diversification discount to unexpected loss:
//
//	factor = sqrt(1/n + (n-1)/n * avgCorrelation)
//
// and reports Herfindahl-Hirschman concentration.
func AggregatePortfolio(portfolio domain.Portfolio, analyses []Analysis, avgCorrelation float64) (PortfolioRisk, error) {
	if len(portfolio) != len(analyses) {
		return PortfolioRisk{}, fmt.Errorf("%w: %d assets but %d analyses", domain.ErrInvalidParameter, len(portfolio), len(analyses))
	}
	if err := validateUnit("correlation", avgCorrelation); err != nil {
		return PortfolioRisk{}, err
	}

	total := portfolio.TotalValue()
	if total <= 0 {
		return PortfolioRisk{}, fmt.Errorf("%w: portfolio has no exposure", domain.ErrInvalidParameter)
	}

	n := float64(len(portfolio))
	diversification := 1.0
	if len(portfolio) > 1 {
		diversification = math.Sqrt(1/n + (n-1)/n*avgCorrelation)
	}

	risk := PortfolioRisk{
		TotalExposure:         total,
		NumExposures:          len(portfolio),
		DiversificationFactor: diversification,
	}

	maxWeight := 0.0
	hhi := 0.0
	for i, a := range analyses {
		risk.ExpectedLoss += a.AdditionalEL()
		risk.UnexpectedLoss += a.AdditionalUL()
		risk.CapitalImpact += a.AdditionalCapital()

		w := portfolio[i].Value / total
		hhi += w * w
		if w > maxWeight {
			maxWeight = w
		}
	}
	risk.UnexpectedLoss *= diversification

	level := "low"
	switch {
	case hhi > 0.25:
		level = "high"
	case hhi > 0.15:
		level = "medium"
	}
	risk.Concentration = Concentration{MaxWeight: maxWeight, HHI: hhi, Level: level}

	return risk, nil
}
