package simulation

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/climrisk/internal/domain"
)

// Distribution summarizes a simulated sample.
type Distribution struct {
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	P5       float64 `json:"percentile_5"`
	P25      float64 `json:"percentile_25"`
	P50      float64 `json:"percentile_50"`
	P75      float64 `json:"percentile_75"`
	P95      float64 `json:"percentile_95"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// Describe computes the distribution summary of a sample.
func Describe(sample []float64) (Distribution, error) {
	if len(sample) == 0 {
		return Distribution{}, fmt.Errorf("%w: empty sample", domain.ErrInsufficientSamples)
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	d := Distribution{
		Mean: stat.Mean(sorted, nil),
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		P5:   stat.Quantile(0.05, stat.Empirical, sorted, nil),
		P25:  stat.Quantile(0.25, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P75:  stat.Quantile(0.75, stat.Empirical, sorted, nil),
		P95:  stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		d.Std = stat.StdDev(sorted, nil)
		d.Skewness = stat.Skew(sorted, nil)
		d.Kurtosis = stat.ExKurtosis(sorted, nil)
	}
	return d, nil
}

// RiskMetrics are tail-risk statistics derived from a return distribution.
type RiskMetrics struct {
	ValueAtRisk       float64 `json:"value_at_risk"`
	ExpectedShortfall float64 `json:"expected_shortfall"`

	ProbabilityOfLoss      float64 `json:"probability_of_loss"`
	ProbabilityOf25PctLoss float64 `json:"probability_of_25pct_loss"`
	ProbabilityOf50PctLoss float64 `json:"probability_of_50pct_loss"`
	ProbabilityOf75PctLoss float64 `json:"probability_of_75pct_loss"`

	ConfidenceLevel float64 `json:"confidence_level"`
}

// Metrics computes VaR at the given confidence level, expected shortfall at
// the 5% tail, and the probability-of-loss ladder.
//
// Expected shortfall is the mean of the returns below the 5th percentile.
// With very small samples the tail can be empty; that aggregate is undefined
// and reported as ErrInsufficientSamples rather than a guessed default.
func Metrics(returns []float64, confidenceLevel float64) (RiskMetrics, error) {
	if len(returns) == 0 {
		return RiskMetrics{}, fmt.Errorf("%w: empty return sample", domain.ErrInsufficientSamples)
	}
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		return RiskMetrics{}, fmt.Errorf("%w: confidence level must be in (0,1), got %v", domain.ErrInvalidParameter, confidenceLevel)
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	varValue := stat.Quantile(1-confidenceLevel, stat.Empirical, sorted, nil)

	tailCount := int(math.Floor(0.05 * float64(len(sorted))))
	if tailCount == 0 {
		return RiskMetrics{}, fmt.Errorf("%w: no returns below the 5th percentile with %d paths",
			domain.ErrInsufficientSamples, len(sorted))
	}
	es := stat.Mean(sorted[:tailCount], nil)

	m := RiskMetrics{
		ValueAtRisk:       varValue,
		ExpectedShortfall: es,
		ConfidenceLevel:   confidenceLevel,
	}
	n := float64(len(sorted))
	for _, r := range sorted {
		if r < 0 {
			m.ProbabilityOfLoss++
		}
		if r < -0.25 {
			m.ProbabilityOf25PctLoss++
		}
		if r < -0.50 {
			m.ProbabilityOf50PctLoss++
		}
		if r < -0.75 {
			m.ProbabilityOf75PctLoss++
		}
	}
	m.ProbabilityOfLoss /= n
	m.ProbabilityOf25PctLoss /= n
	m.ProbabilityOf50PctLoss /= n
	m.ProbabilityOf75PctLoss /= n

	return m, nil
}
