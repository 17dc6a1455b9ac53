package simulation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/climrisk/internal/domain"
)

func TestDescribe(t *testing.T) {
	sample := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3}

	d, err := Describe(sample)
	require.NoError(t, err)

	assert.InDelta(t, 3.9, d.Mean, 1e-9)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 9.0, d.Max)
	assert.Greater(t, d.Std, 0.0)
	assert.GreaterOrEqual(t, d.P95, d.P75)
	assert.GreaterOrEqual(t, d.P75, d.P50)
	assert.GreaterOrEqual(t, d.P50, d.P25)
	assert.GreaterOrEqual(t, d.P25, d.P5)
}

func TestDescribe_DoesNotMutateInput(t *testing.T) {
	sample := []float64{5, 1, 3}
	_, err := Describe(sample)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 1, 3}, sample)
}

func TestDescribe_Empty(t *testing.T) {
	_, err := Describe(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientSamples))
}

func TestDescribe_SingleValue(t *testing.T) {
	d, err := Describe([]float64{2.5})
	require.NoError(t, err)
	assert.Equal(t, 2.5, d.Mean)
	assert.Zero(t, d.Std)
}

func TestMetrics(t *testing.T) {
	// 100 returns from -0.99 to 0 in steps of 0.01.
	returns := make([]float64, 100)
	for i := range returns {
		returns[i] = -float64(i) / 100
	}

	m, err := Metrics(returns, 0.95)
	require.NoError(t, err)

	assert.Equal(t, 0.95, m.ConfidenceLevel)
	assert.Less(t, m.ValueAtRisk, 0.0)
	// ES is the mean of the 5 worst returns: (-0.99..-0.95)/5
	assert.InDelta(t, -0.97, m.ExpectedShortfall, 1e-9)
	assert.LessOrEqual(t, m.ExpectedShortfall, m.ValueAtRisk)

	// 99 of 100 returns are strictly negative.
	assert.InDelta(t, 0.99, m.ProbabilityOfLoss, 1e-9)
	assert.Greater(t, m.ProbabilityOf25PctLoss, m.ProbabilityOf50PctLoss)
	assert.Greater(t, m.ProbabilityOf50PctLoss, m.ProbabilityOf75PctLoss)
}

func TestMetrics_InsufficientTail(t *testing.T) {
	// 10 samples: floor(0.05 * 10) = 0, the 5% tail is empty.
	returns := []float64{-0.1, -0.2, 0.1, 0.2, 0, 0.05, -0.05, 0.15, -0.15, 0.3}

	_, err := Metrics(returns, 0.95)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientSamples))
}

func TestMetrics_EmptySample(t *testing.T) {
	_, err := Metrics(nil, 0.95)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientSamples))
}

func TestMetrics_ConfidenceValidation(t *testing.T) {
	returns := make([]float64, 100)

	for _, confidence := range []float64{0, 1, -0.5, 1.5} {
		_, err := Metrics(returns, confidence)
		require.Error(t, err, "confidence %v", confidence)
		assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
	}
}
