package loss

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/climrisk/internal/domain"
)

func TestFullAnalysis_StressExceedsBase(t *testing.T) {
	a, err := FullAnalysis(1_000_000, 0.02, 0.4, 0.15, 0.5, 1.0, DefaultParams())
	require.NoError(t, err)

	assert.InDelta(t, 8_000, a.BaseEL, 1e-9)
	assert.Greater(t, a.StressedEL, a.BaseEL)
	assert.Greater(t, a.StressedUL, a.BaseUL)
	assert.Greater(t, a.StressedCapital, a.BaseCapital)
	assert.Greater(t, a.ClimateBuffer, 0.0)
	assert.InDelta(t, a.StressedCapital*ClimateBufferRatio, a.ClimateBuffer, 1e-9)

	assert.Greater(t, a.AdditionalEL(), 0.0)
	assert.Greater(t, a.AdditionalUL(), 0.0)
	assert.Greater(t, a.AdditionalCapital(), 0.0)
}

func TestFullAnalysis_NoDamageNoStress(t *testing.T) {
	a, err := FullAnalysis(1_000_000, 0.02, 0.4, 0, 0.5, 1.0, DefaultParams())
	require.NoError(t, err)

	assert.InDelta(t, a.BaseEL, a.StressedEL, 1e-9)
	assert.Zero(t, a.AdditionalEL())
	assert.Zero(t, a.AdditionalUL())
}

func TestFullAnalysis_InvalidInput(t *testing.T) {
	_, err := FullAnalysis(0, 0.02, 0.4, 0.15, 0.5, 1.0, DefaultParams())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}

func testPortfolio() (domain.Portfolio, []Analysis) {
	assets := domain.Portfolio{
		{ID: "a", Value: 1_000_000, Type: domain.AssetResidential, Region: "r1", BasePD: 0.02, BaseLGD: 0.4, ClimateBeta: 0.5, DamageRatio: 0.15},
		{ID: "b", Value: 2_000_000, Type: domain.AssetCommercial, Region: "r2", BasePD: 0.03, BaseLGD: 0.5, ClimateBeta: 0.6, DamageRatio: 0.25},
		{ID: "c", Value: 1_500_000, Type: domain.AssetIndustrial, Region: "r1", BasePD: 0.01, BaseLGD: 0.3, ClimateBeta: 0.4, DamageRatio: 0.05},
	}

	analyses := make([]Analysis, 0, len(assets))
	for _, a := range assets {
		an, err := FullAnalysis(a.Value, a.BasePD, a.BaseLGD, a.DamageRatio, a.ClimateBeta, 1.0, DefaultParams())
		if err != nil {
			panic(err)
		}
		analyses = append(analyses, an)
	}
	return assets, analyses
}

func TestAggregatePortfolio(t *testing.T) {
	assets, analyses := testPortfolio()

	risk, err := AggregatePortfolio(assets, analyses, 0.3)
	require.NoError(t, err)

	assert.InDelta(t, 4_500_000, risk.TotalExposure, 1e-6)
	assert.Equal(t, 3, risk.NumExposures)

	// sqrt(1/3 + 2/3 * 0.3)
	assert.InDelta(t, 0.7303, risk.DiversificationFactor, 1e-4)
	assert.Less(t, risk.DiversificationFactor, 1.0)

	assert.Greater(t, risk.ExpectedLoss, 0.0)
	assert.Greater(t, risk.UnexpectedLoss, 0.0)
	assert.Greater(t, risk.CapitalImpact, 0.0)

	// Weights: 1/4.5, 2/4.5, 1.5/4.5 -> HHI ~ 0.358
	assert.InDelta(t, 0.3580, risk.Concentration.HHI, 1e-3)
	assert.Equal(t, "high", risk.Concentration.Level)
	assert.InDelta(t, 2.0/4.5, risk.Concentration.MaxWeight, 1e-9)
}

func TestAggregatePortfolio_SingleAssetNoDiversification(t *testing.T) {
	assets, analyses := testPortfolio()

	risk, err := AggregatePortfolio(assets[:1], analyses[:1], 0.3)
	require.NoError(t, err)
	assert.Equal(t, 1.0, risk.DiversificationFactor)
	assert.Equal(t, "high", risk.Concentration.Level)
}

func TestAggregatePortfolio_LengthMismatch(t *testing.T) {
	assets, analyses := testPortfolio()

	_, err := AggregatePortfolio(assets, analyses[:2], 0.3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}

func TestAggregatePortfolio_ConcentrationLevels(t *testing.T) {
	// Ten equal exposures: HHI = 0.1, low concentration.
	var assets domain.Portfolio
	var analyses []Analysis
	for i := 0; i < 10; i++ {
		assets = append(assets, domain.Asset{ID: "x", Value: 100, BasePD: 0.02, BaseLGD: 0.4})
		an, err := FullAnalysis(100, 0.02, 0.4, 0.1, 0.5, 1.0, DefaultParams())
		require.NoError(t, err)
		analyses = append(analyses, an)
	}

	risk, err := AggregatePortfolio(assets, analyses, 0.3)
	require.NoError(t, err)
	assert.InDelta(t, 0.10, risk.Concentration.HHI, 1e-9)
	assert.Equal(t, "low", risk.Concentration.Level)
}
