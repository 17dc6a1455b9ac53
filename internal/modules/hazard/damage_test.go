package hazard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/climrisk/internal/domain"
)

func TestFloodDamageCurve_Bands(t *testing.T) {
	tests := []struct {
		depth float64
		want  float64
	}{
		{0.0, 0.0},
		{0.3, 0.15},
		{1.0, 0.40},
		{2.0, 0.70},
		{5.0, 0.85},
		{10.0, 0.85}, // depth factor saturates at 3m past the 2m band
	}

	for _, tt := range tests {
		ratio, err := DamageRatio(Flood, tt.depth)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, ratio, 1e-9, "depth %v", tt.depth)
	}
}

func TestFloodDamageCurve_Monotonic(t *testing.T) {
	prev := -1.0
	for depth := 0.0; depth <= 6.0; depth += 0.05 {
		ratio, err := DamageRatio(Flood, depth)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, ratio, prev, "depth %v", depth)
		assert.LessOrEqual(t, ratio, 1.0)
		prev = ratio
	}
}

func TestCycloneDamageCurve_SaffirSimpsonBands(t *testing.T) {
	// Below tropical-storm threshold there is no damage regardless of
	// construction.
	ratio, err := DamageRatio(Cyclone, 50, WithConstruction(Wood))
	require.NoError(t, err)
	assert.Zero(t, ratio)

	// Wood takes more damage than reinforced concrete at the same wind speed.
	wood, err := DamageRatio(Cyclone, 180, WithConstruction(Wood))
	require.NoError(t, err)
	concrete, err := DamageRatio(Cyclone, 180, WithConstruction(ReinforcedConcrete))
	require.NoError(t, err)
	assert.Greater(t, wood, concrete)

	// Category 5 winds cap at total loss.
	extreme, err := DamageRatio(Cyclone, 400, WithConstruction(Wood))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, extreme, 1e-9)
}

func TestWildfireDamageCurve(t *testing.T) {
	// 50% burn on masonry (resilience 1.0) is 50% damage.
	ratio, err := DamageRatio(Wildfire, 50, WithConstruction(Masonry))
	require.NoError(t, err)
	assert.InDelta(t, 0.50, ratio, 1e-9)

	// Wood amplifies but never exceeds total loss.
	ratio, err = DamageRatio(Wildfire, 90, WithConstruction(Wood))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ratio, 1e-9)
}

func TestDroughtDamageCurve_AgriculturalVsOther(t *testing.T) {
	agri, err := DamageRatio(Drought, -1.2, WithAssetType(domain.AssetAgricultural))
	require.NoError(t, err)
	commercial, err := DamageRatio(Drought, -1.2, WithAssetType(domain.AssetCommercial))
	require.NoError(t, err)

	assert.Greater(t, agri, commercial)

	// Wet conditions cause no damage for anyone.
	wet, err := DamageRatio(Drought, 1.0, WithAssetType(domain.AssetAgricultural))
	require.NoError(t, err)
	assert.Zero(t, wet)
}

func TestDamageRatio_NegativeIntensityRejected(t *testing.T) {
	for _, hazardType := range []Type{Flood, Cyclone, Wildfire} {
		_, err := DamageRatio(hazardType, -1)
		require.Error(t, err, "hazard %s", hazardType)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}

	// Drought intensity is an SPI index; negative is the dry regime, not an
	// error.
	_, err := DamageRatio(Drought, -2.0)
	assert.NoError(t, err)
}

func TestDamageRatio_UnknownHazard(t *testing.T) {
	_, err := DamageRatio(Type("earthquake"), 1.0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAssess(t *testing.T) {
	a, err := Assess(Flood, 1.0, 1_000_000)
	require.NoError(t, err)

	assert.InDelta(t, 0.40, a.DamageRatio, 1e-9)
	assert.InDelta(t, 400_000, a.PhysicalDamage, 1e-6)
	assert.InDelta(t, 600_000, a.ResidualValue, 1e-6)
	assert.Greater(t, a.DowntimeDays, 0)
}

func TestAssess_InvalidValue(t *testing.T) {
	_, err := Assess(Flood, 1.0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}

func TestEstimateDowntime_AssetTypeFactor(t *testing.T) {
	residential := EstimateDowntime(Flood, 1.0, domain.AssetResidential)
	industrial := EstimateDowntime(Flood, 1.0, domain.AssetIndustrial)
	assert.Greater(t, industrial, residential)
}
