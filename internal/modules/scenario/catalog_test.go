package scenario

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/climrisk/internal/domain"
	"github.com/aristath/climrisk/internal/modules/hazard"
)

func TestCatalog(t *testing.T) {
	defs := Catalog()
	require.Len(t, defs, 6)

	// Canonical order: severity increases from orderly to hot-house.
	prev := 0.0
	for _, d := range defs {
		assert.Greater(t, d.ClimateFactor, prev, "scenario %s", d.ID)
		prev = d.ClimateFactor
	}

	assert.Equal(t, "orderly_net_zero", defs[0].ID)
	assert.Equal(t, "hot_house_current", defs[5].ID)

	// Every catalog entry carries a hazard projection.
	for _, d := range defs {
		_, err := ProjectHazard(d.ID, hazard.Flood, 26, 1.0)
		assert.NoError(t, err, "scenario %s", d.ID)
	}
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	defs := Catalog()
	defs[0].ClimateFactor = 99

	assert.Equal(t, 0.15, Catalog()[0].ClimateFactor)
}

func TestLookup(t *testing.T) {
	def, err := Lookup("disorderly_delayed")
	require.NoError(t, err)
	assert.Equal(t, 0.35, def.ClimateFactor)
	assert.Equal(t, "disorderly", def.Category)

	_, err = Lookup("no_such_scenario")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestByCategory(t *testing.T) {
	assert.Len(t, ByCategory("orderly"), 2)
	assert.Len(t, ByCategory("disorderly"), 2)
	assert.Len(t, ByCategory("hot_house"), 2)
	assert.Empty(t, ByCategory("fictional"))
}

func TestSeverityPreset(t *testing.T) {
	factor, err := SeverityPreset(hazard.Flood, "severe")
	require.NoError(t, err)
	assert.Equal(t, 0.30, factor)

	_, err = SeverityPreset(hazard.Flood, "apocalyptic")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = SeverityPreset(hazard.Type("earthquake"), "severe")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestProjectHazard(t *testing.T) {
	// Full window at 26 years: yearFraction = 1.
	// hot_house_current flood intensity increase = 1.0, temp rise 3.5.
	// multiplier = (1 + 1.0) * (1 + (3.5-1.5)/2) = 2 * 2 = 4.
	p, err := ProjectHazard("hot_house_current", hazard.Flood, 26, 0.5)
	require.NoError(t, err)

	assert.InDelta(t, 4.0, p.IntensityMultiplier, 1e-9)
	assert.InDelta(t, 2.0, p.ProjectedIntensity, 1e-9)
	assert.Equal(t, 26, p.TimeHorizonYears)
}

func TestProjectHazard_ZeroHorizonIsBaseline(t *testing.T) {
	p, err := ProjectHazard("orderly_net_zero", hazard.Drought, 0, 1.2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p.IntensityMultiplier, 1e-9)
	assert.InDelta(t, 1.2, p.ProjectedIntensity, 1e-9)
}

func TestProjectHazard_Validation(t *testing.T) {
	_, err := ProjectHazard("no_such_scenario", hazard.Flood, 10, 1.0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = ProjectHazard("orderly_net_zero", hazard.Type("earthquake"), 10, 1.0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = ProjectHazard("orderly_net_zero", hazard.Flood, -1, 1.0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}

func TestProjectHazard_SeverityOrdering(t *testing.T) {
	// Hotter scenarios project strictly higher intensities.
	mild, err := ProjectHazard("orderly_net_zero", hazard.Wildfire, 13, 1.0)
	require.NoError(t, err)
	hot, err := ProjectHazard("hot_house_current", hazard.Wildfire, 13, 1.0)
	require.NoError(t, err)

	assert.Greater(t, hot.ProjectedIntensity, mild.ProjectedIntensity)
}
