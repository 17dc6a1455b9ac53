package hazard

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/aristath/climrisk/internal/domain"
)

func setupTestRepo(t *testing.T) *Repository {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db, zerolog.Nop())
	require.NoError(t, repo.EnsureSchema())
	return repo
}

func TestRepository_RegionRoundTrip(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.UpsertRegion(RegionProfile{
		Region:     "coastal_florida",
		Multiplier: 1.8,
		RiskLevel:  "high",
	}))

	m, err := repo.Multiplier("coastal_florida")
	require.NoError(t, err)
	assert.InDelta(t, 1.8, m, 1e-9)

	// Upsert overwrites
	require.NoError(t, repo.UpsertRegion(RegionProfile{
		Region:     "coastal_florida",
		Multiplier: 2.0,
		RiskLevel:  "extreme",
	}))
	m, err = repo.Multiplier("coastal_florida")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, m, 1e-9)
}

func TestRepository_UnknownRegionIsNeutral(t *testing.T) {
	repo := setupTestRepo(t)

	m, err := repo.Multiplier("uncalibrated_region")
	require.NoError(t, err)
	assert.Equal(t, 1.0, m)
}

func TestRepository_UpsertRegionValidation(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.UpsertRegion(RegionProfile{Region: "", Multiplier: 1.0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	err = repo.UpsertRegion(RegionProfile{Region: "x", Multiplier: -0.5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}

func TestRepository_IntensityRoundTrip(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.UpsertIntensity("coastal_florida", Flood, 100, 1.5))

	intensity, err := repo.Intensity("coastal_florida", Flood, 100)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, intensity, 1e-9)
}

func TestRepository_IntensityMissing(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Intensity("nowhere", Cyclone, 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRepository_ListRegionsOrdered(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.UpsertRegion(RegionProfile{Region: "zeta", Multiplier: 1.1, RiskLevel: "low"}))
	require.NoError(t, repo.UpsertRegion(RegionProfile{Region: "alpha", Multiplier: 1.4, RiskLevel: "medium"}))

	regions, err := repo.ListRegions()
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "alpha", regions[0].Region)
	assert.Equal(t, "zeta", regions[1].Region)
}
