package portfolio

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

func testAsset(id string, value float64) domain.Asset {
	return domain.Asset{
		ID:          id,
		Value:       value,
		Type:        domain.AssetResidential,
		Region:      "coastal_florida",
		BasePD:      0.02,
		BaseLGD:     0.4,
		ClimateBeta: 0.5,
		DamageRatio: 0.15,
	}
}

func TestRepository_InsertAndList(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Insert(testAsset("a-1", 1_000_000)))
	require.NoError(t, repo.Insert(testAsset("a-2", 2_000_000)))

	assets, err := repo.List()
	require.NoError(t, err)
	require.Len(t, assets, 2)

	// Insertion order is preserved.
	assert.Equal(t, "a-1", assets[0].ID)
	assert.Equal(t, "a-2", assets[1].ID)
	assert.Equal(t, domain.AssetResidential, assets[0].Type)
	assert.InDelta(t, 0.02, assets[0].BasePD, 1e-12)
}

func TestRepository_InsertValidates(t *testing.T) {
	repo := setupTestRepo(t)

	bad := testAsset("a-1", 1_000_000)
	bad.BasePD = 1.5

	err := repo.Insert(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepository_Replace(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Insert(testAsset("old-1", 500_000)))
	require.NoError(t, repo.Insert(testAsset("old-2", 500_000)))

	replacement := domain.Portfolio{
		testAsset("new-1", 1_000_000),
		testAsset("new-2", 2_000_000),
		testAsset("new-3", 3_000_000),
	}
	require.NoError(t, repo.Replace(replacement))

	assets, err := repo.List()
	require.NoError(t, err)
	require.Len(t, assets, 3)
	assert.Equal(t, "new-1", assets[0].ID)
	assert.Equal(t, "new-3", assets[2].ID)
}

func TestRepository_ReplaceRejectsInvalid(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Insert(testAsset("keep", 500_000)))

	bad := testAsset("bad", 1_000_000)
	bad.BaseLGD = 2.0

	err := repo.Replace(domain.Portfolio{bad})
	require.Error(t, err)

	// The stored portfolio is untouched on failure.
	assets, err := repo.List()
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "keep", assets[0].ID)
}

func TestRepository_ReplaceRejectsEmpty(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.Replace(domain.Portfolio{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}

func TestService_Summary(t *testing.T) {
	repo := setupTestRepo(t)
	service := NewService(repo, zerolog.Nop())

	require.NoError(t, service.Add(testAsset("a-1", 1_000_000)))

	heavy := testAsset("a-2", 3_000_000)
	heavy.BasePD = 0.04
	require.NoError(t, service.Add(heavy))

	summary, err := service.Summary()
	require.NoError(t, err)

	assert.Equal(t, 2, summary.NumAssets)
	assert.InDelta(t, 4_000_000, summary.TotalValue, 1e-6)
	assert.InDelta(t, 0.035, summary.WeightedPD, 1e-9)
}

func TestService_LoadEmpty(t *testing.T) {
	repo := setupTestRepo(t)
	service := NewService(repo, zerolog.Nop())

	assets, err := service.Load()
	require.NoError(t, err)
	assert.Empty(t, assets)
}
