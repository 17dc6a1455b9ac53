package scheduler

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/aristath/climrisk/internal/config"
	"github.com/aristath/climrisk/internal/domain"
	"github.com/aristath/climrisk/internal/events"
	"github.com/aristath/climrisk/internal/modules/hazard"
	"github.com/aristath/climrisk/internal/modules/portfolio"
	"github.com/aristath/climrisk/internal/modules/report"
	"github.com/aristath/climrisk/internal/modules/scenario"
	"github.com/aristath/climrisk/internal/modules/simulation"
)

func setupJob(t *testing.T) (*ReportRefreshJob, *portfolio.Service, *events.Bus) {
	portfolioDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { portfolioDB.Close() })

	portfolioRepo := portfolio.NewRepository(portfolioDB, zerolog.Nop())
	require.NoError(t, portfolioRepo.EnsureSchema())
	portfolioService := portfolio.NewService(portfolioRepo, zerolog.Nop())

	hazardDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { hazardDB.Close() })

	hazardRepo := hazard.NewRepository(hazardDB, zerolog.Nop())
	require.NoError(t, hazardRepo.EnsureSchema())

	scenarios := scenario.NewService(simulation.NewEngine(zerolog.Nop()), zerolog.Nop())
	reports := report.NewService(hazardRepo, scenarios, nil, zerolog.Nop())

	bus := events.NewBus(zerolog.Nop())
	defaults := config.SimulationDefaults{
		NumSimulations: 200,
		TimeHorizon:    5,
		Confidence:     0.95,
		Correlation:    0.3,
		CapitalRatio:   0.08,
		Seed:           42,
	}

	job := NewReportRefreshJob(reports, portfolioService, nil, bus, defaults, zerolog.Nop())
	return job, portfolioService, bus
}

func TestReportRefreshJob_Name(t *testing.T) {
	job, _, _ := setupJob(t)
	assert.Equal(t, "report_refresh", job.Name())
}

func TestReportRefreshJob_SkipsEmptyPortfolio(t *testing.T) {
	job, _, bus := setupJob(t)

	var emitted []*events.Event
	bus.Subscribe(func(e *events.Event) { emitted = append(emitted, e) })

	require.NoError(t, job.Run())
	assert.Empty(t, emitted)
}

func TestReportRefreshJob_BuildsReport(t *testing.T) {
	job, portfolioService, bus := setupJob(t)

	require.NoError(t, portfolioService.Add(domain.Asset{
		ID:          "asset-1",
		Value:       1_000_000,
		Type:        domain.AssetResidential,
		Region:      "coastal_florida",
		BasePD:      0.02,
		BaseLGD:     0.4,
		ClimateBeta: 0.5,
		DamageRatio: 0.15,
	}))

	var emitted []*events.Event
	bus.Subscribe(func(e *events.Event) { emitted = append(emitted, e) })

	require.NoError(t, job.Run())

	require.Len(t, emitted, 1)
	assert.Equal(t, events.ReportCompleted, emitted[0].Type)
	assert.Equal(t, "scheduler", emitted[0].Module)
	assert.NotEmpty(t, emitted[0].Data["report_id"])
}
