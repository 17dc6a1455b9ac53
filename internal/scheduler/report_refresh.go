package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/climrisk/internal/config"
	"github.com/aristath/climrisk/internal/events"
	"github.com/aristath/climrisk/internal/modules/portfolio"
	"github.com/aristath/climrisk/internal/modules/report"
	"github.com/aristath/climrisk/internal/modules/scenario"
)

// ReportRefreshJob rebuilds the portfolio risk report against the full
// scenario catalog. The build result lands in the calculation cache, so the
// first morning dashboard request is served warm. When an archiver is
// configured the refreshed report is also uploaded.
type ReportRefreshJob struct {
	reports   *report.Service
	portfolio *portfolio.Service
	archiver  *report.Archiver // optional
	bus       *events.Bus      // optional
	defaults  config.SimulationDefaults
	log       zerolog.Logger
}

// NewReportRefreshJob creates the nightly report refresh job. archiver and
// bus may be nil.
func NewReportRefreshJob(
	reports *report.Service,
	portfolioService *portfolio.Service,
	archiver *report.Archiver,
	bus *events.Bus,
	defaults config.SimulationDefaults,
	log zerolog.Logger,
) *ReportRefreshJob {
	return &ReportRefreshJob{
		reports:   reports,
		portfolio: portfolioService,
		archiver:  archiver,
		bus:       bus,
		defaults:  defaults,
		log:       log.With().Str("job", "report_refresh").Logger(),
	}
}

// Name returns the job name
func (j *ReportRefreshJob) Name() string {
	return "report_refresh"
}

// Run rebuilds the full-catalog risk report for the current portfolio.
// An empty portfolio is not an error; the job just skips the cycle.
func (j *ReportRefreshJob) Run() error {
	assets, err := j.portfolio.Load()
	if err != nil {
		return err
	}
	if len(assets) == 0 {
		j.log.Info().Msg("Portfolio empty, skipping report refresh")
		return nil
	}

	opts := report.Options{
		NumSimulations: j.defaults.NumSimulations,
		HorizonSteps:   j.defaults.TimeHorizon,
		Confidence:     j.defaults.Confidence,
		Correlation:    j.defaults.Correlation,
		CapitalRatio:   j.defaults.CapitalRatio,
		Seed:           j.defaults.Seed,
	}
	for _, def := range scenario.Catalog() {
		opts.Scenarios = append(opts.Scenarios, scenario.Input{
			Name:          def.Name,
			ClimateFactor: def.ClimateFactor,
		})
	}

	rep, err := j.reports.Build(assets, opts)
	if err != nil {
		if j.bus != nil {
			j.bus.Emit(events.ReportFailed, "scheduler", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return err
	}

	j.log.Info().
		Str("report_id", rep.ID).
		Int("assets", len(rep.Assets)).
		Msg("Nightly risk report refreshed")

	if j.bus != nil {
		j.bus.Emit(events.ReportCompleted, "scheduler", map[string]interface{}{
			"report_id": rep.ID,
		})
	}

	if j.archiver != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		key, err := j.archiver.Archive(ctx, rep)
		if err != nil {
			j.log.Error().Err(err).Msg("Failed to archive nightly report")
			return nil // archive failure does not fail the refresh
		}
		j.log.Info().Str("key", key).Msg("Nightly report archived")
	}

	return nil
}
