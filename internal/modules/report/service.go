// Package report assembles the climate credit-risk report: per-asset base
// and stressed credit metrics, portfolio aggregation, and per-scenario
// Monte Carlo tail risk. Reports can be exported to CSV and archived to S3.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/climrisk/internal/domain"
	"github.com/aristath/climrisk/internal/modules/calculations"
	"github.com/aristath/climrisk/internal/modules/hazard"
	"github.com/aristath/climrisk/internal/modules/loss"
	"github.com/aristath/climrisk/internal/modules/scenario"
)

// AssetRisk holds the base vs stressed credit metrics for one asset.
type AssetRisk struct {
	AssetID string  `json:"asset_id"`
	Value   float64 `json:"value"`
	Weight  float64 `json:"weight"`

	ClimateFactor float64 `json:"climate_factor"`

	BasePD      float64 `json:"base_pd"`
	StressedPD  float64 `json:"stressed_pd"`
	BaseLGD     float64 `json:"base_lgd"`
	AdjustedLGD float64 `json:"adjusted_lgd"`

	BaseEL     float64 `json:"base_expected_loss"`
	StressedEL float64 `json:"stressed_expected_loss"`
	BaseUL     float64 `json:"base_unexpected_loss"`
	StressedUL float64 `json:"stressed_unexpected_loss"`

	BaseCapital     float64 `json:"base_capital"`
	StressedCapital float64 `json:"stressed_capital"`
	ClimateBuffer   float64 `json:"climate_buffer"`
}

// RiskReport is the full computation output consumed by dashboards and
// report generators.
type RiskReport struct {
	ID          string    `json:"report_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Summary   domain.Summary     `json:"portfolio_summary"`
	Assets    []AssetRisk        `json:"assets"`
	Portfolio loss.PortfolioRisk `json:"portfolio_risk"`
	Scenarios []scenario.Result  `json:"scenarios"`
}

// Options control a report build.
type Options struct {
	Scenarios      []scenario.Input
	NumSimulations int
	HorizonSteps   int
	Confidence     float64
	Correlation    float64
	CapitalRatio   float64
	Seed           int64
}

// Service builds risk reports from the current portfolio.
type Service struct {
	hazardRepo *hazard.Repository
	scenarios  *scenario.Service
	cache      *calculations.Cache // optional
	log        zerolog.Logger
}

// NewService creates a report service. cache may be nil, in which case every
// build recomputes from scratch.
func NewService(hazardRepo *hazard.Repository, scenarios *scenario.Service, cache *calculations.Cache, log zerolog.Logger) *Service {
	return &Service{
		hazardRepo: hazardRepo,
		scenarios:  scenarios,
		cache:      cache,
		log:        log.With().Str("component", "report_service").Logger(),
	}
}

// Build computes the full risk report for a portfolio: per-asset full
// analysis, portfolio aggregation with diversification, and the scenario
// comparison. Results are cached keyed by the portfolio and options hash.
func (s *Service) Build(portfolio domain.Portfolio, opts Options) (*RiskReport, error) {
	if err := portfolio.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Scenarios) == 0 {
		return nil, fmt.Errorf("%w: no scenarios provided", domain.ErrInvalidInput)
	}

	cacheKey := hashBuildInputs(portfolio, opts)
	if s.cache != nil {
		var cached RiskReport
		ok, err := s.cache.Get("risk_report", cacheKey, &cached)
		if err != nil {
			s.log.Warn().Err(err).Msg("Cache lookup failed, recalculating")
		} else if ok {
			s.log.Debug().Str("hash", cacheKey[:8]).Msg("Using cached risk report")
			return &cached, nil
		}
	}

	start := time.Now()
	total := portfolio.TotalValue()
	params := loss.Params{
		Correlation:     opts.Correlation,
		CapitalRatio:    opts.CapitalRatio,
		ConfidenceLevel: 0.999,
	}

	assets := make([]AssetRisk, 0, len(portfolio))
	analyses := make([]loss.Analysis, 0, len(portfolio))
	for _, a := range portfolio {
		multiplier, err := s.hazardRepo.Multiplier(a.Region)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", a.ID, err)
		}

		analysis, err := loss.FullAnalysis(a.Value, a.BasePD, a.BaseLGD, a.DamageRatio, a.ClimateBeta, multiplier, params)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", a.ID, err)
		}
		analyses = append(analyses, analysis)

		assets = append(assets, AssetRisk{
			AssetID:         a.ID,
			Value:           a.Value,
			Weight:          a.Value / total,
			ClimateFactor:   analysis.Adjustment.ClimateFactor,
			BasePD:          a.BasePD,
			StressedPD:      analysis.StressedPD,
			BaseLGD:         a.BaseLGD,
			AdjustedLGD:     analysis.Adjustment.AdjustedLGD,
			BaseEL:          analysis.BaseEL,
			StressedEL:      analysis.StressedEL,
			BaseUL:          analysis.BaseUL,
			StressedUL:      analysis.StressedUL,
			BaseCapital:     analysis.BaseCapital,
			StressedCapital: analysis.StressedCapital,
			ClimateBuffer:   analysis.ClimateBuffer,
		})
	}

	portfolioRisk, err := loss.AggregatePortfolio(portfolio, analyses, opts.Correlation)
	if err != nil {
		return nil, err
	}

	scenarioResults, err := s.scenarios.Compare(portfolio.Summarize(), opts.Scenarios, scenario.RunOptions{
		NumSimulations: opts.NumSimulations,
		HorizonSteps:   opts.HorizonSteps,
		Confidence:     opts.Confidence,
		Seed:           opts.Seed,
	})
	if err != nil {
		return nil, err
	}

	rep := &RiskReport{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Summary:     portfolio.Summarize(),
		Assets:      assets,
		Portfolio:   portfolioRisk,
		Scenarios:   scenarioResults,
	}

	s.log.Info().
		Int("assets", len(assets)).
		Int("scenarios", len(scenarioResults)).
		Dur("elapsed", time.Since(start)).
		Msg("Risk report built")

	if s.cache != nil {
		if err := s.cache.Set("risk_report", cacheKey, rep, calculations.TTLReport); err != nil {
			s.log.Warn().Err(err).Msg("Failed to cache risk report")
		}
	}

	return rep, nil
}

// CompareScenarios runs the scenario comparison alone, without the per-asset
// loss analysis. Used when callers already hold a portfolio summary.
func (s *Service) CompareScenarios(summary domain.Summary, opts Options) ([]scenario.Result, error) {
	if len(opts.Scenarios) == 0 {
		return nil, fmt.Errorf("%w: no scenarios provided", domain.ErrInvalidInput)
	}

	return s.scenarios.Compare(summary, opts.Scenarios, scenario.RunOptions{
		NumSimulations: opts.NumSimulations,
		HorizonSteps:   opts.HorizonSteps,
		Confidence:     opts.Confidence,
		Seed:           opts.Seed,
	})
}

// hashBuildInputs creates a deterministic cache key from the portfolio and
// build options.
func hashBuildInputs(portfolio domain.Portfolio, opts Options) string {
	h := sha256.New()
	for _, a := range portfolio {
		fmt.Fprintf(h, "%s|%v|%s|%s|%v|%v|%v|%v;", a.ID, a.Value, a.Type, a.Region, a.BasePD, a.BaseLGD, a.ClimateBeta, a.DamageRatio)
	}
	for _, sc := range opts.Scenarios {
		fmt.Fprintf(h, "%s|%v;", sc.Name, sc.ClimateFactor)
	}
	fmt.Fprintf(h, "%d|%d|%v|%v|%v|%d", opts.NumSimulations, opts.HorizonSteps, opts.Confidence, opts.Correlation, opts.CapitalRatio, opts.Seed)
	return hex.EncodeToString(h.Sum(nil)[:16])
}
