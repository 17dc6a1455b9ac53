package scenario

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/climrisk/internal/domain"
	"github.com/aristath/climrisk/internal/modules/adjustment"
	"github.com/aristath/climrisk/internal/modules/simulation"
)

// Input names one scenario to evaluate: a label plus the climate factor the
// Monte Carlo engine runs with. Inputs may come from the catalog or be
// ad hoc.
type Input struct {
	Name          string  `json:"name"`
	ClimateFactor float64 `json:"climate_factor"`
}

// Result is the comparative outcome of one scenario evaluation. Results are
// immutable once created.
type Result struct {
	ScenarioName      string  `json:"scenario_name"`
	ClimateFactor     float64 `json:"climate_factor"`
	MeanReturn        float64 `json:"mean_return"`
	StdReturn         float64 `json:"std_return"`
	VaR5              float64 `json:"var_5"`
	ExpectedShortfall float64 `json:"expected_shortfall"`
	StressedPD        float64 `json:"stressed_pd"`
	ProbabilityOfLoss float64 `json:"probability_of_loss"`
	MeanFinalValue    float64 `json:"mean_final_value"`
	WorstCase5Pct     float64 `json:"worst_case_5pct"`
}

// RunOptions control the Monte Carlo runs behind a comparison.
type RunOptions struct {
	NumSimulations int
	HorizonSteps   int
	Confidence     float64
	Seed           int64
}

// Service evaluates portfolios across climate scenarios.
type Service struct {
	engine *simulation.Engine
	log    zerolog.Logger
}

// NewService creates a scenario comparison service.
func NewService(engine *simulation.Engine, log zerolog.Logger) *Service {
	return &Service{
		engine: engine,
		log:    log.With().Str("component", "scenario_service").Logger(),
	}
}

// Compare runs the Monte Carlo engine once per scenario and derives the
// comparative risk metrics. The result order matches the input order, one
// result per scenario.
func (s *Service) Compare(summary domain.Summary, scenarios []Input, opts RunOptions) ([]Result, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("%w: no scenarios provided", domain.ErrInvalidInput)
	}
	if summary.TotalValue <= 0 {
		return nil, fmt.Errorf("%w: portfolio has no value", domain.ErrInvalidParameter)
	}

	results := make([]Result, 0, len(scenarios))
	for _, sc := range scenarios {
		res, err := s.evaluate(summary, sc, opts)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		results = append(results, res)
	}

	s.log.Info().
		Int("scenarios", len(results)).
		Int("simulations", opts.NumSimulations).
		Msg("Scenario comparison completed")

	return results, nil
}

func (s *Service) evaluate(summary domain.Summary, sc Input, opts RunOptions) (Result, error) {
	run, err := s.engine.Run(summary.TotalValue, opts.HorizonSteps, sc.ClimateFactor, opts.NumSimulations, opts.Seed)
	if err != nil {
		return Result{}, err
	}

	returnDist, err := simulation.Describe(run.Returns)
	if err != nil {
		return Result{}, err
	}
	finalDist, err := simulation.Describe(run.Terminal)
	if err != nil {
		return Result{}, err
	}
	metrics, err := simulation.Metrics(run.Returns, opts.Confidence)
	if err != nil {
		return Result{}, err
	}

	// Stressed PD at 99% confidence over the value-weighted portfolio PD.
	stressedPD, err := adjustment.StressedPD(summary.WeightedPD, summary.WeightedBeta, sc.ClimateFactor)
	if err != nil {
		return Result{}, err
	}

	return Result{
		ScenarioName:      sc.Name,
		ClimateFactor:     sc.ClimateFactor,
		MeanReturn:        returnDist.Mean,
		StdReturn:         returnDist.Std,
		VaR5:              returnDist.P5,
		ExpectedShortfall: metrics.ExpectedShortfall,
		StressedPD:        stressedPD,
		ProbabilityOfLoss: metrics.ProbabilityOfLoss,
		MeanFinalValue:    finalDist.Mean,
		WorstCase5Pct:     finalDist.P5,
	}, nil
}
