package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes the per-asset section of a report as CSV, one row per
// asset, followed by one row per scenario. The format matches what the
// external report generators expect.
func WriteCSV(w io.Writer, rep *RiskReport) error {
	cw := csv.NewWriter(w)

	header := []string{
		"asset_id", "value", "weight", "climate_factor",
		"base_pd", "stressed_pd", "base_lgd", "adjusted_lgd",
		"base_el", "stressed_el", "base_ul", "stressed_ul",
		"base_capital", "stressed_capital", "climate_buffer",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, a := range rep.Assets {
		row := []string{
			a.AssetID,
			fmtFloat(a.Value),
			fmtFloat(a.Weight),
			fmtFloat(a.ClimateFactor),
			fmtFloat(a.BasePD),
			fmtFloat(a.StressedPD),
			fmtFloat(a.BaseLGD),
			fmtFloat(a.AdjustedLGD),
			fmtFloat(a.BaseEL),
			fmtFloat(a.StressedEL),
			fmtFloat(a.BaseUL),
			fmtFloat(a.StressedUL),
			fmtFloat(a.BaseCapital),
			fmtFloat(a.StressedCapital),
			fmtFloat(a.ClimateBuffer),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write asset row %s: %w", a.AssetID, err)
		}
	}

	// Scenario block, separated by a blank record for readability.
	if err := cw.Write([]string{}); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}
	scenarioHeader := []string{
		"scenario", "climate_factor", "mean_return", "var_5",
		"expected_shortfall", "stressed_pd", "probability_of_loss",
	}
	if err := cw.Write(scenarioHeader); err != nil {
		return fmt.Errorf("failed to write scenario header: %w", err)
	}
	for _, sc := range rep.Scenarios {
		row := []string{
			sc.ScenarioName,
			fmtFloat(sc.ClimateFactor),
			fmtFloat(sc.MeanReturn),
			fmtFloat(sc.VaR5),
			fmtFloat(sc.ExpectedShortfall),
			fmtFloat(sc.StressedPD),
			fmtFloat(sc.ProbabilityOfLoss),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write scenario row %s: %w", sc.ScenarioName, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
