package domain

import "fmt"

// AssetType categorizes real-estate exposures. The damage curves and the
// downtime model treat types differently (agricultural assets are the most
// drought-sensitive, industrial assets take the longest to recover).
type AssetType string

const (
	AssetResidential  AssetType = "residential"
	AssetCommercial   AssetType = "commercial"
	AssetIndustrial   AssetType = "industrial"
	AssetAgricultural AssetType = "agricultural"
)

// Asset is a single real-estate exposure in the portfolio.
// Assets are immutable once loaded; the portfolio owns them.
type Asset struct {
	ID          string    `json:"asset_id"`
	Value       float64   `json:"value"`
	Type        AssetType `json:"asset_type"`
	Region      string    `json:"region"`
	BasePD      float64   `json:"base_pd"`
	BaseLGD     float64   `json:"base_lgd"`
	ClimateBeta float64   `json:"climate_beta"`
	DamageRatio float64   `json:"damage_ratio"`
}

// Validate checks the asset's numeric fields against their model bounds.
func (a Asset) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: asset id is empty", ErrInvalidParameter)
	}
	if a.Value <= 0 {
		return fmt.Errorf("%w: asset %s value must be positive, got %v", ErrInvalidParameter, a.ID, a.Value)
	}
	if a.BasePD <= 0 || a.BasePD >= 1 {
		return fmt.Errorf("%w: asset %s base_pd must be in (0,1), got %v", ErrInvalidParameter, a.ID, a.BasePD)
	}
	if a.BaseLGD <= 0 || a.BaseLGD >= 1 {
		return fmt.Errorf("%w: asset %s base_lgd must be in (0,1), got %v", ErrInvalidParameter, a.ID, a.BaseLGD)
	}
	if a.ClimateBeta < 0 || a.ClimateBeta > 1 {
		return fmt.Errorf("%w: asset %s climate_beta must be in [0,1], got %v", ErrInvalidParameter, a.ID, a.ClimateBeta)
	}
	if a.DamageRatio < 0 || a.DamageRatio > 1 {
		return fmt.Errorf("%w: asset %s damage_ratio must be in [0,1], got %v", ErrInvalidParameter, a.ID, a.DamageRatio)
	}
	return nil
}

// Portfolio is an ordered collection of assets. Duplicate IDs are not
// rejected at entry; the report layer keys rows by position, not ID.
type Portfolio []Asset

// TotalValue sums asset values.
func (p Portfolio) TotalValue() float64 {
	total := 0.0
	for _, a := range p {
		total += a.Value
	}
	return total
}

// Validate validates every asset in order and reports the first failure.
func (p Portfolio) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: portfolio is empty", ErrInvalidParameter)
	}
	for _, a := range p {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Summary condenses a portfolio into the scalar inputs the simulation and
// scenario modules consume: total value plus value-weighted credit
// parameters.
type Summary struct {
	TotalValue     float64 `json:"total_value"`
	NumAssets      int     `json:"num_assets"`
	WeightedPD     float64 `json:"weighted_pd"`
	WeightedLGD    float64 `json:"weighted_lgd"`
	WeightedBeta   float64 `json:"weighted_beta"`
	WeightedDamage float64 `json:"weighted_damage_ratio"`
}

// Summarize computes the value-weighted portfolio summary.
func (p Portfolio) Summarize() Summary {
	s := Summary{NumAssets: len(p), TotalValue: p.TotalValue()}
	if s.TotalValue <= 0 {
		return s
	}
	for _, a := range p {
		w := a.Value / s.TotalValue
		s.WeightedPD += w * a.BasePD
		s.WeightedLGD += w * a.BaseLGD
		s.WeightedBeta += w * a.ClimateBeta
		s.WeightedDamage += w * a.DamageRatio
	}
	return s
}
