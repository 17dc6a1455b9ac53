package hazard

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/climrisk/internal/domain"
)

// RegionProfile describes the hazard exposure of a region: the multiplier
// applied on top of asset damage ratios and a coarse risk label.
type RegionProfile struct {
	Region     string  `json:"region"`
	Multiplier float64 `json:"multiplier"`
	RiskLevel  string  `json:"risk_level"`
}

// Repository provides access to the regional hazard tables in hazard.db.
// Intensities are keyed by (region, hazard type, return period in years).
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a regional hazard repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "hazard_repository").Logger(),
	}
}

// EnsureSchema creates the hazard tables if they do not exist.
func (r *Repository) EnsureSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS regions (
			region     TEXT PRIMARY KEY,
			multiplier REAL NOT NULL DEFAULT 1.0,
			risk_level TEXT NOT NULL DEFAULT 'unknown'
		);
		CREATE TABLE IF NOT EXISTS hazard_intensities (
			region        TEXT NOT NULL,
			hazard_type   TEXT NOT NULL,
			return_period INTEGER NOT NULL,
			intensity     REAL NOT NULL,
			PRIMARY KEY (region, hazard_type, return_period)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create hazard schema: %w", err)
	}
	return nil
}

// UpsertRegion stores a region profile.
func (r *Repository) UpsertRegion(p RegionProfile) error {
	if p.Region == "" {
		return fmt.Errorf("%w: region name is empty", domain.ErrInvalidInput)
	}
	if p.Multiplier < 0 {
		return fmt.Errorf("%w: regional multiplier must be non-negative, got %v", domain.ErrInvalidParameter, p.Multiplier)
	}

	_, err := r.db.Exec(`
		INSERT INTO regions (region, multiplier, risk_level)
		VALUES (?, ?, ?)
		ON CONFLICT(region) DO UPDATE SET
			multiplier = excluded.multiplier,
			risk_level = excluded.risk_level
	`, p.Region, p.Multiplier, p.RiskLevel)
	if err != nil {
		return fmt.Errorf("failed to upsert region %s: %w", p.Region, err)
	}
	return nil
}

// Multiplier returns the regional hazard multiplier. Unknown regions get the
// neutral multiplier 1.0 rather than an error, so portfolios can reference
// regions that have no calibrated hazard data yet.
func (r *Repository) Multiplier(region string) (float64, error) {
	var m float64
	err := r.db.QueryRow(`SELECT multiplier FROM regions WHERE region = ?`, region).Scan(&m)
	if errors.Is(err, sql.ErrNoRows) {
		r.log.Debug().Str("region", region).Msg("Region not calibrated, using neutral multiplier")
		return 1.0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up region %s: %w", region, err)
	}
	return m, nil
}

// UpsertIntensity stores a hazard intensity for a region and return period.
func (r *Repository) UpsertIntensity(region string, hazardType Type, returnPeriod int, intensity float64) error {
	if returnPeriod <= 0 {
		return fmt.Errorf("%w: return period must be positive, got %d", domain.ErrInvalidParameter, returnPeriod)
	}

	_, err := r.db.Exec(`
		INSERT INTO hazard_intensities (region, hazard_type, return_period, intensity)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(region, hazard_type, return_period) DO UPDATE SET
			intensity = excluded.intensity
	`, region, string(hazardType), returnPeriod, intensity)
	if err != nil {
		return fmt.Errorf("failed to upsert intensity for %s/%s/%d: %w", region, hazardType, returnPeriod, err)
	}
	return nil
}

// Intensity returns the hazard intensity for (region, hazardType, returnPeriod).
func (r *Repository) Intensity(region string, hazardType Type, returnPeriod int) (float64, error) {
	var intensity float64
	err := r.db.QueryRow(`
		SELECT intensity FROM hazard_intensities
		WHERE region = ? AND hazard_type = ? AND return_period = ?
	`, region, string(hazardType), returnPeriod).Scan(&intensity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: no %s intensity for region %s at return period %d",
			domain.ErrInvalidInput, hazardType, region, returnPeriod)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up intensity for %s/%s/%d: %w", region, hazardType, returnPeriod, err)
	}
	return intensity, nil
}

// ListRegions returns all calibrated region profiles ordered by name.
func (r *Repository) ListRegions() ([]RegionProfile, error) {
	rows, err := r.db.Query(`SELECT region, multiplier, risk_level FROM regions ORDER BY region`)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	defer rows.Close()

	var profiles []RegionProfile
	for rows.Next() {
		var p RegionProfile
		if err := rows.Scan(&p.Region, &p.Multiplier, &p.RiskLevel); err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating regions: %w", err)
	}
	return profiles, nil
}
