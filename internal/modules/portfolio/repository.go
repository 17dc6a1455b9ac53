// Package portfolio manages the asset portfolio: sqlite-backed storage plus
// the service that loads and summarizes it for the risk modules.
package portfolio

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/climrisk/internal/domain"
)

// Repository provides access to the assets table in portfolio.db.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates an asset repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "asset_repository").Logger(),
	}
}

// EnsureSchema creates the assets table if it does not exist.
func (r *Repository) EnsureSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS assets (
			asset_id     TEXT NOT NULL,
			value        REAL NOT NULL,
			asset_type   TEXT NOT NULL,
			region       TEXT NOT NULL,
			base_pd      REAL NOT NULL,
			base_lgd     REAL NOT NULL,
			climate_beta REAL NOT NULL DEFAULT 0.5,
			damage_ratio REAL NOT NULL DEFAULT 0.0,
			position     INTEGER PRIMARY KEY AUTOINCREMENT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create assets schema: %w", err)
	}
	return nil
}

// Insert appends an asset to the portfolio. Duplicate asset IDs are allowed;
// ordering is preserved via the autoincrement position.
func (r *Repository) Insert(a domain.Asset) error {
	if err := a.Validate(); err != nil {
		return err
	}

	_, err := r.db.Exec(`
		INSERT INTO assets (asset_id, value, asset_type, region, base_pd, base_lgd, climate_beta, damage_ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Value, string(a.Type), a.Region, a.BasePD, a.BaseLGD, a.ClimateBeta, a.DamageRatio)
	if err != nil {
		return fmt.Errorf("failed to insert asset %s: %w", a.ID, err)
	}
	return nil
}

// List returns all assets in insertion order.
func (r *Repository) List() (domain.Portfolio, error) {
	rows, err := r.db.Query(`
		SELECT asset_id, value, asset_type, region, base_pd, base_lgd, climate_beta, damage_ratio
		FROM assets
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var portfolio domain.Portfolio
	for rows.Next() {
		var a domain.Asset
		var assetType string
		if err := rows.Scan(&a.ID, &a.Value, &assetType, &a.Region, &a.BasePD, &a.BaseLGD, &a.ClimateBeta, &a.DamageRatio); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		a.Type = domain.AssetType(assetType)
		portfolio = append(portfolio, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}
	return portfolio, nil
}

// Replace swaps the stored portfolio for the given one in a single
// transaction.
func (r *Repository) Replace(portfolio domain.Portfolio) error {
	if err := portfolio.Validate(); err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM assets`); err != nil {
		return fmt.Errorf("failed to clear assets: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO assets (asset_id, value, asset_type, region, base_pd, base_lgd, climate_beta, damage_ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range portfolio {
		if _, err := stmt.Exec(a.ID, a.Value, string(a.Type), a.Region, a.BasePD, a.BaseLGD, a.ClimateBeta, a.DamageRatio); err != nil {
			return fmt.Errorf("failed to insert asset %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit portfolio replace: %w", err)
	}

	r.log.Info().Int("assets", len(portfolio)).Msg("Portfolio replaced")
	return nil
}

// Count returns the number of stored assets.
func (r *Repository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM assets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count assets: %w", err)
	}
	return n, nil
}
