package portfolio

import (
	"github.com/rs/zerolog"

	"github.com/aristath/climrisk/internal/domain"
)

// Service exposes portfolio operations to handlers and the report builder.
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a portfolio service.
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "portfolio_service").Logger(),
	}
}

// Load returns the stored portfolio in insertion order.
func (s *Service) Load() (domain.Portfolio, error) {
	return s.repo.List()
}

// Store validates and replaces the stored portfolio.
func (s *Service) Store(p domain.Portfolio) error {
	return s.repo.Replace(p)
}

// Add validates and appends a single asset.
func (s *Service) Add(a domain.Asset) error {
	return s.repo.Insert(a)
}

// Summary loads the portfolio and computes its value-weighted summary.
func (s *Service) Summary() (domain.Summary, error) {
	p, err := s.repo.List()
	if err != nil {
		return domain.Summary{}, err
	}
	return p.Summarize(), nil
}
