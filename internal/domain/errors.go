// Package domain holds the shared core types for the climate credit-risk
// engine: portfolio assets, error kinds, and the value objects passed
// between modules. The domain layer is pure - no infrastructure imports.
package domain

import "errors"

// Error kinds raised by the core computation modules.
// Callers match them with errors.Is; the HTTP layer maps them to 4xx codes.
var (
	// ErrInvalidInput indicates malformed external input, e.g. a negative
	// hazard intensity or an unknown hazard type.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidParameter indicates an out-of-range model parameter:
	// PD/LGD/beta/correlation outside their bounds, non-positive exposure,
	// or a simulation run with fewer than one path or time step.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInsufficientSamples indicates a statistical aggregate that is
	// undefined for the simulated sample, e.g. an empty tail when computing
	// expected shortfall with very few paths.
	ErrInsufficientSamples = errors.New("insufficient samples")
)
