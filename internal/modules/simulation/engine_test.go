package simulation

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/climrisk/internal/domain"
)

func TestEngineRun_Dimensions(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	result, err := engine.Run(1_000_000, 10, 0.3, 50, 42)
	require.NoError(t, err)

	assert.Len(t, result.Paths, 50)
	assert.Len(t, result.Paths[0], 11)
	assert.Len(t, result.Terminal, 50)
	assert.Len(t, result.Returns, 50)
	assert.Equal(t, 50, result.NumPaths)
	assert.Equal(t, 10, result.HorizonSteps)

	for _, path := range result.Paths {
		assert.Equal(t, 1_000_000.0, path[0])
		for _, v := range path {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}
}

func TestEngineRun_ZeroClimateFactorIsDeterministic(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	result, err := engine.Run(1_000_000, 10, 0, 20, 0)
	require.NoError(t, err)

	// With no climate shock every path stays at the initial value.
	for _, terminal := range result.Terminal {
		assert.Equal(t, 1_000_000.0, terminal)
	}
	for _, r := range result.Returns {
		assert.Zero(t, r)
	}
}

func TestEngineRun_SeedReproducible(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	first, err := engine.Run(1_000_000, 10, 0.3, 100, 42)
	require.NoError(t, err)
	second, err := engine.Run(1_000_000, 10, 0.3, 100, 42)
	require.NoError(t, err)

	assert.Equal(t, first.Terminal, second.Terminal)

	other, err := engine.Run(1_000_000, 10, 0.3, 100, 7)
	require.NoError(t, err)
	assert.NotEqual(t, first.Terminal, other.Terminal)
}

func TestEngineRun_ReturnsDerivation(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	result, err := engine.Run(500_000, 5, 0.2, 30, 1)
	require.NoError(t, err)

	for i, terminal := range result.Terminal {
		want := (terminal - 500_000) / 500_000
		assert.InDelta(t, want, result.Returns[i], 1e-12)
	}
}

func TestEngineRun_Validation(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	cases := []struct {
		name          string
		initialValue  float64
		horizonSteps  int
		climateFactor float64
		nSimulations  int
	}{
		{"zero initial value", 0, 10, 0.3, 100},
		{"negative initial value", -1, 10, 0.3, 100},
		{"zero horizon", 1000, 0, 0.3, 100},
		{"zero simulations", 1000, 10, 0.3, 0},
		{"climate factor negative", 1000, 10, -0.1, 100},
		{"climate factor above one", 1000, 10, 1.1, 100},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Run(tt.initialValue, tt.horizonSteps, tt.climateFactor, tt.nSimulations, 42)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
		})
	}
}
