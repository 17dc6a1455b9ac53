package events

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_EmitDeliversToSubscribers(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var received []*Event
	bus.Subscribe(func(e *Event) {
		received = append(received, e)
	})

	bus.Emit(ReportStarted, "report", map[string]interface{}{"assets": 3})

	require.Len(t, received, 1)
	assert.Equal(t, ReportStarted, received[0].Type)
	assert.Equal(t, "report", received[0].Module)
	assert.Equal(t, 3, received[0].Data["assets"])
	assert.False(t, received[0].Timestamp.IsZero())
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	first, second := 0, 0
	bus.Subscribe(func(e *Event) { first++ })
	bus.Subscribe(func(e *Event) { second++ })

	assert.Equal(t, 2, bus.SubscriberCount())

	bus.Emit(PortfolioChanged, "portfolio", nil)
	bus.Emit(ReportCompleted, "report", nil)

	assert.Equal(t, 2, first)
	assert.Equal(t, 2, second)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	count := 0
	unsubscribe := bus.Subscribe(func(e *Event) { count++ })

	bus.Emit(ReportStarted, "report", nil)
	unsubscribe()
	bus.Emit(ReportCompleted, "report", nil)

	assert.Equal(t, 1, count)
	assert.Zero(t, bus.SubscriberCount())
}

func TestBus_EmitWithoutSubscribers(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	// Must not panic.
	bus.Emit(SimulationCompleted, "simulation", nil)
}
