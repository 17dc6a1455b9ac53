// Package events provides the in-process publish/subscribe bus used to push
// progress updates to connected clients.
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType identifies an event on the bus
type EventType string

const (
	// PortfolioChanged fires when assets are added or replaced
	PortfolioChanged EventType = "portfolio_changed"
	// ReportStarted fires when a risk report build begins
	ReportStarted EventType = "report_started"
	// ReportCompleted fires when a risk report build finishes
	ReportCompleted EventType = "report_completed"
	// ReportFailed fires when a risk report build errors out
	ReportFailed EventType = "report_failed"
	// ReportArchived fires when a report has been uploaded to the archive
	ReportArchived EventType = "report_archived"
	// SimulationCompleted fires when a standalone Monte Carlo run finishes
	SimulationCompleted EventType = "simulation_completed"
)

// Event is a single bus message. Data carries event-specific payload fields
// and is serialized as-is to stream clients.
type Event struct {
	Type      EventType              `json:"type"`
	Module    string                 `json:"module"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Handler receives published events. Handlers must not block; slow consumers
// should buffer internally and drop on overflow.
type Handler func(*Event)

// Bus is a simple fan-out event bus. Safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
	log      zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[int]Handler),
		log:      log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers a handler for all events and returns an unsubscribe
// function.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// Emit publishes an event to all subscribers. Delivery is synchronous in
// registration order; handlers are expected to return quickly.
func (b *Bus) Emit(eventType EventType, module string, data map[string]interface{}) {
	event := &Event{
		Type:      eventType,
		Module:    module,
		Timestamp: time.Now(),
		Data:      data,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, h := range b.handlers {
		h(event)
	}

	b.log.Debug().
		Str("event_type", string(eventType)).
		Str("module", module).
		Int("subscribers", len(b.handlers)).
		Msg("Event emitted")
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
