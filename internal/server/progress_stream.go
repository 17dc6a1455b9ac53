package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"

	"github.com/aristath/climrisk/internal/events"
)

// ProgressStreamHandler streams bus events to WebSocket clients. Clients
// connect to GET /ws/progress and receive one JSON-encoded event per message.
type ProgressStreamHandler struct {
	bus *events.Bus
	log zerolog.Logger
}

// NewProgressStreamHandler creates a progress stream handler. bus may be nil,
// in which case connections are closed immediately.
func NewProgressStreamHandler(bus *events.Bus, log zerolog.Logger) *ProgressStreamHandler {
	return &ProgressStreamHandler{
		bus: bus,
		log: log.With().Str("component", "progress_stream").Logger(),
	}
}

// ServeHTTP handles GET /ws/progress
func (h *ProgressStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.bus == nil {
		http.Error(w, "Event streaming disabled", http.StatusServiceUnavailable)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	h.log.Info().Str("remote", r.RemoteAddr).Msg("Client connected to progress stream")

	// Buffer events so a slow client never blocks the bus; overflow drops.
	eventChan := make(chan *events.Event, 100)
	unsubscribe := h.bus.Subscribe(func(event *events.Event) {
		select {
		case eventChan <- event:
		default:
			h.log.Warn().
				Str("event_type", string(event.Type)).
				Msg("Event channel full, dropping event")
		}
	})
	defer unsubscribe()

	ctx := r.Context()
	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return

		case <-pingTicker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				h.log.Debug().Err(err).Msg("Progress stream ping failed, closing")
				return
			}

		case event := <-eventChan:
			data, err := json.Marshal(event)
			if err != nil {
				h.log.Error().Err(err).Msg("Failed to encode event")
				continue
			}

			writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err = conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				closeStatus := websocket.CloseStatus(err)
				if closeStatus != websocket.StatusNormalClosure && closeStatus != websocket.StatusGoingAway {
					h.log.Debug().Err(err).Msg("Progress stream write failed")
				}
				return
			}
		}
	}
}
