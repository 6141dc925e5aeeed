package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rescuesim/rescue-engine/internal/events"
	"github.com/rescuesim/rescue-engine/internal/session"
)

const eventWriteTimeout = 5 * time.Second

// EventsHandler streams session events over a websocket.
// Route: GET /v1/sessions/{id}/events
type EventsHandler struct {
	manager     *session.Manager
	broadcaster *events.Broadcaster
	logger      *slog.Logger
	upgrader    websocket.Upgrader
}

func NewEventsHandler(manager *session.Manager, broadcaster *events.Broadcaster, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		manager:     manager,
		broadcaster: broadcaster,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Spectator clients run on trusted hosts; origin checks are a
			// deployment concern handled at the proxy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	idPart, action, _ := strings.Cut(rest, "/")
	if action != "events" || r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session id")
		return
	}
	if h.manager.Get(id) == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", "session_id", id, "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Drain client frames so close handshakes and pings are processed.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for event := range h.broadcaster.Subscribe(ctx, id) {
		_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Debug("Event stream closed", "session_id", id, "error", err)
			return
		}
	}
}
