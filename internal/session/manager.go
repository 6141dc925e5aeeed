package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rescuesim/rescue-engine/internal/events"
	"github.com/rescuesim/rescue-engine/internal/loader"
	"github.com/rescuesim/rescue-engine/pkg/player"
)

// Manager owns the registry of live player sessions. Sessions are
// ephemeral: they exist between Start and End (or completion plus End) and
// are never persisted.
type Manager struct {
	loader       *loader.Loader
	broadcaster  *events.Broadcaster // nil disables event publishing
	tickInterval time.Duration
	logger       *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*player.Session

	// Event publishing happens off the session lock: sinks enqueue here
	// and a forwarder goroutine pushes to Redis.
	eventCh chan player.Event
	done    chan struct{}
	once    sync.Once
}

// NewManager creates a session manager and starts its event forwarder.
func NewManager(l *loader.Loader, b *events.Broadcaster, tickInterval time.Duration, logger *slog.Logger) *Manager {
	m := &Manager{
		loader:       l,
		broadcaster:  b,
		tickInterval: tickInterval,
		logger:       logger,
		sessions:     make(map[uuid.UUID]*player.Session),
		eventCh:      make(chan player.Event, 256),
		done:         make(chan struct{}),
	}
	go m.forward()
	return m
}

func (m *Manager) forward() {
	for {
		select {
		case <-m.done:
			return
		case event := <-m.eventCh:
			if m.broadcaster == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			m.broadcaster.Publish(ctx, event)
			cancel()
		}
	}
}

// sink enqueues a session event without blocking the tick loop. Events are
// dropped when the buffer is full; delivery is best-effort.
func (m *Manager) sink(event player.Event) {
	select {
	case m.eventCh <- event:
	default:
		m.logger.Warn("session event buffer full, dropping event",
			"session_id", event.SessionID, "type", event.Type)
	}
}

// Start loads a scenario and begins a ticking session for it.
func (m *Manager) Start(ctx context.Context, rescueID string) (*player.Session, error) {
	bundle, err := m.loader.LoadScenario(ctx, rescueID)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	s := player.NewSession(player.Config{
		Rescue:       bundle.Rescue,
		Stories:      bundle.Stories,
		Library:      bundle.Library,
		TickInterval: m.tickInterval,
		Sink:         m.sink,
		Logger:       m.logger,
	})

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	s.Start()
	m.logger.Info("session started",
		"session_id", s.ID,
		"rescue_id", rescueID,
		"scenes", len(bundle.Stories))
	return s, nil
}

// Get returns a live session, or nil when unknown.
func (m *Manager) Get(id uuid.UUID) *player.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// End stops a session and removes it from the registry. Reports whether
// the session existed.
func (m *Manager) End(id uuid.UUID) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.Close()
	m.logger.Info("session ended", "session_id", id)
	return true
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close ends every session and stops the event forwarder.
func (m *Manager) Close() {
	m.mu.Lock()
	for id, s := range m.sessions {
		s.Close()
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	m.once.Do(func() { close(m.done) })
}
