package player

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rescuesim/rescue-engine/pkg/rescue"
)

// DefaultTickInterval is the fixed parameter-tick period.
const DefaultTickInterval = time.Second

// Config assembles everything a session needs at start. The scenario data
// is read-only to the session; all mutable state is private and discarded
// when the session ends.
type Config struct {
	Rescue       *rescue.RescueItem
	Stories      []rescue.Story // must already be ordered
	Library      rescue.Library
	TickInterval time.Duration
	RNG          RNG
	Sink         Sink
	Logger       *slog.Logger
}

// Session is one live playthrough of a rescue scenario. All mutation is
// serialized behind the session mutex: the tick goroutine and API callers
// both take it.
type Session struct {
	ID        uuid.UUID
	StartedAt time.Time

	cfg      Config
	engine   *ParameterEngine
	triggers *TriggerState

	mu         sync.Mutex
	sceneIndex int
	ticks      int
	completed  bool

	done      chan struct{}
	closeOnce sync.Once
}

// NewSession seeds a session from scenario data. The tick loop does not run
// until Start is called.
func NewSession(cfg Config) *Session {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	s := &Session{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		cfg:       cfg,
		engine:    NewParameterEngine(cfg.Rescue.Parameters, cfg.RNG),
		triggers:  NewTriggerState(cfg.Library),
		done:      make(chan struct{}),
	}
	return s
}

// Start launches the tick goroutine. The ticker is owned by the session
// and torn down on Close or completion, whichever comes first.
func (s *Session) Start() {
	go func() {
		ticker := time.NewTicker(s.cfg.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	}()
}

// Tick advances parameters by one step and evaluates the current scene's
// restrictions. Exported so tests and deterministic drivers can step the
// session without the wall-clock ticker.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return
	}
	s.ticks++
	s.engine.Tick()
	s.emit(EventTick)
	s.evaluate()
}

// evaluate must be called with the lock held.
func (s *Session) evaluate() {
	if s.completed || s.sceneIndex >= len(s.cfg.Stories) {
		return
	}
	scene := s.cfg.Stories[s.sceneIndex].Data.Scene
	if !sceneSatisfied(scene.Restritions, s.engine) {
		return
	}
	s.transition()
}

// transition must be called with the lock held.
func (s *Session) transition() {
	if s.sceneIndex+1 < len(s.cfg.Stories) {
		s.sceneIndex++
		s.engine.TakeSnapshot()
		s.triggers.Reset()
		s.cfg.Logger.Debug("scene advanced", "session_id", s.ID, "scene_index", s.sceneIndex)
		s.emit(EventSceneChanged)
		return
	}
	// Terminal: completion signals exactly once, then the ticker stops.
	s.completed = true
	s.cfg.Logger.Info("scenario completed", "session_id", s.ID, "ticks", s.ticks)
	s.emit(EventCompleted)
	s.closeLocked()
}

// Press handles a trigger press from the UI layer.
func (s *Session) Press(triggerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return
	}
	_, _, hadFolder := s.triggers.ActiveFolder()
	s.triggers.Press(triggerID)
	folderID, _, hasFolder := s.triggers.ActiveFolder()
	if hasFolder && !hadFolder {
		s.emitFolder(EventFolderOpened, folderID)
	} else if hadFolder && !hasFolder {
		s.emitFolder(EventFolderClosed, "")
	}
}

// SelectFolderChild applies the parameter override an author attached to
// the pressed folder child, then re-evaluates the scene. The override list
// lives on the scene item of the trigger that opened the folder.
func (s *Session) SelectFolderChild(itemID, triggerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || s.sceneIndex >= len(s.cfg.Stories) {
		return
	}
	scene := s.cfg.Stories[s.sceneIndex].Data.Scene
	for _, si := range scene.Items {
		if si.TriggerID != triggerID {
			continue
		}
		for _, p := range si.Parameters {
			if p.ID != itemID || p.Value.IsClock() {
				continue
			}
			s.engine.Set(p.ID, p.Value.Float())
			s.evaluate()
			return
		}
	}
}

// Rescue returns the read-only scenario definition the session plays.
func (s *Session) Rescue() *rescue.RescueItem {
	return s.cfg.Rescue
}

// Completed reports whether the scenario reached its terminal state.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// SceneIndex returns the current scene position.
func (s *Session) SceneIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sceneIndex
}

// Ticks returns how many parameter ticks have run.
func (s *Session) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Values returns a copy of the live parameter values.
func (s *Session) Values() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Values()
}

// Close stops the tick loop. Safe to call more than once and from any
// exit path, including completion and back navigation.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Session) emit(t EventType) {
	if s.cfg.Sink == nil {
		return
	}
	s.cfg.Sink(Event{
		Type:       t,
		SessionID:  s.ID,
		SceneIndex: s.sceneIndex,
		Values:     s.engine.Values(),
	})
}

func (s *Session) emitFolder(t EventType, folderID string) {
	if s.cfg.Sink == nil {
		return
	}
	s.cfg.Sink(Event{
		Type:       t,
		SessionID:  s.ID,
		SceneIndex: s.sceneIndex,
		FolderID:   folderID,
	})
}
