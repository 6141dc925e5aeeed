package player

import "github.com/google/uuid"

// EventType identifies session events published to subscribers.
type EventType string

const (
	EventTick         EventType = "session.tick"
	EventSceneChanged EventType = "session.scene_changed"
	EventCompleted    EventType = "session.completed"
	EventFolderOpened EventType = "session.folder_opened"
	EventFolderClosed EventType = "session.folder_closed"
)

// Event is a session state-change notification.
type Event struct {
	Type       EventType          `json:"type"`
	SessionID  uuid.UUID          `json:"session_id"`
	SceneIndex int                `json:"scene_index"`
	FolderID   string             `json:"folder_id,omitempty"`
	Values     map[string]float64 `json:"values,omitempty"`
}

// Sink receives session events. Sinks are invoked synchronously with the
// session lock held, so they must not call back into the session.
type Sink func(Event)
