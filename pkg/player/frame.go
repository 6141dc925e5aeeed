package player

import "github.com/rescuesim/rescue-engine/pkg/rescue"

// Frame is the data contract the scene renderer consumes. Rendering itself
// is a UI concern; the session only resolves positions, icons, and badge
// values.
type Frame struct {
	SessionID   string        `json:"session_id"`
	SceneIndex  int           `json:"scene_index"`
	SceneCount  int           `json:"scene_count"`
	SceneName   string        `json:"scene_name,omitempty"`
	Background  string        `json:"background,omitempty"` // blob store path
	Completed   bool          `json:"completed"`
	Ticks       int           `json:"ticks"`
	Elements    []Element     `json:"elements,omitempty"`
	Parameters  []Badge       `json:"parameters,omitempty"`
	FolderItems []FolderBadge `json:"folder_items,omitempty"`
}

// Element is a positioned trigger on the scene. Coordinates and size are
// percentages of the viewport.
type Element struct {
	TriggerID string          `json:"trigger_id"`
	Name      string          `json:"name"`
	Variant   rescue.ItemType `json:"variant"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	Icon      string          `json:"icon,omitempty"`
	Active    bool            `json:"active"`
}

// Badge is a parameter readout. Duration parameters display their authored
// clock value; numeric parameters display the live engine value.
type Badge struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// FolderBadge is one child of the active folder, rendered as a horizontally
// scrollable badge row.
type FolderBadge struct {
	ItemID    string          `json:"item_id"`
	TriggerID string          `json:"trigger_id"` // trigger that opened the folder
	Name      string          `json:"name"`
	Variant   rescue.ItemType `json:"variant"`
}

// Frame assembles the current render state.
func (s *Session) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := Frame{
		SessionID:  s.ID.String(),
		SceneIndex: s.sceneIndex,
		SceneCount: len(s.cfg.Stories),
		Completed:  s.completed,
		Ticks:      s.ticks,
	}
	if s.sceneIndex >= len(s.cfg.Stories) {
		return f
	}
	story := s.cfg.Stories[s.sceneIndex]
	f.SceneName = story.Name
	f.Background = story.Data.Scene.BackgroundImage

	for _, si := range story.Data.Scene.Items {
		item := s.cfg.Library.Resolve(si.TriggerID)
		if item == nil {
			// Dangling trigger references render nothing.
			continue
		}
		f.Elements = append(f.Elements, Element{
			TriggerID: item.ID,
			Name:      item.Name,
			Variant:   item.Variant(),
			X:         si.Position.X,
			Y:         si.Position.Y,
			Width:     si.Size.Width,
			Height:    si.Size.Height,
			Icon:      s.triggers.Icon(item),
			Active:    s.triggers.IsActive(item.ID),
		})
	}

	for _, def := range s.cfg.Rescue.Parameters {
		b := Badge{ID: def.ID, Label: def.Label}
		if def.Category == rescue.CategoryDuration {
			b.Value = def.Value.Float()
			b.Display = rescue.FormatClock(def.Value.Float())
		} else if v, ok := s.engine.Value(def.ID); ok {
			b.Value = v
			b.Display = trimFloat(v)
		}
		f.Parameters = append(f.Parameters, b)
	}

	if folderID, openedBy, ok := s.triggers.ActiveFolder(); ok {
		for _, child := range s.cfg.Library.Children(&folderID) {
			f.FolderItems = append(f.FolderItems, FolderBadge{
				ItemID:    child.ID,
				TriggerID: openedBy,
				Name:      child.Name,
				Variant:   child.Variant(),
			})
		}
	}
	return f
}
