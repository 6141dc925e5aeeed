package rescue

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Story is one ordered scene record of a rescue scenario.
type Story struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Order    int       `json:"order"`
	RescueID string    `json:"rescue_id"`
	Data     StoryData `json:"data"`
}

// StoryData carries the scene payload plus its minute-offset window.
type StoryData struct {
	StartAt string    `json:"startAt,omitempty"` // minute offset, authored as string
	EndAt   string    `json:"endAt,omitempty"`
	Scene   SceneData `json:"scene"`
}

// SceneData is everything the player renders and evaluates for one scene.
type SceneData struct {
	BackgroundImage string      `json:"backgroundImage,omitempty"` // blob store path
	Items           []SceneItem `json:"items,omitempty"`
	// The field name keeps the misspelling used by the stored documents.
	Restritions []Restriction `json:"restritions,omitempty"`
}

// SceneItem places a trigger on the scene. Position and size are percentages
// of the viewport (0-100).
type SceneItem struct {
	TriggerID  string      `json:"triggerId"`
	Position   Point       `json:"position"`
	Size       Dimensions  `json:"size"`
	Parameters []Parameter `json:"parameters,omitempty"` // per-item overrides for folder children
}

// Point is a percent-based scene coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dimensions is a percent-based element size.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Restriction is a scene exit rule. Any one of its thresholds qualifying
// triggers the transition.
type Restriction struct {
	Params []Threshold `json:"params"`
}

// Threshold pairs a parameter id with the absolute delta, measured from the
// scene-start snapshot, at which the scene advances.
type Threshold struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
}

// UnmarshalJSON accepts the threshold value as a number or a numeric string.
func (t *Threshold) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    string          `json:"id"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.ID = raw.ID
	if len(raw.Value) == 0 {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw.Value, &n); err == nil {
		t.Value = n
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.Value, &s); err != nil {
		return fmt.Errorf("threshold value must be a number or numeric string")
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("threshold value %q is not numeric: %w", s, err)
	}
	t.Value = n
	return nil
}

// SortStories orders stories in place by their order field, which defines
// the scene sequence the player walks.
func SortStories(stories []Story) {
	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].Order < stories[j].Order
	})
}
