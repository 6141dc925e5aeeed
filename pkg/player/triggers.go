package player

import "github.com/rescuesim/rescue-engine/pkg/rescue"

// TriggerState tracks per-trigger toggle booleans and the single active
// folder reveal. All state here is scoped to the current scene and cleared
// on every transition.
type TriggerState struct {
	lib      rescue.Library
	active   map[string]bool
	folderID string // active folder, "" when none
	openedBy string // trigger that opened the active folder
}

// NewTriggerState builds empty trigger state over the scenario library.
func NewTriggerState(lib rescue.Library) *TriggerState {
	return &TriggerState{
		lib:    lib,
		active: make(map[string]bool),
	}
}

// Press handles a trigger press. Presses on ids that do not resolve to a
// trigger-variant library item are ignored.
func (ts *TriggerState) Press(triggerID string) {
	item := ts.lib.Resolve(triggerID)
	if item == nil || item.Variant() != rescue.TypeTrigger || item.Trigger == nil {
		return
	}

	linked := ts.lib.Resolve(item.Trigger.LinkedItemID)

	switch item.Trigger.ButtonType {
	case rescue.ButtonToggle:
		ts.active[triggerID] = !ts.active[triggerID]
		if !ts.active[triggerID] {
			// Closing the toggle that opened the active folder hides it.
			if linked != nil && linked.ID == ts.folderID {
				ts.folderID = ""
				ts.openedBy = ""
			}
			return
		}
		if linked != nil && linked.Variant() == rescue.TypeFolder {
			ts.folderID = linked.ID
			ts.openedBy = triggerID
		}
	case rescue.ButtonPress:
		// One-shot: no persisted state, but a folder link opens immediately.
		if linked != nil && linked.Variant() == rescue.TypeFolder {
			ts.folderID = linked.ID
			ts.openedBy = triggerID
		}
	}
}

// IsActive reports the toggle state for a trigger id.
func (ts *TriggerState) IsActive(triggerID string) bool {
	return ts.active[triggerID]
}

// ActiveFolder returns the revealed folder id and the trigger that opened
// it. ok is false when no folder is active.
func (ts *TriggerState) ActiveFolder() (folderID, openedBy string, ok bool) {
	if ts.folderID == "" {
		return "", "", false
	}
	return ts.folderID, ts.openedBy, true
}

// Icon resolves the SVG markup to render for a trigger item.
// Toggle: on-icon while active, off-icon otherwise.
// Button: on-icon when present, off-icon as fallback.
func (ts *TriggerState) Icon(item *rescue.LibraryItem) string {
	if item == nil || item.Trigger == nil {
		return ""
	}
	switch item.Trigger.ButtonType {
	case rescue.ButtonToggle:
		if ts.active[item.ID] {
			return item.Trigger.OnSVG
		}
		return item.Trigger.OffSVG
	default:
		if item.Trigger.OnSVG != "" {
			return item.Trigger.OnSVG
		}
		return item.Trigger.OffSVG
	}
}

// Reset clears all toggle state and the active folder. Called on every
// scene transition.
func (ts *TriggerState) Reset() {
	ts.active = make(map[string]bool)
	ts.folderID = ""
	ts.openedBy = ""
}
