package rescue

import "sort"

// ItemType discriminates the library item variants.
type ItemType string

const (
	TypeFolder          ItemType = "folder"
	TypeTest            ItemType = "test"
	TypeQuestion        ItemType = "question"
	TypeMedicine        ItemType = "medicine"
	TypeTrigger         ItemType = "trigger"
	TypeParamsState     ItemType = "params-state"
	TypeFolderContainer ItemType = "folder-container"
	TypeUnknown         ItemType = "unknown"
)

// Known reports whether t is one of the defined variants. Unrecognized
// type tags from older documents normalize to TypeUnknown.
func (t ItemType) Known() bool {
	switch t {
	case TypeFolder, TypeTest, TypeQuestion, TypeMedicine,
		TypeTrigger, TypeParamsState, TypeFolderContainer, TypeUnknown:
		return true
	}
	return false
}

// ButtonType selects trigger press behavior.
type ButtonType string

const (
	ButtonPress  ButtonType = "button" // one-shot, no persisted state
	ButtonToggle ButtonType = "toggle" // flips a per-trigger boolean
)

// TriggerData is the trigger-variant payload.
type TriggerData struct {
	ButtonType   ButtonType `json:"buttonType"`
	LinkedItemID string     `json:"rescueLibraryItemId,omitempty"` // usually a folder
	OnSVG        string     `json:"onSvg,omitempty"`
	OffSVG       string     `json:"offSvg,omitempty"`
}

// LibraryItem is one node of the rescue content library tree. ParentID nil
// means the node sits at the root.
type LibraryItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	ParentID    *string      `json:"parent_id,omitempty"`
	Order       int          `json:"order"`
	Description string       `json:"description,omitempty"`
	Type        ItemType     `json:"type"`
	Trigger     *TriggerData `json:"data,omitempty"` // set for trigger variant only
}

// Variant returns the item type, normalizing unrecognized tags to unknown.
func (li *LibraryItem) Variant() ItemType {
	if !li.Type.Known() || li.Type == "" {
		return TypeUnknown
	}
	return li.Type
}

// Library indexes library items by id for trigger and folder resolution.
type Library map[string]*LibraryItem

// NewLibrary builds an index from a flat item list.
func NewLibrary(items []LibraryItem) Library {
	lib := make(Library, len(items))
	for i := range items {
		lib[items[i].ID] = &items[i]
	}
	return lib
}

// Resolve returns the item for id, or nil when the reference dangles.
func (l Library) Resolve(id string) *LibraryItem {
	if id == "" {
		return nil
	}
	return l[id]
}

// Children returns the direct children of parentID sorted by order. A nil
// parentID selects root items.
func (l Library) Children(parentID *string) []*LibraryItem {
	var out []*LibraryItem
	for _, item := range l {
		if parentID == nil {
			if item.ParentID == nil {
				out = append(out, item)
			}
		} else if item.ParentID != nil && *item.ParentID == *parentID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CycleHook is notified when Depth detects a parent cycle, so authoring
// tooling can surface the bad data. May be nil.
type CycleHook func(id string)

// Depth returns how many ancestors separate id from the root. Malformed
// data can contain parent cycles; those resolve to depth 0 rather than
// recursing forever, and the hook fires once for the offending node.
func (l Library) Depth(id string, hook CycleHook) int {
	depth := 0
	visited := map[string]bool{}
	for cur := l.Resolve(id); cur != nil && cur.ParentID != nil; cur = l.Resolve(*cur.ParentID) {
		if visited[cur.ID] {
			if hook != nil {
				hook(id)
			}
			return 0
		}
		visited[cur.ID] = true
		depth++
	}
	return depth
}
