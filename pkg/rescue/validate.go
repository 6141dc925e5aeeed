package rescue

import "fmt"

// ValidationError collects author-facing problems with scenario content.
// The player tolerates all of these at runtime by skipping the affected
// rule; the validator exists so authors can fix them upstream.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return fmt.Sprintf("%d validation errors, first: %s", len(e.Errors), e.Errors[0])
}

func (e *ValidationError) add(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// ValidateScenario checks a rescue item, its stories, and the library items
// its scenes reference. Returns nil when the content is clean.
func ValidateScenario(item *RescueItem, stories []Story, lib Library) error {
	v := &ValidationError{}

	params := make(map[string]bool, len(item.Parameters))
	for _, p := range item.Parameters {
		if p.ID == "" {
			v.add("rescue %s: parameter with empty id", item.ID)
			continue
		}
		if params[p.ID] {
			v.add("rescue %s: duplicate parameter id %q", item.ID, p.ID)
		}
		params[p.ID] = true
		if p.Timer != nil {
			if err := p.Timer.Validate(); err != nil {
				v.add("parameter %q: %v", p.ID, err)
			}
		}
		if p.Category != CategoryNumber && p.Category != CategoryDuration {
			v.add("parameter %q: unknown category %q", p.ID, p.Category)
		}
	}

	orders := make(map[int]string, len(stories))
	for _, s := range stories {
		if s.RescueID != item.ID {
			v.add("story %s: rescue_id %q does not match rescue %q", s.ID, s.RescueID, item.ID)
		}
		if prev, dup := orders[s.Order]; dup {
			v.add("story %s: order %d already used by story %s", s.ID, s.Order, prev)
		}
		orders[s.Order] = s.ID
		validateScene(v, s, params, lib)
	}

	for _, li := range lib {
		if li.Variant() == TypeUnknown && li.Type != TypeUnknown {
			v.add("library item %s: unrecognized type %q", li.ID, li.Type)
		}
		if li.Variant() == TypeTrigger && li.Trigger == nil {
			v.add("library item %s: trigger variant without trigger data", li.ID)
		}
		if li.Trigger != nil && li.Trigger.LinkedItemID != "" && lib.Resolve(li.Trigger.LinkedItemID) == nil {
			v.add("library item %s: links to missing item %q", li.ID, li.Trigger.LinkedItemID)
		}
		id := li.ID
		lib.Depth(id, func(string) {
			v.add("library item %s: parent chain contains a cycle", id)
		})
	}

	if len(v.Errors) > 0 {
		return v
	}
	return nil
}

func validateScene(v *ValidationError, s Story, params map[string]bool, lib Library) {
	for _, item := range s.Data.Scene.Items {
		if lib.Resolve(item.TriggerID) == nil {
			v.add("story %s: scene item references missing trigger %q", s.ID, item.TriggerID)
		}
		if out(item.Position.X) || out(item.Position.Y) || out(item.Size.Width) || out(item.Size.Height) {
			v.add("story %s: scene item %q placed outside 0-100%%", s.ID, item.TriggerID)
		}
	}
	for i, r := range s.Data.Scene.Restritions {
		if len(r.Params) == 0 {
			v.add("story %s: restriction %d has no parameters", s.ID, i)
		}
		for _, th := range r.Params {
			if !params[th.ID] {
				v.add("story %s: restriction %d references unknown parameter %q", s.ID, i, th.ID)
			}
		}
	}
}

func out(pct float64) bool { return pct < 0 || pct > 100 }
