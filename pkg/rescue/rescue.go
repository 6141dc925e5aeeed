package rescue

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Category describes how a parameter value is interpreted.
type Category string

const (
	CategoryNumber   Category = "number"
	CategoryDuration Category = "duration"
)

// DiscriminatorKind selects how a timer advances a parameter each tick.
type DiscriminatorKind string

const (
	// KindValue applies a constant delta; min and max hold the same value.
	KindValue DiscriminatorKind = "value"
	// KindRange applies a uniform-random delta drawn from [min, max].
	KindRange DiscriminatorKind = "range"
)

// TimerDiscriminator configures per-tick evolution of a parameter.
type TimerDiscriminator struct {
	Kind DiscriminatorKind `json:"kind"`
	Min  float64           `json:"min"`
	Max  float64           `json:"max"`
}

// Validate checks the discriminator invariants.
func (d *TimerDiscriminator) Validate() error {
	switch d.Kind {
	case KindValue:
		if d.Min != d.Max {
			return fmt.Errorf("value discriminator requires min == max, got min=%v max=%v", d.Min, d.Max)
		}
	case KindRange:
		if d.Min > d.Max {
			return fmt.Errorf("range discriminator requires min <= max, got min=%v max=%v", d.Min, d.Max)
		}
	default:
		return fmt.Errorf("unknown discriminator kind %q", d.Kind)
	}
	return nil
}

// Value is a parameter value as authored: a plain number, or an HH:mm:ss
// clock string for duration-category parameters.
type Value struct {
	Number float64
	Clock  string
	// clock reports whether the authored value was a clock string
	clock bool
}

// NumberValue returns a numeric Value.
func NumberValue(n float64) Value {
	return Value{Number: n}
}

// ClockValue returns a duration Value from an HH:mm:ss string.
func ClockValue(clock string) Value {
	v := Value{Clock: clock, clock: true}
	if m, err := ParseClock(clock); err == nil {
		v.Number = m
	}
	return v
}

// IsClock reports whether the value was authored as a clock string.
func (v Value) IsClock() bool { return v.clock }

// Float returns the value as a number. Clock values resolve to minutes.
func (v Value) Float() float64 { return v.Number }

// UnmarshalJSON accepts a JSON number, a numeric string, or an HH:mm:ss
// clock string. Authoring tools are inconsistent about quoting numbers,
// so all three forms appear in stored documents.
func (v *Value) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = Value{Number: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parameter value must be a number or string: %w", err)
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		*v = Value{Number: n}
		return nil
	}
	m, err := ParseClock(s)
	if err != nil {
		return fmt.Errorf("parameter value %q is neither numeric nor HH:mm:ss: %w", s, err)
	}
	*v = Value{Number: m, Clock: s, clock: true}
	return nil
}

// MarshalJSON writes clock values back as their original string form.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.clock {
		return json.Marshal(v.Clock)
	}
	return json.Marshal(v.Number)
}

// Parameter is a named scenario metric, e.g. blood pressure or a countdown.
type Parameter struct {
	ID       string              `json:"id"`
	Label    string              `json:"label"`
	Category Category            `json:"category"`
	Value    Value               `json:"value"`
	Timer    *TimerDiscriminator `json:"timer,omitempty"`
}

// RescueItem is the top-level definition of a rescue scenario.
type RescueItem struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	Parameters  []Parameter `json:"parameters,omitempty"`
}

// ParseClock converts an HH:mm:ss string to minutes. Seconds contribute
// fractionally.
func ParseClock(s string) (float64, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	if m < 0 || m > 59 || sec < 0 || sec > 59 || h < 0 {
		return 0, fmt.Errorf("invalid clock %q: components out of range", s)
	}
	return float64(h)*60 + float64(m) + float64(sec)/60, nil
}

// FormatClock renders minutes back as HH:mm:ss.
func FormatClock(minutes float64) string {
	if minutes < 0 {
		minutes = 0
	}
	total := int(minutes * 60)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
