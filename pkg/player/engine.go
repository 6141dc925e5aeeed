package player

import (
	"math/rand"

	"github.com/rescuesim/rescue-engine/pkg/rescue"
)

// RNG supplies the uniform randomness used by range-kind timers. Tests
// substitute a deterministic source.
type RNG interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

type stdRNG struct{}

func (stdRNG) Float64() float64 { return rand.Float64() }

// ParameterEngine holds the live numeric value of every parameter and
// advances them once per tick according to their timer discriminators.
// Duration-category parameters are display-only countdowns and are neither
// seeded nor advanced.
type ParameterEngine struct {
	defs     []rescue.Parameter
	values   map[string]float64
	snapshot map[string]float64
	rng      RNG
}

// NewParameterEngine seeds live values from the numeric parameter
// definitions. A nil rng falls back to math/rand.
func NewParameterEngine(defs []rescue.Parameter, rng RNG) *ParameterEngine {
	if rng == nil {
		rng = stdRNG{}
	}
	e := &ParameterEngine{
		defs:     defs,
		values:   make(map[string]float64, len(defs)),
		snapshot: make(map[string]float64, len(defs)),
		rng:      rng,
	}
	for _, def := range defs {
		if def.Category == rescue.CategoryDuration {
			continue
		}
		e.values[def.ID] = def.Value.Float()
	}
	e.TakeSnapshot()
	return e
}

// Seeded reports whether any live values exist. Restriction evaluation is
// skipped until seeding has happened, so a scene cannot transition off
// zero-valued defaults during mount.
func (e *ParameterEngine) Seeded() bool { return len(e.values) > 0 }

// Tick advances every timed parameter by its discriminator delta. Values
// are unbounded in both directions.
func (e *ParameterEngine) Tick() {
	for _, def := range e.defs {
		if def.Timer == nil {
			continue
		}
		cur, ok := e.values[def.ID]
		if !ok {
			continue
		}
		switch def.Timer.Kind {
		case rescue.KindValue:
			// min == max by invariant; min carries the constant
			e.values[def.ID] = cur + def.Timer.Min
		case rescue.KindRange:
			span := def.Timer.Max - def.Timer.Min
			e.values[def.ID] = cur + def.Timer.Min + e.rng.Float64()*span
		}
	}
}

// Value returns the live value for a parameter id.
func (e *ParameterEngine) Value(id string) (float64, bool) {
	v, ok := e.values[id]
	return v, ok
}

// Set writes a value directly, bypassing the timer. Used by folder-child
// selection overrides. Unknown ids are created so restrictions keyed on
// them can still fire.
func (e *ParameterEngine) Set(id string, v float64) {
	if _, ok := e.snapshot[id]; !ok {
		e.snapshot[id] = 0
	}
	e.values[id] = v
}

// TakeSnapshot records the current values as the scene-start baseline for
// delta-based restriction checks.
func (e *ParameterEngine) TakeSnapshot() {
	for id, v := range e.values {
		e.snapshot[id] = v
	}
}

// Delta returns the signed movement of a parameter since the scene started.
func (e *ParameterEngine) Delta(id string) (float64, bool) {
	cur, ok := e.values[id]
	if !ok {
		return 0, false
	}
	start, ok := e.snapshot[id]
	if !ok {
		return 0, false
	}
	return cur - start, true
}

// Values returns a copy of the live value map.
func (e *ParameterEngine) Values() map[string]float64 {
	out := make(map[string]float64, len(e.values))
	for id, v := range e.values {
		out[id] = v
	}
	return out
}
