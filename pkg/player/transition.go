package player

import (
	"math"

	"github.com/rescuesim/rescue-engine/pkg/rescue"
)

// sceneSatisfied checks a scene's restrictions against the engine's deltas.
// Restrictions are OR'd, and so are the thresholds inside each restriction:
// the first parameter whose absolute movement since scene start meets its
// threshold qualifies the whole scene for transition. Thresholds that
// reference unknown parameters are skipped, matching the engine's tolerant
// handling of malformed content.
func sceneSatisfied(restritions []rescue.Restriction, engine *ParameterEngine) bool {
	if !engine.Seeded() {
		return false
	}
	for _, r := range restritions {
		for _, th := range r.Params {
			delta, ok := engine.Delta(th.ID)
			if !ok {
				continue
			}
			if math.Abs(delta) >= th.Value {
				return true
			}
		}
	}
	return false
}
