package spring

import "math"

// ShouldStop reports whether every key of target has converged. Plain keys
// must match exactly; spring keys must be within precision in both position
// and velocity.
func ShouldStop(current PlainStyle, target Style, velocity Velocity) bool {
	for k, t := range target {
		if !t.IsSpring() {
			if current[k] != t.val {
				return false
			}
			continue
		}
		if math.Abs(velocity[k]) > t.cfg.Precision {
			return false
		}
		if math.Abs(current[k]-t.val) > t.cfg.Precision {
			return false
		}
	}
	return true
}
