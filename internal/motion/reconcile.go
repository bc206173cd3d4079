package motion

import "github.com/san-kum/motion/internal/spring"

// reconcile forces every plain key of target into st: exact value, zero
// velocity, in both the exposed and the ideal maps. Spring keys are left to the
// frame loop. The input maps are not modified; the bool reports whether a new
// state was produced.
func reconcile(target spring.Style, st State) (State, bool) {
	return pin(target, st, false)
}

// settle snaps spring keys that stopped within precision, but not exactly on
// their target, to the target with zero velocity.
func settle(target spring.Style, st State) (State, bool) {
	return pin(target, st, true)
}

func pin(target spring.Style, st State, springs bool) (State, bool) {
	dirty := false
	for k, t := range target {
		if t.IsSpring() != springs {
			continue
		}
		v := t.Value()
		if st.CurrentStyle[k] == v && st.CurrentVelocity[k] == 0 &&
			st.LastIdealStyle[k] == v && st.LastIdealVelocity[k] == 0 {
			continue
		}
		if !dirty {
			dirty = true
			st = st.Clone()
		}
		st.CurrentStyle[k] = v
		st.CurrentVelocity[k] = 0
		st.LastIdealStyle[k] = v
		st.LastIdealVelocity[k] = 0
	}
	return st, dirty
}
