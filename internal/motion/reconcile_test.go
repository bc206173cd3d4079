package motion

import (
	"reflect"
	"testing"

	"github.com/san-kum/motion/internal/spring"
)

func testState(x, v float64) State {
	return State{
		CurrentStyle:      spring.PlainStyle{"x": x, "y": x},
		CurrentVelocity:   spring.Velocity{"x": v, "y": v},
		LastIdealStyle:    spring.PlainStyle{"x": x, "y": x},
		LastIdealVelocity: spring.Velocity{"x": v, "y": v},
	}
}

func TestReconcilePlainKeysOnly(t *testing.T) {
	in := testState(1, 2)
	out, changed := reconcile(spring.Style{"x": spring.Plain(9), "y": spring.To(9)}, in)

	if !changed {
		t.Fatal("expected change")
	}
	want := State{
		CurrentStyle:      spring.PlainStyle{"x": 9, "y": 1},
		CurrentVelocity:   spring.Velocity{"x": 0, "y": 2},
		LastIdealStyle:    spring.PlainStyle{"x": 9, "y": 1},
		LastIdealVelocity: spring.Velocity{"x": 0, "y": 2},
	}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("reconcile() = %+v, want %+v", out, want)
	}
	if !reflect.DeepEqual(in, testState(1, 2)) {
		t.Errorf("input state was modified: %+v", in)
	}
}

func TestReconcileNoChange(t *testing.T) {
	in := testState(4, 0)
	out, changed := reconcile(spring.Style{"x": spring.Plain(4), "y": spring.To(100)}, in)
	if changed {
		t.Error("expected no change")
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("state differs: %+v", out)
	}
}

func TestReconcileForcesStaleVelocity(t *testing.T) {
	in := testState(4, 3)
	out, changed := reconcile(spring.Style{"x": spring.Plain(4), "y": spring.To(0)}, in)
	if !changed {
		t.Fatal("expected change for non-zero velocity")
	}
	if out.CurrentVelocity["x"] != 0 || out.LastIdealVelocity["x"] != 0 {
		t.Errorf("velocity not cleared: %+v", out)
	}
}

func TestSettleSpringKeysOnly(t *testing.T) {
	in := testState(99.995, 0.004)
	out, changed := settle(spring.Style{"x": spring.To(100), "y": spring.Plain(50)}, in)
	if !changed {
		t.Fatal("expected change")
	}
	if out.CurrentStyle["x"] != 100 || out.CurrentVelocity["x"] != 0 {
		t.Errorf("spring key not settled: %+v", out)
	}
	if out.CurrentStyle["y"] != 99.995 {
		t.Errorf("plain key touched: %+v", out)
	}
}
