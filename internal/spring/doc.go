// Package spring provides the numeric core of spring-driven animation.
//
// The package is free of state and I/O:
//
//   - [Step]: one fixed-size step of a unit-mass damped oscillator
//   - [ShouldStop]: convergence check for a whole style
//   - [Target]: per-key destination, either a plain value or a spring
//   - [Config]: stiffness/damping/precision triple, with [NoWobble], [Gentle],
//     [Wobbly] and [Stiff] presets
//
// # Example
//
//	target := spring.Style{
//	    "x": spring.To(100, spring.NoWobble),
//	    "opacity": spring.Plain(1),
//	}
//	x, v := 0.0, 0.0
//	for !(x == 100 && v == 0) {
//	    x, v = spring.Step(spring.StepSeconds, x, v, 100, 170, 26, 0.01)
//	}
package spring
