package spring

import "math"

// StepSeconds is the fixed integration step. Callers catch up with wall-clock
// time by running more steps, never by stretching one.
const StepSeconds = 1.0 / 60

// Step advances position x and velocity v by dt seconds toward target using
// semi-implicit Euler on a unit mass. When both the new velocity and the
// remaining distance are within precision the result snaps to (target, 0).
func Step(dt, x, v, target, stiffness, damping, precision float64) (float64, float64) {
	springForce := -stiffness * (x - target)
	dampingForce := -damping * v
	acc := springForce + dampingForce

	newV := v + acc*dt
	newX := x + newV*dt

	if math.Abs(newV) <= precision && math.Abs(newX-target) <= precision {
		return target, 0
	}
	return newX, newV
}

// StepConfig is Step with the spring parameters taken from cfg.
func StepConfig(dt, x, v, target float64, cfg Config) (float64, float64) {
	return Step(dt, x, v, target, cfg.Stiffness, cfg.Damping, cfg.Precision)
}
