// Package motion drives a style toward its target one frame at a time.
//
// A [Driver] owns the animated state of a fixed set of keys. Each frame
// callback from its [Scheduler] accumulates elapsed time, integrates whole
// [FixedTick] steps with [spring.Step] to catch up, and exposes a value
// interpolated between the last whole step and the next one, so motion is
// smooth regardless of the host's refresh cadence.
//
// Plain (non-spring) targets are applied synchronously by the reconciler and
// never wait for a frame.
//
// # Example
//
//	sched := frame.NewVirtual()
//	d, err := motion.New(sched, spring.Style{"x": spring.To(100)},
//	    motion.WithDefaultStyle(spring.PlainStyle{"x": 0}),
//	    motion.WithOnFrame(func(s spring.PlainStyle) { render(s["x"]) }),
//	    motion.WithOnRest(func() { fmt.Println("done") }),
//	)
//	for d.Scheduled() {
//	    sched.Advance(motion.FixedTick)
//	}
//
// # Thread Safety
//
// A Driver is NOT safe for concurrent use. Target updates and frame callbacks
// must be serialized per driver, for example by calling SetTarget through
// [frame.Loop.Do] when the driver is scheduled on a [frame.Loop].
package motion
