package motion_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/motion/internal/frame"
	"github.com/san-kum/motion/internal/motion"
	"github.com/san-kum/motion/internal/spring"
)

const frameStep = 16670 * time.Microsecond

// manualScheduler hands callbacks to the test and ignores cancellation, so a
// callback can be fired after the driver has cancelled it.
type manualScheduler struct {
	now       time.Duration
	callbacks []frame.Callback
	cancelled []frame.ID
}

func (m *manualScheduler) Now() time.Duration { return m.now }

func (m *manualScheduler) RequestFrame(cb frame.Callback) frame.ID {
	m.callbacks = append(m.callbacks, cb)
	return frame.ID(len(m.callbacks))
}

func (m *manualScheduler) CancelFrame(id frame.ID) { m.cancelled = append(m.cancelled, id) }

type countingMetrics struct {
	frames, steps, stalls, rests int
}

func (c *countingMetrics) FrameCommitted(steps int, _ float64) { c.frames++; c.steps += steps }
func (c *countingMetrics) StallReset()                         { c.stalls++ }
func (c *countingMetrics) Rested()                             { c.rests++ }

func runUntilIdle(sched *frame.Virtual, d *motion.Driver, step time.Duration, limit int) int {
	n := 0
	for d.Scheduled() && n < limit {
		sched.Advance(step)
		n++
	}
	return n
}

var _ = Describe("Driver", func() {
	var (
		sched  *frame.Virtual
		frames []spring.PlainStyle
		rests  int
	)

	BeforeEach(func() {
		sched = frame.NewVirtual()
		frames = nil
		rests = 0
	})

	observe := func(opts ...motion.Option) []motion.Option {
		return append(opts,
			motion.WithOnFrame(func(s spring.PlainStyle) { frames = append(frames, s) }),
			motion.WithOnRest(func() { rests++ }),
		)
	}

	Describe("creation", func() {
		It("starts from the stripped target and stays idle", func() {
			d, err := motion.New(sched, spring.Style{"x": spring.To(10), "y": spring.Plain(3)}, observe()...)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Style()).To(Equal(spring.PlainStyle{"x": 10, "y": 3}))
			Expect(d.State().CurrentVelocity).To(Equal(spring.Velocity{"x": 0, "y": 0}))
			Expect(d.Scheduled()).To(BeFalse())
			Expect(sched.Len()).To(Equal(0))
		})

		It("starts animating from a default style", func() {
			d, err := motion.New(sched, spring.Style{"x": spring.To(10)},
				motion.WithDefaultStyle(spring.PlainStyle{"x": 0}))
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Scheduled()).To(BeTrue())
			Expect(d.Style()["x"]).To(Equal(0.0))
		})

		It("applies plain keys of the target over the default style", func() {
			d, err := motion.New(sched, spring.Style{"x": spring.Plain(7)},
				motion.WithDefaultStyle(spring.PlainStyle{"x": 0}))
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Style()["x"]).To(Equal(7.0))
			Expect(d.Scheduled()).To(BeFalse())
		})

		It("rejects malformed input", func() {
			_, err := motion.New(nil, spring.Style{"x": spring.Plain(0)})
			Expect(err).To(MatchError(motion.ErrNilScheduler))

			_, err = motion.New(sched, spring.Style{"x": spring.Plain(math.NaN())})
			Expect(err).To(MatchError(motion.ErrInvalidTarget))

			_, err = motion.New(sched, spring.Style{"x": spring.To(1, spring.Config{Stiffness: 1, Damping: 0, Precision: 1})})
			Expect(err).To(MatchError(motion.ErrInvalidTarget))

			_, err = motion.New(sched, spring.Style{"x": spring.To(1)},
				motion.WithDefaultStyle(spring.PlainStyle{"y": 0}))
			Expect(err).To(MatchError(motion.ErrKeyMismatch))
			var ke *motion.KeyError
			Expect(err).To(BeAssignableToTypeOf(ke))

			_, err = motion.New(sched, spring.Style{"x": spring.To(1)},
				motion.WithDefaultStyle(spring.PlainStyle{"x": math.Inf(-1)}))
			Expect(err).To(MatchError(motion.ErrInvalidTarget))
		})
	})

	Describe("convergence", func() {
		It("settles exactly on every preset within a bounded number of frames", func() {
			for _, name := range spring.PresetNames() {
				cfg, err := spring.Preset(name)
				Expect(err).NotTo(HaveOccurred())

				s := frame.NewVirtual()
				d, err := motion.New(s, spring.Style{"x": spring.To(100, cfg)},
					motion.WithDefaultStyle(spring.PlainStyle{"x": 0}))
				Expect(err).NotTo(HaveOccurred())

				n := runUntilIdle(s, d, frameStep, 2000)
				Expect(n).To(BeNumerically("<", 2000), name)
				st := d.State()
				Expect(spring.ShouldStop(st.CurrentStyle, d.Target(), st.CurrentVelocity)).To(BeTrue(), name)
				Expect(st.CurrentStyle["x"]).To(Equal(100.0), name)
				Expect(st.CurrentVelocity["x"]).To(Equal(0.0), name)
			}
		})

		It("approaches monotonically, overshoots little and rests once", func() {
			cfg := spring.Config{Stiffness: 170, Damping: 26, Precision: 0.01}
			d, err := motion.New(sched, spring.Style{"x": spring.To(100, cfg)},
				observe(motion.WithDefaultStyle(spring.PlainStyle{"x": 0}))...)
			Expect(err).NotTo(HaveOccurred())

			runUntilIdle(sched, d, frameStep, 1000)
			for i := 0; i < 10; i++ {
				sched.Advance(frameStep)
			}

			Expect(frames).NotTo(BeEmpty())
			peak, prev, rising := 0.0, 0.0, true
			for _, f := range frames {
				x := f["x"]
				if rising {
					Expect(x).To(BeNumerically(">=", prev))
				}
				if x >= 100 {
					rising = false
				}
				peak = math.Max(peak, x)
				prev = x
			}
			Expect(peak).To(BeNumerically("<", 105))
			Expect(frames[len(frames)-1]["x"]).To(Equal(100.0))
			Expect(rests).To(Equal(1))
		})
	})

	Describe("plain targets", func() {
		It("applies a plain value before any frame", func() {
			d, err := motion.New(sched, spring.Style{"x": spring.To(0)}, observe()...)
			Expect(err).NotTo(HaveOccurred())

			Expect(d.SetTarget(spring.Style{"x": spring.Plain(42)})).To(Succeed())
			st := d.State()
			Expect(st.CurrentStyle["x"]).To(Equal(42.0))
			Expect(st.CurrentVelocity["x"]).To(Equal(0.0))
			Expect(st.LastIdealStyle["x"]).To(Equal(42.0))
			Expect(st.LastIdealVelocity["x"]).To(Equal(0.0))
			Expect(frames).To(HaveLen(1))
			Expect(frames[0]).To(Equal(spring.PlainStyle{"x": 42}))
			Expect(d.Scheduled()).To(BeFalse())
		})

		It("animates from a plain value that never reached a frame", func() {
			d, err := motion.New(sched, spring.Style{"x": spring.To(0)})
			Expect(err).NotTo(HaveOccurred())

			Expect(d.SetTarget(spring.Style{"x": spring.Plain(400)})).To(Succeed())
			Expect(d.SetTarget(spring.Style{"x": spring.To(0)})).To(Succeed())

			Expect(d.Style()["x"]).To(Equal(400.0))
			Expect(d.Scheduled()).To(BeTrue())

			sched.Advance(frameStep)
			Expect(d.Style()["x"]).To(BeNumerically("<", 400))
		})

		It("keeps plain keys pinned while spring keys animate", func() {
			d, err := motion.New(sched, spring.Style{"x": spring.To(50), "o": spring.Plain(1)},
				motion.WithDefaultStyle(spring.PlainStyle{"x": 0, "o": 0}))
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Style()["o"]).To(Equal(1.0))

			for i := 0; i < 5; i++ {
				sched.Advance(frameStep)
				st := d.State()
				Expect(st.CurrentStyle["o"]).To(Equal(1.0))
				Expect(st.CurrentVelocity["o"]).To(Equal(0.0))
			}
		})
	})

	Describe("already at rest", func() {
		It("never schedules or rests when the target does not change", func() {
			d, err := motion.New(sched, spring.Style{"x": spring.Plain(5)}, observe()...)
			Expect(err).NotTo(HaveOccurred())

			Expect(d.SetTarget(spring.Style{"x": spring.Plain(5)})).To(Succeed())
			Expect(d.Scheduled()).To(BeFalse())
			Expect(sched.Len()).To(Equal(0))

			sched.Advance(frameStep)
			Expect(frames).To(BeEmpty())
			Expect(rests).To(Equal(0))
		})
	})

	Describe("frame timing", func() {
		It("interpolates between whole steps", func() {
			d, err := motion.New(sched, spring.Style{"x": spring.To(100)},
				motion.WithDefaultStyle(spring.PlainStyle{"x": 0}))
			Expect(err).NotTo(HaveOccurred())

			sched.Advance(10 * time.Millisecond)
			st := d.State()
			Expect(st.LastIdealStyle["x"]).To(Equal(0.0))
			Expect(st.CurrentStyle["x"]).NotTo(Equal(st.LastIdealStyle["x"]))

			nextX, _ := spring.StepConfig(spring.StepSeconds, 0, 0, 100, spring.Default)
			fraction := float64(10*time.Millisecond) / float64(motion.FixedTick)
			Expect(st.CurrentStyle["x"]).To(BeNumerically("~", nextX*fraction, 1e-9))

			sched.Advance(motion.FixedTick - 10*time.Millisecond)
			st = d.State()
			Expect(st.CurrentStyle["x"]).To(Equal(st.LastIdealStyle["x"]))
			Expect(st.LastIdealStyle["x"]).To(Equal(nextX))
		})

		It("catches up several steps in one frame", func() {
			m := &countingMetrics{}
			d, err := motion.New(sched, spring.Style{"x": spring.To(100)},
				motion.WithDefaultStyle(spring.PlainStyle{"x": 0}), motion.WithMetrics(m))
			Expect(err).NotTo(HaveOccurred())

			sched.Advance(3 * motion.FixedTick)

			x, v := 0.0, 0.0
			for i := 0; i < 3; i++ {
				x, v = spring.StepConfig(spring.StepSeconds, x, v, 100, spring.Default)
			}
			st := d.State()
			Expect(st.LastIdealStyle["x"]).To(Equal(x))
			Expect(st.LastIdealVelocity["x"]).To(Equal(v))
			Expect(m.frames).To(Equal(1))
			Expect(m.steps).To(Equal(3))
		})

		It("reschedules without committing when no time has passed", func() {
			d, err := motion.New(sched, spring.Style{"x": spring.To(100)},
				observe(motion.WithDefaultStyle(spring.PlainStyle{"x": 0}))...)
			Expect(err).NotTo(HaveOccurred())

			sched.Advance(0)
			Expect(frames).To(BeEmpty())
			Expect(d.Scheduled()).To(BeTrue())
			Expect(d.Animating()).To(BeTrue())
		})

		It("treats a long stall as a fresh start", func() {
			m := &countingMetrics{}
			d, err := motion.New(sched, spring.Style{"x": spring.To(100)},
				observe(motion.WithDefaultStyle(spring.PlainStyle{"x": 0}), motion.WithMetrics(m))...)
			Expect(err).NotTo(HaveOccurred())

			sched.Advance(motion.FixedTick)
			before := d.State()
			sched.Advance(50 * motion.FixedTick)

			Expect(d.State()).To(Equal(before))
			Expect(m.stalls).To(Equal(1))
			Expect(m.steps).To(Equal(1))
			Expect(d.Scheduled()).To(BeTrue())
		})
	})

	Describe("retargeting", func() {
		It("rejects key mismatches without changing anything", func() {
			d, err := motion.New(sched, spring.Style{"x": spring.To(100), "y": spring.Plain(0)},
				motion.WithDefaultStyle(spring.PlainStyle{"x": 0, "y": 0}))
			Expect(err).NotTo(HaveOccurred())
			before := d.State()

			err = d.SetTarget(spring.Style{"x": spring.Plain(5)})
			Expect(err).To(MatchError(motion.ErrKeyMismatch))
			err = d.SetTarget(spring.Style{"x": spring.Plain(5), "y": spring.Plain(1), "z": spring.Plain(2)})
			Expect(err).To(MatchError(motion.ErrKeyMismatch))
			err = d.SetTarget(spring.Style{"x": spring.Plain(5), "y": spring.Plain(math.NaN())})
			Expect(err).To(MatchError(motion.ErrInvalidTarget))

			Expect(d.State()).To(Equal(before))
			Expect(d.Target()["x"]).To(Equal(spring.To(100)))
		})

		It("fires rest for each animation and allows chaining from the rest callback", func() {
			var d *motion.Driver
			chained := false
			var err error
			d, err = motion.New(sched, spring.Style{"x": spring.To(10)},
				motion.WithDefaultStyle(spring.PlainStyle{"x": 0}),
				motion.WithOnRest(func() {
					rests++
					if !chained {
						chained = true
						Expect(d.SetTarget(spring.Style{"x": spring.To(0)})).To(Succeed())
					}
				}))
			Expect(err).NotTo(HaveOccurred())

			runUntilIdle(sched, d, frameStep, 2000)
			Expect(rests).To(Equal(2))
			Expect(d.Style()["x"]).To(Equal(0.0))
		})

		It("rests after a plain retarget mid-flight", func() {
			d, err := motion.New(sched, spring.Style{"x": spring.To(100)},
				observe(motion.WithDefaultStyle(spring.PlainStyle{"x": 0}))...)
			Expect(err).NotTo(HaveOccurred())
			sched.Advance(frameStep)

			Expect(d.SetTarget(spring.Style{"x": spring.Plain(3)})).To(Succeed())
			Expect(d.Style()["x"]).To(Equal(3.0))
			sched.Advance(frameStep)

			Expect(rests).To(Equal(1))
			Expect(d.Scheduled()).To(BeFalse())
		})
	})

	Describe("teardown", func() {
		It("cancels the pending frame and ignores later calls", func() {
			d, err := motion.New(sched, spring.Style{"x": spring.To(100)},
				observe(motion.WithDefaultStyle(spring.PlainStyle{"x": 0}))...)
			Expect(err).NotTo(HaveOccurred())
			sched.Advance(frameStep)
			frameCount := len(frames)
			before := d.State()

			d.Destroy()
			d.Destroy()
			Expect(d.Destroyed()).To(BeTrue())
			Expect(d.Scheduled()).To(BeFalse())
			Expect(sched.Len()).To(Equal(0))

			sched.Advance(frameStep)
			Expect(d.SetTarget(spring.Style{"x": spring.To(0)})).To(MatchError(motion.ErrDestroyed))
			Expect(d.State()).To(Equal(before))
			Expect(frames).To(HaveLen(frameCount))
			Expect(rests).To(Equal(0))
		})

		It("ignores a frame already in flight", func() {
			m := &manualScheduler{}
			d, err := motion.New(m, spring.Style{"x": spring.To(100)},
				observe(motion.WithDefaultStyle(spring.PlainStyle{"x": 0}))...)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.callbacks).To(HaveLen(1))
			before := d.State()

			d.Destroy()
			Expect(m.cancelled).To(HaveLen(1))

			m.now = frameStep
			m.callbacks[0](m.now)
			Expect(d.State()).To(Equal(before))
			Expect(frames).To(BeEmpty())
			Expect(m.callbacks).To(HaveLen(1))
		})

		It("stops when an observer destroys the driver", func() {
			var d *motion.Driver
			var err error
			d, err = motion.New(sched, spring.Style{"x": spring.To(100)},
				motion.WithDefaultStyle(spring.PlainStyle{"x": 0}),
				motion.WithOnFrame(func(spring.PlainStyle) { d.Destroy() }))
			Expect(err).NotTo(HaveOccurred())

			sched.Advance(frameStep)
			Expect(d.Destroyed()).To(BeTrue())
			Expect(sched.Len()).To(Equal(0))
		})
	})
})
