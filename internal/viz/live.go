package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/motion/internal/frame"
	"github.com/san-kum/motion/internal/logging"
	"github.com/san-kum/motion/internal/motion"
	"github.com/san-kum/motion/internal/spring"
)

const (
	canvasWidth     = 40
	canvasHeight    = 12
	moveStep        = 10.0
	fieldMax        = 100.0
	historyCapacity = 120
	// speeds at or above this are drawn in the theme's Fast colour
	fastSpeed = 400.0
)

type FrameMsg time.Time

// LiveConfig configures a Live model. Now defaults to the wall clock since
// creation.
type LiveConfig struct {
	Preset   string
	Interval time.Duration
	Now      func() time.Duration
	Logger   logging.Logger
	Metrics  motion.Metrics
	OnFrame  func(spring.PlainStyle)
}

// Live animates a dot on an x/y field toward a target moved with the
// arrow keys.
type Live struct {
	queue    *frame.Queue
	driver   *motion.Driver
	interval time.Duration
	canvas   *Canvas

	presets   []string
	preset    int
	goal      spring.PlainStyle
	teleports int

	style    spring.PlainStyle
	velocity spring.Velocity
	frames   int
	rests    int
	history  []float64
}

func NewLive(cfg LiveConfig) (*Live, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = frame.DefaultInterval
	}
	if cfg.Now == nil {
		start := time.Now()
		cfg.Now = func() time.Duration { return time.Since(start) }
	}

	l := &Live{
		queue:    frame.NewQueue(cfg.Now),
		interval: cfg.Interval,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		presets:  spring.PresetNames(),
		goal:     spring.PlainStyle{"x": fieldMax / 2, "y": fieldMax / 2},
		history:  make([]float64, 0, historyCapacity),
	}
	for i, name := range l.presets {
		if name == cfg.Preset {
			l.preset = i
		}
	}

	onFrame := func(s spring.PlainStyle) {
		l.observe(s)
		if cfg.OnFrame != nil {
			cfg.OnFrame(s)
		}
	}
	d, err := motion.New(l.queue, l.target(),
		motion.WithDefaultStyle(l.goal.Clone()),
		motion.WithLogger(cfg.Logger),
		motion.WithMetrics(cfg.Metrics),
		motion.WithOnFrame(onFrame),
		motion.WithOnRest(func() { l.rests++ }),
	)
	if err != nil {
		return nil, err
	}
	l.driver = d
	l.style = d.Style()
	l.velocity = spring.Zero(l.style)
	return l, nil
}

func (l *Live) observe(s spring.PlainStyle) {
	l.style = s
	l.velocity = l.driver.State().CurrentVelocity
	l.frames++
	l.history = append(l.history, s["x"])
	if len(l.history) > historyCapacity {
		l.history = l.history[1:]
	}
}

func (l *Live) target() spring.Style {
	cfg, _ := spring.Preset(l.presets[l.preset])
	return spring.Style{
		"x": spring.To(l.goal["x"], cfg),
		"y": spring.To(l.goal["y"], cfg),
	}
}

func (l *Live) retarget(style spring.Style) {
	// keys never change, so SetTarget only fails after Destroy
	_ = l.driver.SetTarget(style)
}

func (l *Live) move(dx, dy float64) {
	l.goal["x"] = clamp(l.goal["x"]+dx, 0, fieldMax)
	l.goal["y"] = clamp(l.goal["y"]+dy, 0, fieldMax)
	l.retarget(l.target())
}

func (l *Live) tick() tea.Cmd {
	return tea.Tick(l.interval, func(t time.Time) tea.Msg { return FrameMsg(t) })
}

func (l *Live) Init() tea.Cmd {
	return l.tick()
}

func (l *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			l.driver.Destroy()
			return l, tea.Quit
		case "left", "h":
			l.move(-moveStep, 0)
		case "right", "l":
			l.move(moveStep, 0)
		case "up", "k":
			l.move(0, moveStep)
		case "down", "j":
			l.move(0, -moveStep)
		case "p":
			l.preset = (l.preset + 1) % len(l.presets)
			l.retarget(l.target())
		case "t":
			l.teleports++
			l.retarget(spring.Style{"x": spring.Plain(l.goal["x"]), "y": spring.Plain(l.goal["y"])})
		case "c":
			l.goal["x"], l.goal["y"] = fieldMax/2, fieldMax/2
			l.retarget(l.target())
		case "s":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		}
	case FrameMsg:
		l.queue.Flush(l.queue.Now())
		return l, l.tick()
	}
	return l, nil
}

// Preset returns the name of the active spring preset.
func (l *Live) Preset() string { return l.presets[l.preset] }

// Style returns the last exposed style.
func (l *Live) Style() spring.PlainStyle { return l.style.Clone() }

func (l *Live) Rests() int { return l.rests }

func (l *Live) Goal() spring.PlainStyle { return l.goal.Clone() }

func (l *Live) speed() float64 {
	return math.Hypot(l.velocity["x"], l.velocity["y"])
}

func (l *Live) View() string {
	l.canvas.Clear()
	l.canvas.Cross(l.goal["x"]/fieldMax, l.goal["y"]/fieldMax)
	l.canvas.Dot(clamp(l.style["x"]/fieldMax, 0, 1), clamp(l.style["y"]/fieldMax, 0, 1))

	speed := l.speed()
	field := lipgloss.NewStyle().Foreground(CurrentTheme.SpeedColor(speed, fastSpeed)).Render(l.canvas.String())

	status := StatusResting.Render("RESTING")
	if l.driver.Scheduled() {
		status = StatusMoving.Render("MOVING")
	}

	var s strings.Builder
	s.WriteString(GradientText("SPRING", CurrentTheme.Slow, CurrentTheme.Fast) + "  " + status + "\n\n")
	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("preset", l.Preset())
	row("x", fmt.Sprintf("%7.2f → %.0f", l.style["x"], l.goal["x"]))
	row("y", fmt.Sprintf("%7.2f → %.0f", l.style["y"], l.goal["y"]))
	row("speed", fmt.Sprintf("%7.1f", speed))
	row("frames", fmt.Sprintf("%d", l.frames))
	row("rests", fmt.Sprintf("%d", l.rests))
	s.WriteString("\n" + Subtle.Render(Sparkline(l.history, 30)) + "\n")
	s.WriteString(KeyHint.Render("\n←↑↓→ move  P preset  T teleport\nC centre  S theme  Q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, Panel.Render(field), Panel.Render(s.String()))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
