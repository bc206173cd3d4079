package viz

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme colours the live view. The dot blends from Slow to Fast with speed.
type Theme struct {
	Name   string
	Slow   string
	Fast   string
	Accent lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeOcean = Theme{
		Name:   "ocean",
		Slow:   "#0077be",
		Fast:   "#00ffcc",
		Accent: lipgloss.Color("#ffd700"),
		Muted:  lipgloss.Color("#4488aa"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Slow:   "#feca57",
		Fast:   "#ff4757",
		Accent: lipgloss.Color("#ff9ff3"),
		Muted:  lipgloss.Color("#8b6b8c"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Slow:   "#005500",
		Fast:   "#88ff88",
		Accent: lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
	}

	CurrentTheme = ThemeOcean

	Themes = []Theme{
		ThemeOcean,
		ThemeSunset,
		ThemeRetroGreen,
	}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOcean
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// SpeedColor blends the theme from Slow at rest to Fast at or above limit.
func (t Theme) SpeedColor(speed, limit float64) lipgloss.Color {
	ratio := 0.0
	if limit > 0 {
		ratio = speed / limit
	}
	return lipgloss.Color(blend(t.Slow, t.Fast, ratio))
}

func blend(from, to string, ratio float64) string {
	if ratio <= 0 {
		return from
	} else if ratio >= 1 {
		return to
	}
	a, err := colorful.Hex(from)
	if err != nil {
		return from
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return from
	}
	return a.BlendLab(b, ratio).Clamped().Hex()
}
