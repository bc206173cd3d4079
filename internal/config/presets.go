package config

import "sort"

var Presets = map[string]*Scenario{
	"slide": DefaultScenario(),
	"fade": {
		Name: "fade", FrameIntervalMs: DefaultFrameIntervalMs, Duration: 3, StopAtRest: true,
		DefaultStyle: map[string]float64{"opacity": 0},
		Style:        map[string]TargetSpec{"opacity": {Spring: true, Val: 1, Preset: "gentle", Precision: 0.001}},
	},
	"wobble": {
		Name: "wobble", FrameIntervalMs: DefaultFrameIntervalMs, Duration: 5, StopAtRest: true,
		DefaultStyle: map[string]float64{"x": 0, "scale": 1},
		Style: map[string]TargetSpec{
			"x":     SpringTo(200, "wobbly"),
			"scale": SpringTo(1.5, "wobbly"),
		},
	},
	"retarget": {
		Name: "retarget", FrameIntervalMs: DefaultFrameIntervalMs, Duration: 5, StopAtRest: true,
		DefaultStyle: map[string]float64{"x": 0},
		Style:        map[string]TargetSpec{"x": SpringTo(100, "noWobble")},
		Events: []EventSpec{
			{At: 0.25, Style: map[string]TargetSpec{"x": SpringTo(-50, "stiff")}},
			{At: 0.8, Style: map[string]TargetSpec{"x": SpringTo(30, "gentle")}},
		},
	},
	"mixed": {
		Name: "mixed", FrameIntervalMs: DefaultFrameIntervalMs, Duration: 5, StopAtRest: true,
		DefaultStyle: map[string]float64{"x": 0, "z": 0},
		Style: map[string]TargetSpec{
			"x": SpringTo(100, "noWobble"),
			"z": PlainValue(10),
		},
		Events: []EventSpec{
			{At: 0.3, Style: map[string]TargetSpec{"x": PlainValue(400), "z": PlainValue(20)}},
			{At: 0.5, Style: map[string]TargetSpec{"x": SpringTo(0, "noWobble"), "z": PlainValue(20)}},
		},
	},
	"janky": {
		Name: "janky", FrameIntervalMs: 33.3, JitterMs: 12, Duration: 5, Seed: 42, StopAtRest: true,
		DefaultStyle: map[string]float64{"x": 0},
		Style:        map[string]TargetSpec{"x": SpringTo(100, "stiff")},
	},
}

// GetPreset returns a shallow copy of the named scenario, or nil.
func GetPreset(name string) *Scenario {
	sc, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *sc
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
