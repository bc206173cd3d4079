package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/motion/internal/spring"
)

const sample = `
name: mixed
frame_interval_ms: 20
jitter_ms: 2
duration: 1.5
seed: 9
stop_at_rest: true
default_style: {x: 0, y: 5}
style:
  x: {val: 100, preset: wobbly, precision: 0.5}
  y: 7
events:
  - at: 0.5
    style:
      x: {val: 10, stiffness: 300, damping: 30}
      y: 8
`

func TestDefaultScenario(t *testing.T) {
	sc := DefaultScenario()

	assert.Equal(t, "slide", sc.Name)
	assert.Greater(t, sc.FrameIntervalMs, 0.0)
	assert.Greater(t, sc.Duration, 0.0)
	assert.True(t, sc.Style["x"].Spring)
}

func TestUnmarshalTargets(t *testing.T) {
	var sc Scenario
	require.NoError(t, yaml.Unmarshal([]byte(sample), &sc))

	assert.Equal(t, TargetSpec{Val: 7}, sc.Style["y"])
	assert.Equal(t, TargetSpec{Spring: true, Val: 100, Preset: "wobbly", Precision: 0.5}, sc.Style["x"])
	require.Len(t, sc.Events, 1)
	assert.Equal(t, 300.0, sc.Events[0].Style["x"].Stiffness)
}

func TestUnmarshalTargetErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not a number", "x: abc"},
		{"missing val", "x: {preset: gentle}"},
		{"sequence", "x: [1, 2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out map[string]TargetSpec
			assert.Error(t, yaml.Unmarshal([]byte(tt.doc), &out))
		})
	}
}

func TestTargetResolution(t *testing.T) {
	tgt, err := TargetSpec{Spring: true, Val: 1, Preset: "wobbly", Damping: 20}.Target()
	require.NoError(t, err)
	cfg, ok := tgt.Config()
	require.True(t, ok)
	assert.Equal(t, spring.Config{Stiffness: spring.Wobbly.Stiffness, Damping: 20, Precision: spring.Wobbly.Precision}, cfg)

	tgt, err = TargetSpec{Spring: true, Val: 2}.Target()
	require.NoError(t, err)
	cfg, _ = tgt.Config()
	assert.Equal(t, spring.Default, cfg)

	tgt, err = PlainValue(3).Target()
	require.NoError(t, err)
	assert.False(t, tgt.IsSpring())

	_, err = SpringTo(1, "bouncy").Target()
	assert.Error(t, err)

	_, err = TargetSpec{Spring: true, Val: 1, Stiffness: -1}.Target()
	assert.Error(t, err)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.yaml")
	require.NoError(t, os.WriteFile(src, []byte(sample), 0644))

	sc, err := Load(src)
	require.NoError(t, err)

	dst := filepath.Join(dir, "out.yaml")
	require.NoError(t, Save(dst, sc))
	again, err := Load(dst)
	require.NoError(t, err)
	assert.Equal(t, sc, again)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	var sc Scenario
	require.NoError(t, yaml.Unmarshal([]byte(sample), &sc))

	simSc, cfg, err := sc.Build()
	require.NoError(t, err)

	assert.Equal(t, 20*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 2*time.Millisecond, cfg.Jitter)
	assert.Equal(t, 1500*time.Millisecond, cfg.Duration)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.True(t, cfg.StopAtRest)

	assert.Equal(t, spring.PlainStyle{"x": 0, "y": 5}, simSc.DefaultStyle)
	assert.True(t, simSc.Target["x"].IsSpring())
	assert.Equal(t, spring.Plain(7), simSc.Target["y"])
	require.Len(t, simSc.Events, 1)
	assert.Equal(t, 500*time.Millisecond, simSc.Events[0].At)
}

func TestBuildErrors(t *testing.T) {
	_, _, err := (&Scenario{Name: "empty"}).Build()
	assert.Error(t, err)

	bad := DefaultScenario()
	bad.Events = []EventSpec{{At: 1, Style: map[string]TargetSpec{"x": SpringTo(1, "nope")}}}
	_, _, err = bad.Build()
	assert.Error(t, err)
}

func TestPresetsBuild(t *testing.T) {
	names := ListPresets()
	require.NotEmpty(t, names)
	for _, name := range names {
		sc := GetPreset(name)
		require.NotNil(t, sc, name)
		_, _, err := sc.Build()
		assert.NoError(t, err, name)
	}
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("MOTION_CONFIG", "")
	t.Setenv("HOME", t.TempDir())

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "./runs", s.DataDir)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "motion/frames", s.MQTT.Topic)
}

func TestLoadSettingsFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motion.yaml")
	doc := "data_dir: /tmp/motion\nmqtt:\n  broker: tcp://broker:1883\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	t.Setenv("MOTION_CONFIG", path)
	t.Setenv("MOTION_LOG_LEVEL", "debug")
	t.Setenv("MOTION_MQTT_TOPIC", "ui/frames")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/motion", s.DataDir)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "tcp://broker:1883", s.MQTT.Broker)
	assert.Equal(t, "ui/frames", s.MQTT.Topic)
}
