package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/motion/internal/sim"
	"github.com/san-kum/motion/internal/spring"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	velSuffix    = "_v"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Scenario      string             `json:"scenario"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          int64              `json:"seed"`
	FrameInterval time.Duration      `json:"frame_interval_ns"`
	Jitter        time.Duration      `json:"jitter_ns"`
	Duration      time.Duration      `json:"duration_ns"`
	Keys          []string           `json:"keys"`
	Frames        int                `json:"frames"`
	HostFrames    int                `json:"host_frames"`
	Rests         []float64          `json:"rests"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Save writes a run as metadata.json and frames.csv under a fresh id.
// Non-finite metric values are left out of the metadata.
func (s *Store) Save(scenario string, cfg sim.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", scenario, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Scenario:      scenario,
		Timestamp:     time.Now(),
		Seed:          cfg.Seed,
		FrameInterval: cfg.FrameInterval,
		Jitter:        cfg.Jitter,
		Duration:      cfg.Duration,
		Keys:          result.Keys,
		Frames:        len(result.Frames),
		HostFrames:    result.HostFrames,
		Rests:         result.Rests,
		Metrics:       make(map[string]float64, len(result.Metrics)),
	}
	for name, v := range result.Metrics {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			meta.Metrics[name] = v
		}
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeFrames writes one row per frame: time, then each key's value and
// velocity in sorted key order.
func writeFrames(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	keys := append([]string(nil), result.Keys...)
	sort.Strings(keys)
	header := []string{"time"}
	for _, k := range keys {
		header = append(header, k, k+velSuffix)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, frame := range result.Frames {
		row := []string{formatFloat(result.Times[i])}
		for _, k := range keys {
			vel := 0.0
			if i < len(result.Velocities) {
				vel = result.Velocities[i][k]
			}
			row = append(row, formatFloat(frame[k]), formatFloat(vel))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadFrames reads frames.csv back into a result with Keys, Times, Frames
// and Velocities set.
func (s *Store) LoadFrames(runID string) (*sim.Result, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	result := &sim.Result{}
	if len(records) == 0 {
		return result, nil
	}

	header := records[0]
	for i := 1; i < len(header); i += 2 {
		result.Keys = append(result.Keys, header[i])
		if i+1 >= len(header) || header[i+1] != header[i]+velSuffix {
			return nil, fmt.Errorf("run %s: bad frames header %q", runID, strings.Join(header, ","))
		}
	}

	for n, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: row %d: %w", runID, n+1, err)
			}
			vals[j] = v
		}

		frame := make(spring.PlainStyle, len(result.Keys))
		vel := make(spring.Velocity, len(result.Keys))
		for i, k := range result.Keys {
			frame[k] = vals[1+2*i]
			vel[k] = vals[2+2*i]
		}
		result.Times = append(result.Times, vals[0])
		result.Frames = append(result.Frames, frame)
		result.Velocities = append(result.Velocities, vel)
	}

	return result, nil
}
