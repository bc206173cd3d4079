package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/san-kum/motion/internal/spring"
)

type ExportData struct {
	RunMetadata
	Times      []float64           `json:"times"`
	Styles     []spring.PlainStyle `json:"styles"`
	Velocities []spring.Velocity   `json:"velocities"`
}

// ExportJSON writes a stored run as a single JSON document to path, or to
// stdout when path is "" or "-".
func (s *Store) ExportJSON(runID, path string) error {
	if path == "" || path == "-" {
		return s.WriteJSON(runID, os.Stdout)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return s.WriteJSON(runID, file)
}

func (s *Store) WriteJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		RunMetadata: *meta,
		Times:       frames.Times,
		Styles:      frames.Frames,
		Velocities:  frames.Velocities,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
