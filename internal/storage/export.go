package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/paraxial/internal/beam"
)

type ExportData struct {
	Metadata RunMetadata `json:"metadata"`
	Z        []float64   `json:"z"`
	Matrices []beam.Mat2 `json:"matrices"`
}

// ExportJSON writes a stored run to w as a single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	z, seq, err := s.LoadMatrices(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Metadata: *meta,
		Z:        z,
		Matrices: seq,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
