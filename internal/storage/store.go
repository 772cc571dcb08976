package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/paraxial/internal/beam"
)

const (
	metadataFile = "metadata.json"
	matricesFile = "matrices.csv"
	tmpPrefix    = ".tmp-"
)

// ErrNonFinite indicates a run with NaN or Inf entries, which JSON cannot
// represent.
var ErrNonFinite = errors.New("storage: run contains NaN or Inf")

var matricesHeader = []string{"z", "m00", "m01", "m10", "m11"}

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
	ID           string             `json:"id"`
	Label        string             `json:"label,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
	Method       string             `json:"method"`
	GammaInitial float64            `json:"gamma_initial"`
	Samples      int                `json:"samples"`
	Dz           float64            `json:"dz"`
	Z0           float64            `json:"z0"`
	FieldMap     string             `json:"field_map,omitempty"`
	Total        beam.Mat2          `json:"total"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

// Save writes a cumulative run. meta.ID, meta.Timestamp and meta.Total are
// filled in here; z and cum must have equal length. Runs with NaN or Inf
// anywhere are rejected with ErrNonFinite before anything is written, and a
// failed save leaves no run directory behind.
func (s *Store) Save(meta RunMetadata, z []float64, cum beam.Sequence) (string, error) {
	if len(z) != len(cum) {
		return "", fmt.Errorf("storage: %w: %d positions, %d matrices", beam.ErrLengthMismatch, len(z), len(cum))
	}
	if len(cum) == 0 {
		return "", beam.ErrEmptySequence
	}
	if err := checkFinite(z, cum, meta.Metrics); err != nil {
		return "", err
	}

	now := time.Now()
	label := meta.Label
	if label == "" {
		label = meta.Method
	}
	label = strings.NewReplacer("/", "-", string(filepath.Separator), "-").Replace(label)
	runID := fmt.Sprintf("%s_%d", label, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	meta.ID = runID
	meta.Timestamp = now
	meta.Samples = len(cum)
	meta.Total = cum[len(cum)-1]

	if err := s.Init(); err != nil {
		return "", err
	}
	tmpDir, err := os.MkdirTemp(s.baseDir, tmpPrefix+runID+"-")
	if err != nil {
		return "", err
	}

	if err := writeRun(tmpDir, meta, z, cum); err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}
	if err := os.Rename(tmpDir, runDir); err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}

	log.WithFields(log.Fields{
		"run":     runID,
		"samples": len(cum),
	}).Info("saved run")

	return runID, nil
}

func checkFinite(z []float64, cum beam.Sequence, metrics map[string]float64) error {
	for i, m := range cum {
		if !m.IsFinite() || math.IsNaN(z[i]) || math.IsInf(z[i], 0) {
			return fmt.Errorf("%w: sample %d", ErrNonFinite, i)
		}
	}
	for name, v := range metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: metric %s", ErrNonFinite, name)
		}
	}
	return nil
}

func writeRun(dir string, meta RunMetadata, z []float64, cum beam.Sequence) error {
	metaFile, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return err
	}
	if err := metaFile.Close(); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(dir, matricesFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(matricesHeader); err != nil {
		return err
	}
	row := make([]string, len(matricesHeader))
	for i, m := range cum {
		row[0] = strconv.FormatFloat(z[i], 'g', -1, 64)
		for j, v := range m {
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return csvFile.Close()
}

// List returns every readable run, oldest first.
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
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), tmpPrefix) {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			log.WithError(err).WithField("dir", entry.Name()).Debug("skipping run")
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}

	return &meta, nil
}

// Latest returns the most recent run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("storage: no runs in %s", s.baseDir)
	}
	return &runs[len(runs)-1], nil
}

// LoadMatrices reads the positions and cumulative matrices of a run.
func (s *Store) LoadMatrices(runID string) ([]float64, beam.Sequence, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, matricesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(matricesHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []float64{}, beam.Sequence{}, nil
	}

	z := make([]float64, 0, len(records)-1)
	seq := make(beam.Sequence, 0, len(records)-1)

	for i, record := range records[1:] {
		var vals [5]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: %s: row %d: %w", runID, i+1, err)
			}
			vals[j] = v
		}
		z = append(z, vals[0])
		seq = append(seq, beam.Mat2{vals[1], vals[2], vals[3], vals[4]})
	}

	return z, seq, nil
}
