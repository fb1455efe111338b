package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rodsim/internal/boundary"
	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	endsFile     = "ends.csv"
)

var endsHeader = []string{
	"time", "phase",
	"start_x", "start_y", "start_z",
	"end_x", "end_y", "end_z",
	"end_to_end",
}

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
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Boundary  string             `json:"boundary"`
	Params    boundary.Params    `json:"params"`
	Elements  int                `json:"elements"`
	Length    float64            `json:"length"`
	Stepper   string             `json:"stepper"`
	Damping   float64            `json:"damping,omitempty"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

func newMetadata(id string, cfg *config.Config, result *sim.Result) RunMetadata {
	return RunMetadata{
		ID:        id,
		Preset:    cfg.Name(),
		Timestamp: time.Now(),
		Boundary:  cfg.Boundary.Kind,
		Params:    cfg.Boundary.Params,
		Elements:  cfg.Rod.Elements,
		Length:    cfg.Rod.Length,
		Stepper:   cfg.Stepper,
		Damping:   cfg.Damping,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Steps:     result.StepsTaken,
		Metrics:   result.Metrics,
	}
}

// Save writes one run directory holding metadata.json and ends.csv and
// returns the run ID.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", cfg.Name(), time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newMetadata(runID, cfg, result))
	})
	if err != nil {
		return "", err
	}

	err = writeFile(filepath.Join(runDir, endsFile), func(w io.Writer) error {
		return WriteCSV(w, result.Samples)
	})
	if err != nil {
		return "", err
	}
	return runID, nil
}

// writeFile creates path and fills it with write. A failed Close is
// reported when write itself succeeded.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", filepath.Base(path), cerr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
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
		return nil, fmt.Errorf("parse metadata for %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSamples reads back the end positions of a run. Directors are not
// stored, so the returned samples carry zero director matrices.
func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, endsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < 8 {
			return nil, fmt.Errorf("%s row %d: expected 8 columns, got %d", endsFile, i+1, len(record))
		}
		vals := make([]float64, 0, 7)
		for _, j := range []int{0, 2, 3, 4, 5, 6, 7} {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", endsFile, i+1, err)
			}
			vals = append(vals, v)
		}
		samples = append(samples, sim.Sample{
			Time:  vals[0],
			Phase: record[1],
			Start: mgl64.Vec3{vals[1], vals[2], vals[3]},
			End:   mgl64.Vec3{vals[4], vals[5], vals[6]},
		})
	}
	return samples, nil
}
