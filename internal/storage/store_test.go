package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Samples: []sim.Sample{
			{Time: 0, Phase: "driving", End: mgl64.Vec3{0, 0, 10}, StartDirector: mgl64.Ident3(), EndDirector: mgl64.Ident3()},
			{Time: 0.5, Phase: "driving", Start: mgl64.Vec3{0, 0, 0.25}, End: mgl64.Vec3{0, 0, 9.75}},
			{Time: 3, Phase: "locked", Start: mgl64.Vec3{0, 0, 1}, End: mgl64.Vec3{0, 0, 9}},
		},
		Metrics:    map[string]float64{"end_to_end": 8},
		StepsTaken: 24,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.GetPreset("quick_twist")
	runID, err := st.Save(cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "quick_twist_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Boundary != "helical_buckling" {
		t.Errorf("expected boundary 'helical_buckling', got '%s'", meta.Boundary)
	}
	if meta.Params != cfg.Boundary.Params {
		t.Errorf("params %+v, want %+v", meta.Params, cfg.Boundary.Params)
	}
	if meta.Steps != 24 {
		t.Errorf("expected 24 steps, got %d", meta.Steps)
	}
	if meta.Metrics["end_to_end"] != 8 {
		t.Errorf("expected end_to_end 8, got %f", meta.Metrics["end_to_end"])
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	last := samples[2]
	if last.Time != 3 || last.Phase != "locked" {
		t.Errorf("last sample t=%f phase=%q", last.Time, last.Phase)
	}
	if last.Start != (mgl64.Vec3{0, 0, 1}) || last.End != (mgl64.Vec3{0, 0, 9}) {
		t.Errorf("last sample ends %v %v", last.Start, last.End)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(config.GetPreset("free"), testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(config.DefaultConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "ends.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testResult().Samples); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "time,phase,start_x,start_y,start_z,end_x,end_y,end_z,end_to_end" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[3] != "3,locked,0,0,1,0,0,9,8" {
		t.Errorf("unexpected row %q", lines[3])
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, config.DefaultConfig(), testResult()); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Steps != 24 || len(data.Samples) != 3 {
		t.Errorf("steps %d samples %d", data.Steps, len(data.Samples))
	}
	if data.Samples[0].EndToEnd != 10 {
		t.Errorf("first end-to-end %f", data.Samples[0].EndToEnd)
	}
	if data.Samples[0].StartDirector != [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		t.Errorf("director rows %v", data.Samples[0].StartDirector)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "rod\n")
		return err
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "rod\n" {
		t.Errorf("file holds %q, want %q", data, "rod\n")
	}
}

func TestWriteFileErrors(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")

	err := writeFile(filepath.Join(dir, "out.txt"), func(w io.Writer) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected write error to propagate, got %v", err)
	}

	err = writeFile(filepath.Join(dir, "missing", "out.txt"), func(w io.Writer) error { return nil })
	if err == nil {
		t.Error("expected create error for missing directory")
	}
}

func TestStoreSaveUnwritableDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "runs")
	if err := os.WriteFile(base, []byte("not a dir"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(base).Save(config.GetPreset("quick_twist"), testResult()); err == nil {
		t.Error("expected save to fail when the base path is a file")
	}
}
