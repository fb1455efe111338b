package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/sim"
)

type ExportSample struct {
	Time          float64       `json:"time"`
	Phase         string        `json:"phase,omitempty"`
	Start         [3]float64    `json:"start"`
	End           [3]float64    `json:"end"`
	StartDirector [3][3]float64 `json:"start_director"`
	EndDirector   [3][3]float64 `json:"end_director"`
	EndToEnd      float64       `json:"end_to_end"`
}

type ExportData struct {
	Config  *config.Config     `json:"config"`
	Steps   int                `json:"steps"`
	Samples []ExportSample     `json:"samples"`
	Metrics map[string]float64 `json:"metrics"`
}

func NewExportData(cfg *config.Config, result *sim.Result) ExportData {
	data := ExportData{
		Config:  cfg,
		Steps:   result.StepsTaken,
		Samples: make([]ExportSample, len(result.Samples)),
		Metrics: result.Metrics,
	}
	for i, s := range result.Samples {
		data.Samples[i] = ExportSample{
			Time:          s.Time,
			Phase:         s.Phase,
			Start:         [3]float64(s.Start),
			End:           [3]float64(s.End),
			StartDirector: rows(s.StartDirector),
			EndDirector:   rows(s.EndDirector),
			EndToEnd:      s.EndToEnd(),
		}
	}
	return data
}

// ExportJSON writes the configuration, samples and metrics as indented JSON.
func ExportJSON(w io.Writer, cfg *config.Config, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(cfg, result))
}

// WriteCSV writes one row per sample with the end positions and their
// distance.
func WriteCSV(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(endsHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{formatFloat(s.Time), s.Phase}
		for _, v := range []float64{s.Start[0], s.Start[1], s.Start[2], s.End[0], s.End[1], s.End[2], s.EndToEnd()} {
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func rows(m [9]float64) [3][3]float64 {
	// mgl64 matrices are column-major
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j*3+i]
		}
	}
	return out
}
