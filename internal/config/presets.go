package config

import (
	"sort"

	"github.com/san-kum/rodsim/internal/boundary"
)

var Presets = map[string]*Config{
	// The classic twist-and-shrink protocol: 27 turns and 3 units of slack
	// over 500 time units on a rod of length 100, then held.
	"helical_buckling": {
		Preset: "helical_buckling",
		Rod: RodConfig{
			Elements: 100, Length: 100,
			Direction: [3]float64{0, 0, 1}, Normal: [3]float64{0, 1, 0},
		},
		Boundary: BoundaryConfig{
			Kind:   "helical_buckling",
			Params: boundary.Params{TwistingTime: 500, Slack: 3, Rotations: 27},
		},
		Stepper: "kinematic", Dt: 0.1, Duration: 600, SampleEvery: 50,
	},
	"quick_twist": {
		Preset: "quick_twist",
		Rod: RodConfig{
			Elements: 10, Length: 10,
			Direction: [3]float64{0, 0, 1}, Normal: [3]float64{1, 0, 0},
		},
		Boundary: BoundaryConfig{
			Kind:   "helical_buckling",
			Params: boundary.Params{TwistingTime: 2, Slack: 2, Rotations: 1},
		},
		Stepper: "kinematic", Dt: 0.01, Duration: 3, SampleEvery: 10,
	},
	"cantilever": {
		Preset: "cantilever",
		Rod: RodConfig{
			Elements: 20, Length: 1,
			Direction: [3]float64{1, 0, 0}, Normal: [3]float64{0, 0, 1},
		},
		Boundary: BoundaryConfig{Kind: "one_end_fixed"},
		Stepper:  "damped", Damping: 0.5, Dt: 0.001, Duration: 1, SampleEvery: 100,
	},
	"free": {
		Preset: "free",
		Rod: RodConfig{
			Elements: 20, Length: 1,
			Direction: [3]float64{1, 0, 0}, Normal: [3]float64{0, 0, 1},
		},
		Boundary: BoundaryConfig{Kind: "free"},
		Stepper:  "kinematic", Dt: 0.001, Duration: 1, SampleEvery: 100,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
