package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rodsim/internal/boundary"
)

const (
	DefaultDt          = 0.01
	DefaultDuration    = 3.0
	DefaultSampleEvery = 10
	DefaultElements    = 50
	DefaultLength      = 10.0
	DefaultStepper     = "kinematic"
)

type Config struct {
	Preset      string         `yaml:"preset,omitempty"`
	Rod         RodConfig      `yaml:"rod"`
	Boundary    BoundaryConfig `yaml:"boundary"`
	Stepper     string         `yaml:"stepper"`
	Damping     float64        `yaml:"damping,omitempty"`
	Dt          float64        `yaml:"dt"`
	Duration    float64        `yaml:"duration"`
	SampleEvery int            `yaml:"sample_every"`
}

// RodConfig describes the straight initial configuration.
type RodConfig struct {
	Elements  int        `yaml:"elements"`
	Length    float64    `yaml:"length"`
	Start     [3]float64 `yaml:"start,flow"`
	Direction [3]float64 `yaml:"direction,flow"`
	Normal    [3]float64 `yaml:"normal,flow"`
}

type BoundaryConfig struct {
	Kind            string `yaml:"kind"`
	boundary.Params `yaml:",inline"`
}

func DefaultConfig() *Config {
	return &Config{
		Rod: RodConfig{
			Elements:  DefaultElements,
			Length:    DefaultLength,
			Direction: [3]float64{0, 0, 1},
			Normal:    [3]float64{0, 1, 0},
		},
		Boundary: BoundaryConfig{
			Kind: "helical_buckling",
			Params: boundary.Params{
				TwistingTime: 2,
				Slack:        2,
				Rotations:    1,
			},
		},
		Stepper:     DefaultStepper,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		SampleEvery: DefaultSampleEvery,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings a run cannot start without. Geometry that only
// the rod or boundary constructors can judge is left to them.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if c.Rod.Elements <= 0 {
		return fmt.Errorf("rod.elements must be positive, got %d", c.Rod.Elements)
	}
	if c.Rod.Length <= 0 {
		return fmt.Errorf("rod.length must be positive, got %g", c.Rod.Length)
	}
	if c.Damping < 0 {
		return fmt.Errorf("damping must be non-negative, got %g", c.Damping)
	}
	if _, err := boundary.ParseKind(c.Boundary.Kind); err != nil {
		return err
	}
	return nil
}

func (r RodConfig) StartVec() mgl64.Vec3     { return mgl64.Vec3(r.Start) }
func (r RodConfig) DirectionVec() mgl64.Vec3 { return mgl64.Vec3(r.Direction) }
func (r RodConfig) NormalVec() mgl64.Vec3    { return mgl64.Vec3(r.Normal) }

// Name identifies the run: the preset if any, otherwise the boundary kind.
func (c *Config) Name() string {
	if c.Preset != "" {
		return c.Preset
	}
	return c.Boundary.Kind
}
