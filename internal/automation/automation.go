package automation

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/san-kum/rodsim/internal/boundary"
	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/experiment"
	"github.com/san-kum/rodsim/internal/sim"
	"github.com/san-kum/rodsim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset and overrides whatever it sets. Zero
// values leave the preset untouched.
type ScenarioStep struct {
	Preset   string           `yaml:"preset"`
	Boundary string           `yaml:"boundary"`
	Params   *boundary.Params `yaml:"params"`
	Stepper  string           `yaml:"stepper"`
	Damping  float64          `yaml:"damping"`
	Elements int              `yaml:"elements"`
	Dt       float64          `yaml:"dt"`
	Duration float64          `yaml:"duration"`
	Save     bool             `yaml:"save"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Config *config.Config
	Result *sim.Result
	RunID  string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the step against its preset.
func (s ScenarioStep) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "helical_buckling"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}

	if s.Boundary != "" {
		cfg.Boundary.Kind = s.Boundary
	}
	if s.Params != nil {
		cfg.Boundary.Params = *s.Params
	}
	if s.Stepper != "" {
		cfg.Stepper = s.Stepper
	}
	if s.Damping != 0 {
		cfg.Damping = s.Damping
	}
	if s.Elements != 0 {
		cfg.Rod.Elements = s.Elements
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	return cfg, cfg.Validate()
}

// RunScenario executes every step in order. Steps marked save are written to
// st, which may be nil when no step saves. Results gathered before a failure
// are returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Printf("scenario %s: step %d/%d (%s)", scenario.Name, i+1, len(scenario.Steps), cfg.Name())

		exp, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Config: cfg, Result: result}
		if step.Save {
			if st == nil {
				return results, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			if sr.RunID, err = st.Save(cfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}
