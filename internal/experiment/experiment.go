package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/rodsim/internal/boundary"
	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/integrators"
	"github.com/san-kum/rodsim/internal/metrics"
	"github.com/san-kum/rodsim/internal/rod"
	"github.com/san-kum/rodsim/internal/sim"
)

// Experiment is one configured run: a fresh rod, its stepper and boundary
// condition, and the default metrics.
type Experiment struct {
	cfg       config.Config
	rod       *rod.Rod
	simulator *sim.Simulator
}

// New validates cfg and builds everything a run needs. cfg is copied.
func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r, err := rod.NewStraight(cfg.Rod.Elements, cfg.Rod.StartVec(), cfg.Rod.DirectionVec(), cfg.Rod.NormalVec(), cfg.Rod.Length)
	if err != nil {
		return nil, fmt.Errorf("build rod: %w", err)
	}

	stepper, err := integrators.Get(cfg.Stepper, cfg.Damping)
	if err != nil {
		return nil, err
	}

	kind, err := boundary.ParseKind(cfg.Boundary.Kind)
	if err != nil {
		return nil, err
	}
	bc, err := boundary.FromRod(kind, r, cfg.Boundary.Params)
	if err != nil {
		return nil, fmt.Errorf("build %s condition: %w", kind, err)
	}

	s := sim.New(r, stepper, bc)
	for _, m := range DefaultMetrics() {
		s.AddMetric(m)
	}

	return &Experiment{cfg: *cfg, rod: r, simulator: s}, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.SimConfig())
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		SampleEvery:   e.cfg.SampleEvery,
		ValidateState: true,
	}
}

func (e *Experiment) Config() config.Config { return e.cfg }
func (e *Experiment) Rod() *rod.Rod         { return e.rod }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewEndToEnd(),
		metrics.NewEndTwist(),
		metrics.NewMaxEndSpeed(),
	}
}
