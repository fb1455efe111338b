package experiment

import (
	"context"

	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/sim"
)

// SweepResult pairs a rotation count with its run.
type SweepResult struct {
	Rotations float64
	Result    *sim.Result
}

// SweepRotations runs base once per rotation count, concurrently.
func SweepRotations(ctx context.Context, base *config.Config, rotations []float64) ([]SweepResult, error) {
	jobs := make([]sim.Job, len(rotations))
	for i, n := range rotations {
		cfg := *base
		cfg.Boundary.Rotations = n
		exp, err := New(&cfg)
		if err != nil {
			return nil, err
		}
		jobs[i] = sim.Job{Sim: exp.GetSimulator()}
	}

	simCfg := sim.Config{
		Dt:            base.Dt,
		Duration:      base.Duration,
		SampleEvery:   base.SampleEvery,
		ValidateState: true,
	}
	results, err := sim.RunEnsemble(ctx, jobs, simCfg)
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(rotations))
	for i, n := range rotations {
		out[i] = SweepResult{Rotations: n, Result: results[i]}
	}
	return out, nil
}
