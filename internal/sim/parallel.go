package sim

import (
	"context"
	"sync"
)

// Job is one independent member of an ensemble. Each job must own its rod,
// stepper and metrics; conditions may be shared.
type Job struct {
	Name    string
	Sim     *Simulator
	Metrics []Metric
}

// RunEnsemble runs every job concurrently with the same config and returns
// results in job order. The first error encountered, in job order, is
// returned alongside the results gathered so far.
func RunEnsemble(ctx context.Context, jobs []Job, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			job := jobs[idx]
			for _, m := range job.Metrics {
				job.Sim.AddMetric(m)
			}
			results[idx], errs[idx] = job.Sim.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
