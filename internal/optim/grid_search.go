package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/experiment"
)

// setters maps a searchable name to the config field it changes.
var setters = map[string]func(c *config.Config, v float64){
	"twisting_time": func(c *config.Config, v float64) { c.Boundary.TwistingTime = v },
	"slack":         func(c *config.Config, v float64) { c.Boundary.Slack = v },
	"rotations":     func(c *config.Config, v float64) { c.Boundary.Rotations = v },
	"damping":       func(c *config.Config, v float64) { c.Damping = v },
}

// Params lists the names a GridSearch accepts.
func Params() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GridSearch runs every combination of parameter values and keeps the one
// whose metric lands closest to a target.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d params but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := setters[name]; !ok {
			return nil, fmt.Errorf("unknown search parameter: %s", name)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("empty range for %s", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search returns the best combination and its distance |metric - target|.
// A combination the experiment rejects aborts the search.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string, target float64) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, metricName, target, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	metricName string,
	target float64,
	best *float64,
	bestParams *map[string]float64,
) error {
	if depth == len(g.paramNames) {
		cfg := *base
		for name, v := range current {
			setters[name](&cfg, v)
		}

		exp, err := experiment.New(&cfg)
		if err != nil {
			return fmt.Errorf("%v: %w", current, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("unknown metric: %s", metricName)
		}
		if d := math.Abs(val - target); d < *best {
			*best = d
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, metricName, target, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}
