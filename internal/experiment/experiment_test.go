package experiment

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/rodsim/internal/boundary"
	"github.com/san-kum/rodsim/internal/config"
)

func TestQuickTwist(t *testing.T) {
	cfg := config.GetPreset("quick_twist")
	cfg.Dt = 0.125

	exp, err := New(cfg)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if _, ok := exp.GetSimulator().Condition().(*boundary.HelicalBuckling); !ok {
		t.Fatalf("expected helical buckling, got %T", exp.GetSimulator().Condition())
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	final := result.Final()
	if final.Phase != "locked" {
		t.Errorf("expected locked final phase, got %q", final.Phase)
	}
	if math.Abs(final.EndToEnd()-8) > 1e-9 {
		t.Errorf("final end-to-end %f, want 8", final.EndToEnd())
	}
	if math.Abs(result.Metrics["end_to_end"]-8) > 1e-9 {
		t.Errorf("end_to_end metric %f, want 8", result.Metrics["end_to_end"])
	}
	if math.Abs(result.Metrics["end_twist"]-1) > 1e-6 {
		t.Errorf("end_twist metric %f turns, want 1", result.Metrics["end_twist"])
	}
	if math.Abs(result.Metrics["max_end_speed"]-0.5) > 1e-12 {
		t.Errorf("max_end_speed %f, want 0.5", result.Metrics["max_end_speed"])
	}
}

func TestCantileverHoldsRoot(t *testing.T) {
	cfg := config.GetPreset("cantilever")
	cfg.Duration = 0.01

	exp, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	start, _ := exp.Rod().Start()

	exp.Rod().Velocity[0][2] = 5
	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got, _ := exp.Rod().Start(); got != start {
		t.Errorf("clamped root moved from %v to %v", start, got)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"invalid config", func(c *config.Config) { c.Dt = 0 }},
		{"unknown stepper", func(c *config.Config) { c.Stepper = "rk4" }},
		{"degenerate axis", func(c *config.Config) { c.Rod.Normal = c.Rod.Direction }},
		{"bad twisting time", func(c *config.Config) { c.Boundary.TwistingTime = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.GetPreset("quick_twist")
			tt.mutate(cfg)
			if _, err := New(cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSweepRotations(t *testing.T) {
	cfg := config.GetPreset("quick_twist")
	cfg.Dt = 0.125

	results, err := SweepRotations(context.Background(), cfg, []float64{0.5, 1, 2})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	for _, r := range results {
		if got := r.Result.Metrics["end_twist"]; math.Abs(got-r.Rotations) > 1e-6 {
			t.Errorf("rotations %.1f: twist %f turns", r.Rotations, got)
		}
	}
}
