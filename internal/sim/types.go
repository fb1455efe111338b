package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rodsim/internal/boundary"
	"github.com/san-kum/rodsim/internal/rod"
)

// Stepper advances rod kinematics in place by dt.
type Stepper interface {
	Step(r *rod.Rod, dt float64)
}

// Phaser is implemented by conditions with time-dependent regimes.
type Phaser interface {
	Phase(t float64) boundary.Phase
}

type Metric interface {
	Name() string
	Observe(r *rod.Rod, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(r *rod.Rod, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		SampleEvery:   10,
		ValidateState: true,
	}
}

// Sample is a snapshot of both rod ends.
type Sample struct {
	Time          float64
	Phase         string
	Start         mgl64.Vec3
	End           mgl64.Vec3
	StartDirector mgl64.Mat3
	EndDirector   mgl64.Mat3
}

func (s Sample) EndToEnd() float64 { return s.End.Sub(s.Start).Len() }

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last sample, or the zero Sample if none was taken.
func (r *Result) Final() Sample {
	if len(r.Samples) == 0 {
		return Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}

// StepError wraps a failure with the step at which it was detected.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
