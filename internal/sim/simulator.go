package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/rodsim/internal/boundary"
	"github.com/san-kum/rodsim/internal/rod"
)

// Simulator drives a rod through time, applying a boundary condition after
// every kinematic advance. It owns neither the rod nor the condition.
type Simulator struct {
	rod       *rod.Rod
	stepper   Stepper
	condition boundary.Condition
	metrics   []Metric
	observers []Observer

	t      float64
	steps  int
	primed bool
}

// New returns a simulator starting at t=0. A nil condition means a free rod.
func New(r *rod.Rod, stepper Stepper, condition boundary.Condition) *Simulator {
	if condition == nil {
		condition = boundary.Free{}
	}
	return &Simulator{
		rod:       r,
		stepper:   stepper,
		condition: condition,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Rod() *rod.Rod                 { return s.rod }
func (s *Simulator) Condition() boundary.Condition { return s.condition }
func (s *Simulator) Time() float64                 { return s.t }
func (s *Simulator) Steps() int                    { return s.steps }

// Phase reports the condition's regime at the current time, or "" when the
// condition has a single regime.
func (s *Simulator) Phase() string {
	if p, ok := s.condition.(Phaser); ok {
		return p.Phase(s.t).String()
	}
	return ""
}

// prime constrains the initial state so the first advance already uses the
// prescribed rates.
func (s *Simulator) prime() {
	if s.primed {
		return
	}
	s.condition.ConstrainValues(s.rod, s.t)
	s.condition.ConstrainRates(s.rod, s.t)
	s.primed = true
}

// Step advances the rod by dt and constrains it at the new time.
func (s *Simulator) Step(dt float64) {
	s.prime()

	s.stepper.Step(s.rod, dt)
	s.t += dt
	s.condition.ConstrainValues(s.rod, s.t)
	s.condition.ConstrainRates(s.rod, s.t)
	s.steps++

	for _, m := range s.metrics {
		m.Observe(s.rod, s.t)
	}
	for _, obs := range s.observers {
		obs.OnStep(s.rod, s.t)
	}
}

func (s *Simulator) sample() Sample {
	sp, sd := s.rod.Start()
	ep, ed := s.rod.End()
	return Sample{
		Time:          s.t,
		Phase:         s.Phase(),
		Start:         sp,
		End:           ep,
		StartDirector: sd,
		EndDirector:   ed,
	}
}

// Run steps for cfg.Duration from the current time. On cancellation the
// partial result is returned with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Samples: make([]Sample, 0, steps/every+2),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.prime()
	result.Samples = append(result.Samples, s.sample())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		s.Step(cfg.Dt)
		result.StepsTaken++

		if cfg.ValidateState && !s.rod.IsValid() {
			s.collect(result)
			return result, &StepError{Step: s.steps, Time: s.t, Wrapped: rod.ErrInvalidState}
		}

		if (i+1)%every == 0 || i == steps-1 {
			result.Samples = append(result.Samples, s.sample())
		}
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if s.rod == nil || s.rod.NumElements() == 0 {
		return fmt.Errorf("simulator has no rod")
	}
	return nil
}

// RunWithCallback steps until cfg.Duration or until callback returns false.
// The callback sees the rod after each constrained step.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(r *rod.Rod, t float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.Step(cfg.Dt)

		if cfg.ValidateState && !s.rod.IsValid() {
			return &StepError{Step: s.steps, Time: s.t, Wrapped: rod.ErrInvalidState}
		}
		if !callback(s.rod, s.t) {
			return nil
		}
	}

	return nil
}
