package integrators

import (
	"math"

	"github.com/san-kum/rodsim/internal/rod"
)

// Kinematic advances a rod by its current rates: x += v*dt for every node and
// Q = R(|w|*dt, w) * Q for every element. No forces are evaluated, so only
// nodes whose rates are prescribed (by initial conditions or a boundary
// condition) move.
type Kinematic struct{}

func NewKinematic() *Kinematic {
	return &Kinematic{}
}

func (k *Kinematic) Step(r *rod.Rod, dt float64) {
	for i := range r.Position {
		r.Position[i] = r.Position[i].Add(r.Velocity[i].Mul(dt))
	}
	for i, w := range r.Omega {
		angle := w.Len() * dt
		if angle == 0 {
			continue
		}
		r.Directors[i] = rod.RotationMatrix(angle, w).Mul3(r.Directors[i])
	}
}

// Damped is Kinematic followed by an exponential decay of every rate by
// exp(-Nu*dt). Rates rewritten by a boundary condition after the step are
// unaffected.
type Damped struct {
	Kinematic
	Nu float64
}

func NewDamped(nu float64) *Damped {
	return &Damped{Nu: nu}
}

func (d *Damped) Step(r *rod.Rod, dt float64) {
	d.Kinematic.Step(r, dt)

	f := math.Exp(-d.Nu * dt)
	for i := range r.Velocity {
		r.Velocity[i] = r.Velocity[i].Mul(f)
	}
	for i := range r.Omega {
		r.Omega[i] = r.Omega[i].Mul(f)
	}
}
