package boundary

import "github.com/san-kum/rodsim/internal/rod"

// Condition constrains a rod at its ends. The caller guarantees exclusive
// access to r for the duration of each call; implementations never keep r.
type Condition interface {
	// ConstrainValues overrides positions and directors.
	ConstrainValues(r *rod.Rod, t float64)
	// ConstrainRates overrides velocities and angular velocities.
	ConstrainRates(r *rod.Rod, t float64)
}

// Free imposes no constraint.
type Free struct{}

func (Free) ConstrainValues(*rod.Rod, float64) {}
func (Free) ConstrainRates(*rod.Rod, float64)  {}
