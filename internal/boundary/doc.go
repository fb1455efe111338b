// Package boundary provides kinematic boundary conditions for rods.
//
// A boundary condition overrides entries of a [rod.Rod] at its ends once per
// simulation step. Every condition implements [Condition]:
//
//   - [Free]: no constraint (the default)
//   - [OneEndFixed]: pins the first node and element in place
//   - [HelicalBuckling]: twists and shrinks both ends until a cutoff time,
//     then holds them at their final pose
//
// # Usage
//
//	bc, err := boundary.NewHelicalBucklingFromRod(r, boundary.Params{
//	    TwistingTime: 500, Slack: 3, Rotations: 27,
//	})
//	// each step, after advancing the rod to time t:
//	bc.ConstrainValues(r, t)
//	bc.ConstrainRates(r, t)
//
// # Thread Safety
//
// Conditions are immutable after construction and may be shared between
// goroutines as long as each goroutine owns the rod it passes in.
package boundary
