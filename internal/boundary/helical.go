package boundary

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rodsim/internal/rod"
)

// minSeparation is the smallest end-to-end distance that still defines an axis.
const minSeparation = 1e-12

// Phase is the temporal regime of a scheduled end drive.
type Phase int

const (
	// Driving: ends move at the prescribed rates, poses are left free.
	Driving Phase = iota
	// Locked: ends are held at their final poses with zero rates.
	Locked
)

func (p Phase) String() string {
	switch p {
	case Driving:
		return "driving"
	case Locked:
		return "locked"
	default:
		return "unknown"
	}
}

// Params configures a scheduled end drive.
type Params struct {
	TwistingTime float64 `yaml:"twisting_time" json:"twisting_time"`
	Slack        float64 `yaml:"slack" json:"slack"`
	Rotations    float64 `yaml:"rotations" json:"rotations"`
}

// HelicalBuckling drives both ends of a rod towards each other while turning
// them in opposite senses about the initial rod axis. Over TwistingTime the
// ends close by Slack in total and the rod receives Rotations full turns,
// half at each end. Afterwards both ends are held at the pose the drive
// reaches.
type HelicalBuckling struct {
	twistingTime float64

	direction       mgl64.Vec3
	angularVelocity mgl64.Vec3
	shrinkVelocity  mgl64.Vec3

	finalStartPosition mgl64.Vec3
	finalEndPosition   mgl64.Vec3
	finalStartDirector mgl64.Mat3
	finalEndDirector   mgl64.Mat3
}

// NewHelicalBuckling precomputes the drive from the initial end poses.
func NewHelicalBuckling(start, end mgl64.Vec3, startDirector, endDirector mgl64.Mat3, p Params) (*HelicalBuckling, error) {
	if !(p.TwistingTime > 0) {
		return nil, ErrNonPositiveDuration
	}
	axis := end.Sub(start)
	sep := axis.Len()
	if sep < minSeparation {
		return nil, ErrCoincidentEnds
	}
	direction := axis.Mul(1 / sep)

	angularSpeed := (2 * math.Pi * p.Rotations / p.TwistingTime) / 2
	shrinkSpeed := p.Slack / (2 * p.TwistingTime)

	// each end turns half of the total
	theta := p.Rotations * math.Pi

	return &HelicalBuckling{
		twistingTime:       p.TwistingTime,
		direction:          direction,
		angularVelocity:    direction.Mul(angularSpeed),
		shrinkVelocity:     direction.Mul(shrinkSpeed),
		finalStartPosition: start.Add(direction.Mul(p.Slack / 2)),
		finalEndPosition:   end.Sub(direction.Mul(p.Slack / 2)),
		finalStartDirector: rod.RotationMatrix(theta, direction).Mul3(startDirector),
		finalEndDirector:   rod.RotationMatrix(-theta, direction).Mul3(endDirector),
	}, nil
}

// NewHelicalBucklingFromRod reads the initial end poses from r.
func NewHelicalBucklingFromRod(r *rod.Rod, p Params) (*HelicalBuckling, error) {
	sp, sd := r.Start()
	ep, ed := r.End()
	return NewHelicalBuckling(sp, ep, sd, ed, p)
}

// Phase reports the regime at time t. The switch happens strictly after
// TwistingTime.
func (c *HelicalBuckling) Phase(t float64) Phase {
	if t > c.twistingTime {
		return Locked
	}
	return Driving
}

func (c *HelicalBuckling) TwistingTime() float64       { return c.twistingTime }
func (c *HelicalBuckling) Direction() mgl64.Vec3       { return c.direction }
func (c *HelicalBuckling) AngularVelocity() mgl64.Vec3 { return c.angularVelocity }
func (c *HelicalBuckling) ShrinkVelocity() mgl64.Vec3  { return c.shrinkVelocity }

// FinalPositions returns the held start and end positions.
func (c *HelicalBuckling) FinalPositions() (start, end mgl64.Vec3) {
	return c.finalStartPosition, c.finalEndPosition
}

// FinalDirectors returns the held start and end frames.
func (c *HelicalBuckling) FinalDirectors() (start, end mgl64.Mat3) {
	return c.finalStartDirector, c.finalEndDirector
}

func (c *HelicalBuckling) ConstrainValues(r *rod.Rod, t float64) {
	if c.Phase(t) != Locked {
		return
	}
	last, lastElem := len(r.Position)-1, len(r.Directors)-1

	r.Position[0] = c.finalStartPosition
	r.Position[last] = c.finalEndPosition

	r.Directors[0] = c.finalStartDirector
	r.Directors[lastElem] = c.finalEndDirector
}

func (c *HelicalBuckling) ConstrainRates(r *rod.Rod, t float64) {
	last, lastElem := len(r.Velocity)-1, len(r.Omega)-1

	if c.Phase(t) == Locked {
		r.Velocity[0] = mgl64.Vec3{}
		r.Omega[0] = mgl64.Vec3{}
		r.Velocity[last] = mgl64.Vec3{}
		r.Omega[lastElem] = mgl64.Vec3{}
		return
	}

	r.Velocity[0] = c.shrinkVelocity
	r.Omega[0] = c.angularVelocity
	r.Velocity[last] = c.shrinkVelocity.Mul(-1)
	r.Omega[lastElem] = c.angularVelocity.Mul(-1)
}
