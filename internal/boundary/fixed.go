package boundary

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rodsim/internal/rod"
)

// OneEndFixed clamps the first node and the first element's frame.
type OneEndFixed struct {
	position mgl64.Vec3
	director mgl64.Mat3
}

func NewOneEndFixed(position mgl64.Vec3, director mgl64.Mat3) *OneEndFixed {
	return &OneEndFixed{position: position, director: director}
}

// NewOneEndFixedFromRod clamps the first end at its current pose.
func NewOneEndFixedFromRod(r *rod.Rod) *OneEndFixed {
	p, d := r.Start()
	return NewOneEndFixed(p, d)
}

func (c *OneEndFixed) Position() mgl64.Vec3 { return c.position }
func (c *OneEndFixed) Director() mgl64.Mat3 { return c.director }

func (c *OneEndFixed) ConstrainValues(r *rod.Rod, _ float64) {
	r.Position[0] = c.position
	r.Directors[0] = c.director
}

func (c *OneEndFixed) ConstrainRates(r *rod.Rod, _ float64) {
	r.Velocity[0] = mgl64.Vec3{}
	r.Omega[0] = mgl64.Vec3{}
}
