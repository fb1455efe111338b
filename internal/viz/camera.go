package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is an orthographic view onto a region of the lab frame. Points are
// taken relative to Center, scaled so that Extent fills most of the smaller
// screen dimension, then rotated by yaw about y followed by pitch about x.
type Camera struct {
	Center     mgl64.Vec3
	Extent     float64
	Pitch, Yaw float64
	Zoom       float64
}

// NewCamera frames a segment from a to b. The default pitch turns the lab z
// axis upright on screen.
func NewCamera(a, b mgl64.Vec3) *Camera {
	extent := b.Sub(a).Len()
	if extent == 0 {
		extent = 1
	}
	return &Camera{
		Center: a.Add(b).Mul(0.5),
		Extent: extent,
		Pitch:  -math.Pi / 2,
		Yaw:    0.4,
		Zoom:   1,
	}
}

func (c *Camera) RotatePitch(a float64) { c.Pitch += a }
func (c *Camera) RotateYaw(a float64)   { c.Yaw += a }
func (c *Camera) ZoomIn()               { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()              { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) view() mgl64.Mat3 {
	return mgl64.Rotate3DX(c.Pitch).Mul3(mgl64.Rotate3DY(c.Yaw))
}

// Project maps p onto a screen of w x h dots. ok is false when the point
// falls outside the screen.
func (c *Camera) Project(p mgl64.Vec3, w, h int) (x, y int, ok bool) {
	q := c.view().Mul3x1(p.Sub(c.Center)).Mul(c.Zoom / c.Extent)
	s := 0.8 * float64(min(w, h))
	x = w/2 + int(math.Round(q.X()*s))
	y = h/2 - int(math.Round(q.Y()*s))
	return x, y, x >= 0 && x < w && y >= 0 && y < h
}
