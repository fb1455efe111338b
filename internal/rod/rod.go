package rod

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// parallelTol is the largest |normal x direction| treated as parallel.
const parallelTol = 1e-12

type Rod struct {
	Position  []mgl64.Vec3
	Velocity  []mgl64.Vec3
	Directors []mgl64.Mat3
	Omega     []mgl64.Vec3
}

// New allocates a rod with n elements at rest, all nodes at the origin and all
// directors set to the identity.
func New(n int) (*Rod, error) {
	if n <= 0 {
		return nil, ErrInvalidElements
	}
	r := &Rod{
		Position:  make([]mgl64.Vec3, n+1),
		Velocity:  make([]mgl64.Vec3, n+1),
		Directors: make([]mgl64.Mat3, n),
		Omega:     make([]mgl64.Vec3, n),
	}
	for i := range r.Directors {
		r.Directors[i] = mgl64.Ident3()
	}
	return r, nil
}

// NewStraight builds a straight rod of n elements starting at start and
// running length along direction. Every director has rows
// (normal, direction x normal, direction) after normalization; normal is
// projected onto the plane orthogonal to direction.
func NewStraight(n int, start, direction, normal mgl64.Vec3, length float64) (*Rod, error) {
	r, err := New(n)
	if err != nil {
		return nil, err
	}
	if length <= 0 || direction.Len() == 0 {
		return nil, ErrDegenerateAxis
	}
	d3 := direction.Normalize()
	d1 := normal.Sub(d3.Mul(normal.Dot(d3)))
	if d1.Len() < parallelTol {
		return nil, ErrDegenerateAxis
	}
	d1 = d1.Normalize()
	d2 := d3.Cross(d1)

	frame := mgl64.Mat3FromRows(d1, d2, d3)
	ds := length / float64(n)
	for i := range r.Position {
		r.Position[i] = start.Add(d3.Mul(ds * float64(i)))
	}
	for i := range r.Directors {
		r.Directors[i] = frame
	}
	return r, nil
}

func (r *Rod) NumElements() int { return len(r.Directors) }
func (r *Rod) NumNodes() int    { return len(r.Position) }

// Start returns the position and director of the first end.
func (r *Rod) Start() (mgl64.Vec3, mgl64.Mat3) {
	return r.Position[0], r.Directors[0]
}

// End returns the position and director of the last end.
func (r *Rod) End() (mgl64.Vec3, mgl64.Mat3) {
	return r.Position[len(r.Position)-1], r.Directors[len(r.Directors)-1]
}

// EndToEnd is the distance between the first and last node.
func (r *Rod) EndToEnd() float64 {
	return r.Position[len(r.Position)-1].Sub(r.Position[0]).Len()
}

func (r *Rod) Clone() *Rod {
	c := &Rod{
		Position:  make([]mgl64.Vec3, len(r.Position)),
		Velocity:  make([]mgl64.Vec3, len(r.Velocity)),
		Directors: make([]mgl64.Mat3, len(r.Directors)),
		Omega:     make([]mgl64.Vec3, len(r.Omega)),
	}
	copy(c.Position, r.Position)
	copy(c.Velocity, r.Velocity)
	copy(c.Directors, r.Directors)
	copy(c.Omega, r.Omega)
	return c
}

// IsValid reports whether every entry of every array is finite.
func (r *Rod) IsValid() bool {
	for _, vs := range [][]mgl64.Vec3{r.Position, r.Velocity, r.Omega} {
		for _, v := range vs {
			if !finite(v[:]) {
				return false
			}
		}
	}
	for _, m := range r.Directors {
		if !finite(m[:]) {
			return false
		}
	}
	return true
}

func finite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
