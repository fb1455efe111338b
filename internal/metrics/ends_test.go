package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rodsim/internal/rod"
)

func testRod(t *testing.T) *rod.Rod {
	t.Helper()
	r, err := rod.NewStraight(4, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0}, 4)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestEndToEnd(t *testing.T) {
	r := testRod(t)
	m := NewEndToEnd()

	m.Observe(r, 0)
	r.Position[4] = mgl64.Vec3{0, 0, 2}
	m.Observe(r, 1)
	r.Position[4] = mgl64.Vec3{0, 0, 3}
	m.Observe(r, 2)

	if m.Value() != 3 {
		t.Errorf("expected last distance 3, got %f", m.Value())
	}
	if m.Min() != 2 {
		t.Errorf("expected min distance 2, got %f", m.Min())
	}

	m.Reset()
	if m.Value() != 0 || m.Min() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestEndTwist_CountsPastHalfTurn(t *testing.T) {
	r := testRod(t)
	m := NewEndTwist()
	axis := mgl64.Vec3{0, 0, 1}

	// counter-rotate the ends through one full relative turn
	steps := 40
	for i := 0; i <= steps; i++ {
		a := math.Pi * float64(i) / float64(steps)
		r.Directors[0] = rod.RotationMatrix(a, axis)
		r.Directors[3] = rod.RotationMatrix(-a, axis)
		m.Observe(r, float64(i))
	}

	if math.Abs(m.Value()-1) > 1e-9 {
		t.Errorf("expected 1 turn, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected zero after reset, got %f", m.Value())
	}
}

func TestEndTwist_InitialOffset(t *testing.T) {
	r := testRod(t)
	r.Directors[3] = rod.RotationMatrix(math.Pi/2, mgl64.Vec3{0, 0, 1})

	m := NewEndTwist()
	m.Observe(r, 0)
	if math.Abs(m.Value()-0.25) > 1e-12 {
		t.Errorf("expected quarter turn, got %f", m.Value())
	}
}

func TestMaxEndSpeed(t *testing.T) {
	r := testRod(t)
	m := NewMaxEndSpeed()

	r.Velocity[2] = mgl64.Vec3{100, 0, 0} // interior node is ignored
	r.Velocity[0] = mgl64.Vec3{0, 3, 4}
	m.Observe(r, 0)
	r.Velocity[0] = mgl64.Vec3{}
	r.Velocity[4] = mgl64.Vec3{0, 0, -2}
	m.Observe(r, 1)

	if m.Value() != 5 {
		t.Errorf("expected max speed 5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}
