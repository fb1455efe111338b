package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rodsim/internal/rod"
)

// EndToEnd tracks the distance between the two rod ends. Value is the last
// observed distance; Min is the smallest seen.
type EndToEnd struct {
	name    string
	samples int
	last    float64
	min     float64
}

func NewEndToEnd() *EndToEnd {
	return &EndToEnd{name: "end_to_end"}
}

func (e *EndToEnd) Name() string { return e.name }

func (e *EndToEnd) Observe(r *rod.Rod, t float64) {
	d := r.EndToEnd()
	if e.samples == 0 || d < e.min {
		e.min = d
	}
	e.last = d
	e.samples++
}

func (e *EndToEnd) Value() float64 { return e.last }
func (e *EndToEnd) Min() float64   { return e.min }

func (e *EndToEnd) Reset() {
	e.samples = 0
	e.last = 0
	e.min = 0
}

// EndTwist accumulates the relative rotation between the first and last
// frame, step by step, so the total keeps counting past a half turn. The
// sense of rotation is not tracked: twisting back and forth adds up.
type EndTwist struct {
	name    string
	samples int
	prev    mgl64.Mat3
	total   float64
}

func NewEndTwist() *EndTwist {
	return &EndTwist{name: "end_twist"}
}

func (e *EndTwist) Name() string { return e.name }

func (e *EndTwist) Observe(r *rod.Rod, t float64) {
	_, first := r.Start()
	_, last := r.End()
	rel := last.Mul3(first.Transpose())
	if e.samples > 0 {
		e.total += rod.RelativeAngle(e.prev, rel)
	} else {
		e.total = rod.RelativeAngle(mgl64.Ident3(), rel)
	}
	e.prev = rel
	e.samples++
}

// Value is the accumulated twist in turns.
func (e *EndTwist) Value() float64 { return e.total / (2 * math.Pi) }

func (e *EndTwist) Reset() {
	e.samples = 0
	e.prev = mgl64.Mat3{}
	e.total = 0
}

// MaxEndSpeed is the largest linear speed observed at either end.
type MaxEndSpeed struct {
	name string
	max  float64
}

func NewMaxEndSpeed() *MaxEndSpeed {
	return &MaxEndSpeed{name: "max_end_speed"}
}

func (m *MaxEndSpeed) Name() string { return m.name }

func (m *MaxEndSpeed) Observe(r *rod.Rod, t float64) {
	m.max = math.Max(m.max, r.Velocity[0].Len())
	m.max = math.Max(m.max, r.Velocity[len(r.Velocity)-1].Len())
}

func (m *MaxEndSpeed) Value() float64 { return m.max }
func (m *MaxEndSpeed) Reset()         { m.max = 0 }
