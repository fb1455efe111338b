package rod

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// vecNear compares entry-wise with an absolute tolerance, so rounding noise
// on a zero entry still passes.
func vecNear(a, b mgl64.Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func matNear(a, b mgl64.Mat3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
