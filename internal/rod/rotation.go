package rod

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RotationMatrix returns the matrix that rotates a director frame by theta
// about axis: new = RotationMatrix(theta, axis) * old. Directors are stored
// row-wise, so the result is the transpose of the right-handed active
// rotation and axis is read in the material frame of old.
//
// axis does not need to be normalized. A zero axis yields the identity.
func RotationMatrix(theta float64, axis mgl64.Vec3) mgl64.Mat3 {
	l := axis.Len()
	if l == 0 {
		return mgl64.Ident3()
	}
	return mgl64.HomogRotate3D(theta, axis.Mul(1/l)).Mat3().Transpose()
}

// RelativeAngle returns the rotation angle in [0, π] that carries frame a onto
// frame b.
func RelativeAngle(a, b mgl64.Mat3) float64 {
	m := b.Mul3(a.Transpose())
	c := (m[0] + m[4] + m[8] - 1) / 2
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}
