// Package rod holds the discretized state of a Cosserat rod.
//
// A rod with n elements carries n+1 nodes:
//
//   - [Rod.Position] and [Rod.Velocity]: one 3-vector per node
//   - [Rod.Directors] and [Rod.Omega]: one frame / angular velocity per element
//
// Each director is a 3x3 matrix whose rows are the material frame vectors
// (d1, d2, d3) expressed in the lab frame. Angular velocities are expressed
// in the material frame of their element.
//
// The package also provides [RotationMatrix], the frame rotation used by the
// steppers and boundary conditions.
//
// # Ownership
//
// A Rod is owned by the simulation driver. Boundary conditions and steppers
// borrow it for one call and must not retain it. Rod is NOT thread-safe.
package rod
