// Package spatialmath defines the rotation and pose manifolds used by measurement factors,
// along with the small set of operations those factors need: composition, rotating and
// unrotating vectors with analytic derivatives, and retraction from local coordinates.
package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Rotation is the set of operations a rotation group element must provide. R is the concrete
// rotation type, so that Compose stays closed over it.
type Rotation[R any] interface {
	// Compose returns the rotation r * other.
	Compose(other R) R
	// ComposeJacobian is the Dim x Dim derivative of the local coordinates of r * other with
	// respect to the local coordinates of r, holding other constant.
	ComposeJacobian(other R) *mat.Dense
	// Unrotate applies the inverse rotation to v. If dRot is non-nil it must be
	// AmbientDim x Dim and receives the derivative of the output with respect to the
	// rotation's local coordinates.
	Unrotate(v mat.Vector, dRot *mat.Dense) (*mat.VecDense, error)
	// Dim is the dimension of the local (tangent) coordinates.
	Dim() int
	// AmbientDim is the dimension of the vectors the rotation acts on.
	AmbientDim() int
	Equal(other R, tol float64) bool
}

// RigidPose is a rigid transform made of a rotation R and a translation.
type RigidPose[P any, R Rotation[R]] interface {
	Rotation() R
	// Dim is the dimension of the pose's local coordinates.
	Dim() int
	// RotationInterval returns the offset and length of the rotation block inside the
	// pose's local coordinates.
	RotationInterval() (offset, length int)
	// Retract maps local coordinates around the pose back onto the manifold.
	Retract(delta []float64) (P, error)
	Equal(other P, tol float64) bool
}

// QuaternionAlmostEqual is an equality test for all the float components of a quaternion. Quaternions have double coverage,
// q and -q describe the same rotation, so both signs are tried.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	return quatWithin(a, b, tol) || quatWithin(a, quat.Scale(-1, b), tol)
}

func quatWithin(a, b quat.Number, tol float64) bool {
	return math.Abs(a.Real-b.Real) <= tol &&
		math.Abs(a.Imag-b.Imag) <= tol &&
		math.Abs(a.Jmag-b.Jmag) <= tol &&
		math.Abs(a.Kmag-b.Kmag) <= tol
}
