package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Rot2 is a planar rotation. The zero value is the identity.
type Rot2 struct {
	theta float64
}

// NewRot2 returns the planar rotation by theta radians.
func NewRot2(theta float64) Rot2 {
	return Rot2{theta: wrapAngle(theta)}
}

// Theta returns the rotation angle in (-pi, pi].
func (r Rot2) Theta() float64 {
	return wrapAngle(r.theta)
}

// Compose returns r * other.
func (r Rot2) Compose(other Rot2) Rot2 {
	return NewRot2(r.theta + other.theta)
}

// ComposeJacobian is [1]; planar rotations commute.
func (r Rot2) ComposeJacobian(other Rot2) *mat.Dense {
	return mat.NewDense(1, 1, []float64{1})
}

// Dim is 1; the local coordinate of a planar rotation is its angle increment.
func (r Rot2) Dim() int {
	return 1
}

// AmbientDim is 2.
func (r Rot2) AmbientDim() int {
	return 2
}

// Rotate returns R * v.
func (r Rot2) Rotate(v mat.Vector) (*mat.VecDense, error) {
	if v.Len() != 2 {
		return nil, NewVectorLengthError(2, v.Len())
	}
	c, s := math.Cos(r.theta), math.Sin(r.theta)
	x, y := v.AtVec(0), v.AtVec(1)
	return mat.NewVecDense(2, []float64{c*x - s*y, s*x + c*y}), nil
}

// Unrotate returns R^T * v. The derivative with respect to the angle is (q.y, -q.x) where q is the result.
func (r Rot2) Unrotate(v mat.Vector, dRot *mat.Dense) (*mat.VecDense, error) {
	if v.Len() != 2 {
		return nil, NewVectorLengthError(2, v.Len())
	}
	if dRot != nil {
		if rows, cols := dRot.Dims(); rows != 2 || cols != 1 {
			return nil, NewJacobianShapeError(2, 1, rows, cols)
		}
	}
	c, s := math.Cos(r.theta), math.Sin(r.theta)
	x, y := v.AtVec(0), v.AtVec(1)
	qx, qy := c*x+s*y, -s*x+c*y
	if dRot != nil {
		dRot.Set(0, 0, qy)
		dRot.Set(1, 0, -qx)
	}
	return mat.NewVecDense(2, []float64{qx, qy}), nil
}

// Equal reports whether the two rotations differ by at most tol radians.
func (r Rot2) Equal(other Rot2, tol float64) bool {
	return math.Abs(wrapAngle(r.theta-other.theta)) <= tol
}

// wrapAngle maps an angle into (-pi, pi].
func wrapAngle(theta float64) float64 {
	if theta > -math.Pi && theta <= math.Pi {
		return theta
	}
	wrapped := math.Remainder(theta, 2*math.Pi)
	if wrapped <= -math.Pi {
		wrapped += 2 * math.Pi
	}
	return wrapped
}
