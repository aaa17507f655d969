package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Rot3 is a rotation in SO(3) stored as a unit quaternion. The zero value is the identity.
// Local coordinates are the rotation vector omega of a right perturbation R * Exp(omega).
type Rot3 struct {
	q quat.Number
}

// NewRot3 returns the identity rotation.
func NewRot3() Rot3 {
	return Rot3{q: quat.Number{Real: 1}}
}

// NewRot3FromQuat returns the rotation described by q after normalization. A zero quaternion is the identity.
func NewRot3FromQuat(q quat.Number) Rot3 {
	norm := quat.Abs(q)
	if norm == 0 {
		return NewRot3()
	}
	return Rot3{q: quat.Scale(1/norm, q)}
}

// NewRot3FromR4AA returns the rotation described by an axis angle.
func NewRot3FromR4AA(aa *R4AA) (Rot3, error) {
	q, err := aa.ToQuat()
	if err != nil {
		return Rot3{}, err
	}
	return NewRot3FromQuat(q), nil
}

// Expmap returns Exp(omega), the rotation by |omega| radians about omega.
func Expmap(omega r3.Vector) Rot3 {
	theta := omega.Norm()
	if theta < 1e-10 {
		// first order, renormalized
		return NewRot3FromQuat(quat.Number{Real: 1, Imag: omega.X / 2, Jmag: omega.Y / 2, Kmag: omega.Z / 2})
	}
	half := theta / 2
	s := math.Sin(half) / theta
	return Rot3{q: quat.Number{Real: math.Cos(half), Imag: omega.X * s, Jmag: omega.Y * s, Kmag: omega.Z * s}}
}

// Logmap returns the rotation vector of r, with norm in [0, pi].
func (r Rot3) Logmap() r3.Vector {
	return QuatToR4AA(r.quaternion()).ToR3()
}

// Quaternion returns the unit quaternion of the rotation.
func (r Rot3) Quaternion() quat.Number {
	return r.quaternion()
}

// AxisAngles returns the rotation as an R4 axis angle.
func (r Rot3) AxisAngles() *R4AA {
	return QuatToR4AA(r.quaternion())
}

func (r Rot3) quaternion() quat.Number {
	if r.q == (quat.Number{}) {
		return quat.Number{Real: 1}
	}
	return r.q
}

// Compose returns r * other.
func (r Rot3) Compose(other Rot3) Rot3 {
	return Rot3{q: quat.Mul(r.quaternion(), other.quaternion())}
}

// ComposeJacobian returns the matrix of other^-1, since R * Exp(omega) * other = (R * other) * Exp(other^-1 * omega).
func (r Rot3) ComposeJacobian(other Rot3) *mat.Dense {
	return other.Inverse().Matrix()
}

// Matrix returns the 3x3 rotation matrix.
func (r Rot3) Matrix() *mat.Dense {
	m := mat.NewDense(3, 3, nil)
	for j, e := range []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}} {
		col := r.RotateR3(e)
		m.Set(0, j, col.X)
		m.Set(1, j, col.Y)
		m.Set(2, j, col.Z)
	}
	return m
}

// Inverse returns the inverse rotation.
func (r Rot3) Inverse() Rot3 {
	return Rot3{q: quat.Conj(r.quaternion())}
}

// Dim is 3.
func (r Rot3) Dim() int {
	return 3
}

// AmbientDim is 3.
func (r Rot3) AmbientDim() int {
	return 3
}

// RotateR3 returns R * v.
func (r Rot3) RotateR3(v r3.Vector) r3.Vector {
	q := r.quaternion()
	out := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: out.Imag, Y: out.Jmag, Z: out.Kmag}
}

// UnrotateR3 returns R^T * v.
func (r Rot3) UnrotateR3(v r3.Vector) r3.Vector {
	return r.Inverse().RotateR3(v)
}

// Rotate returns R * v.
func (r Rot3) Rotate(v mat.Vector) (*mat.VecDense, error) {
	p, err := vecToR3(v)
	if err != nil {
		return nil, err
	}
	return r3ToVec(r.RotateR3(p)), nil
}

// Unrotate returns q = R^T * v. Perturbing R by Exp(omega) gives Exp(-omega) * q, so the derivative
// with respect to omega is the skew symmetric matrix of q.
func (r Rot3) Unrotate(v mat.Vector, dRot *mat.Dense) (*mat.VecDense, error) {
	p, err := vecToR3(v)
	if err != nil {
		return nil, err
	}
	if dRot != nil {
		if rows, cols := dRot.Dims(); rows != 3 || cols != 3 {
			return nil, NewJacobianShapeError(3, 3, rows, cols)
		}
	}
	q := r.UnrotateR3(p)
	if dRot != nil {
		dRot.Copy(skew(q))
	}
	return r3ToVec(q), nil
}

// Equal reports whether both quaternions match within tol, up to sign.
func (r Rot3) Equal(other Rot3, tol float64) bool {
	return QuaternionAlmostEqual(r.quaternion(), other.quaternion(), tol)
}

// skew returns the matrix [w]x such that [w]x * u = w.Cross(u).
func skew(w r3.Vector) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, -w.Z, w.Y,
		w.Z, 0, -w.X,
		-w.Y, w.X, 0,
	})
}

func vecToR3(v mat.Vector) (r3.Vector, error) {
	if v.Len() != 3 {
		return r3.Vector{}, NewVectorLengthError(3, v.Len())
	}
	return r3.Vector{X: v.AtVec(0), Y: v.AtVec(1), Z: v.AtVec(2)}, nil
}

func r3ToVec(v r3.Vector) *mat.VecDense {
	return mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
}
