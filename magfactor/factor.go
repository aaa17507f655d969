// Package magfactor implements a magnetometer measurement factor on 2D and 3D poses.
//
// The factor predicts the field seen by the sensor as bM = nRs^T * nM + bias, where nM is the
// local magnetic field in the navigation frame expressed in sensor units and nRs is the rotation
// of the sensor in the navigation frame. Field scale, field direction and bias are known
// constants; only the pose is estimated.
package magfactor

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/magfactor/factor"
	"go.viam.com/magfactor/spatialmath"
)

// MagPoseFactor constrains the rotation of a pose P with rotation type R given one magnetometer reading.
// A factor is immutable once built, so EvaluateError may run concurrently.
type MagPoseFactor[P spatialmath.RigidPose[P, R], R spatialmath.Rotation[R]] struct {
	factor.NoiseModelFactor

	measured    *mat.VecDense // magnetometer reading
	nM          *mat.VecDense // local field, scale * unit direction
	bias        *mat.VecDense // additive bias, in sensor units
	bodyPSensor *P            // sensor pose in the body frame; nil when the frames coincide
}

// MagPose2Factor is the planar factor: 2 measurement components, pose columns (x, y, theta).
type MagPose2Factor = MagPoseFactor[spatialmath.Pose2, spatialmath.Rot2]

// MagPose3Factor is the spatial factor: 3 measurement components, pose columns (omega, v).
type MagPose3Factor = MagPoseFactor[spatialmath.Pose3, spatialmath.Rot3]

// New returns a factor on poseKey.
//
// measured, direction and bias must have the length of the vectors R acts on. direction need not be
// unit length but must be non-zero; the stored field is scale * direction / |direction|. bodyPSensor
// may be nil. The noise model is shared, not copied.
func New[P spatialmath.RigidPose[P, R], R spatialmath.Rotation[R]](
	poseKey factor.Key,
	measured []float64,
	scale float64,
	direction, bias []float64,
	model factor.NoiseModel,
	bodyPSensor *P,
) (*MagPoseFactor[P, R], error) {
	var rot R
	dim := rot.AmbientDim()
	for _, v := range []struct {
		name string
		data []float64
	}{{"measured", measured}, {"direction", direction}, {"bias", bias}} {
		if err := checkVector(v.name, v.data, dim); err != nil {
			return nil, err
		}
	}
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, factor.NewInvalidArgumentError("scale must be finite, got %v", scale)
	}
	norm := floats.Norm(direction, 2)
	if norm == 0 {
		return nil, factor.NewInvalidArgumentError("direction must be non-zero")
	}
	if model == nil {
		return nil, factor.NewInvalidArgumentError("noise model is required")
	}
	if model.Dim() != dim {
		return nil, factor.NewInvalidArgumentError("noise model has dimension %d, expected %d", model.Dim(), dim)
	}

	unit := make([]float64, dim)
	floats.ScaleTo(unit, 1/norm, direction)
	nM := make([]float64, dim)
	floats.ScaleTo(nM, scale, unit)

	var mount *P
	if bodyPSensor != nil {
		m := *bodyPSensor
		mount = &m
	}
	return &MagPoseFactor[P, R]{
		NoiseModelFactor: factor.NewNoiseModelFactor(model, poseKey),
		measured:         mat.NewVecDense(dim, append([]float64(nil), measured...)),
		nM:               mat.NewVecDense(dim, nM),
		bias:             mat.NewVecDense(dim, append([]float64(nil), bias...)),
		bodyPSensor:      mount,
	}, nil
}

// NewPose2 is New for planar poses.
func NewPose2(
	poseKey factor.Key,
	measured []float64,
	scale float64,
	direction, bias []float64,
	model factor.NoiseModel,
	bodyPSensor *spatialmath.Pose2,
) (*MagPose2Factor, error) {
	return New[spatialmath.Pose2, spatialmath.Rot2](poseKey, measured, scale, direction, bias, model, bodyPSensor)
}

// NewPose3 is New for spatial poses.
func NewPose3(
	poseKey factor.Key,
	measured []float64,
	scale float64,
	direction, bias []float64,
	model factor.NoiseModel,
	bodyPSensor *spatialmath.Pose3,
) (*MagPose3Factor, error) {
	return New[spatialmath.Pose3, spatialmath.Rot3](poseKey, measured, scale, direction, bias, model, bodyPSensor)
}

func checkVector(name string, v []float64, dim int) error {
	if len(v) != dim {
		return factor.NewInvalidArgumentError("%s has length %d, expected %d", name, len(v), dim)
	}
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return factor.NewInvalidArgumentError("%s[%d] is not finite", name, i)
		}
	}
	return nil
}

// PoseKey returns the key of the pose variable.
func (f *MagPoseFactor[P, R]) PoseKey() factor.Key {
	return f.Keys()[0]
}

// Dim is the measurement dimension.
func (f *MagPoseFactor[P, R]) Dim() int {
	return f.measured.Len()
}

// Measured returns a copy of the magnetometer reading.
func (f *MagPoseFactor[P, R]) Measured() []float64 {
	return mat.Col(nil, 0, f.measured)
}

// NM returns a copy of the local field in sensor units.
func (f *MagPoseFactor[P, R]) NM() []float64 {
	return mat.Col(nil, 0, f.nM)
}

// Bias returns a copy of the bias.
func (f *MagPoseFactor[P, R]) Bias() []float64 {
	return mat.Col(nil, 0, f.bias)
}

// BodyPSensor returns the sensor mount, if any.
func (f *MagPoseFactor[P, R]) BodyPSensor() (P, bool) {
	if f.bodyPSensor == nil {
		var zero P
		return zero, false
	}
	return *f.bodyPSensor, true
}

// EvaluateError returns h(x) - z for the given pose and, when wantJacobian is set, the
// Dim x pose.Dim() derivative with respect to the pose's local coordinates. Only the rotation
// columns are non-zero. The sensor mount is a constant: its rotation enters the prediction
// and the chain rule through the composition, but it is never differentiated itself.
func (f *MagPoseFactor[P, R]) EvaluateError(pose P, wantJacobian bool) (*mat.VecDense, *mat.Dense, error) {
	// Rotation of the sensor in the nav frame.
	nRs := pose.Rotation()
	var dCompose *mat.Dense
	if f.bodyPSensor != nil {
		bRs := (*f.bodyPSensor).Rotation()
		if wantJacobian {
			dCompose = nRs.ComposeJacobian(bRs)
		}
		nRs = nRs.Compose(bRs)
	}

	measDim := f.measured.Len()
	if nRs.AmbientDim() != measDim {
		return nil, nil, factor.NewDimensionMismatchError("rotation ambient dimension", measDim, nRs.AmbientDim())
	}
	if f.nM.Len() != measDim {
		return nil, nil, factor.NewDimensionMismatchError("field", measDim, f.nM.Len())
	}
	if f.bias.Len() != measDim {
		return nil, nil, factor.NewDimensionMismatchError("bias", measDim, f.bias.Len())
	}
	rotDim, poseDim := nRs.Dim(), pose.Dim()
	rot0, rotLen := pose.RotationInterval()
	if rotDim <= 0 || rotLen != rotDim {
		return nil, nil, factor.NewDimensionMismatchError("rotation interval length", rotDim, rotLen)
	}
	if rot0 < 0 || rot0+rotDim > poseDim {
		return nil, nil, errors.Wrapf(factor.ErrDimensionMismatch,
			"rotation interval [%d, %d) outside pose dimension %d", rot0, rot0+rotDim, poseDim)
	}

	// Predict the field in the sensor frame.
	var hRot *mat.Dense
	if wantJacobian {
		hRot = mat.NewDense(measDim, rotDim, nil)
	}
	hx, err := nRs.Unrotate(f.nM, hRot)
	if err != nil {
		return nil, nil, errors.Wrapf(factor.ErrDimensionMismatch, "unrotating field: %v", err)
	}
	hx.AddVec(hx, f.bias)

	residual := mat.NewVecDense(measDim, nil)
	residual.SubVec(hx, f.measured)
	if !wantJacobian {
		return residual, nil, nil
	}

	if dCompose != nil {
		var chained mat.Dense
		chained.Mul(hRot, dCompose)
		hRot = &chained
	}
	h := mat.NewDense(measDim, poseDim, nil)
	h.Slice(0, measDim, rot0, rot0+rotDim).(*mat.Dense).Copy(hRot)
	return residual, h, nil
}

// Evaluate looks the pose up in values and calls EvaluateError.
func (f *MagPoseFactor[P, R]) Evaluate(values *factor.Values, wantJacobians bool) (*mat.VecDense, []*mat.Dense, error) {
	pose, err := factor.At[P](values, f.PoseKey())
	if err != nil {
		return nil, nil, err
	}
	residual, h, err := f.EvaluateError(pose, wantJacobians)
	if err != nil {
		return nil, nil, err
	}
	if !wantJacobians {
		return residual, nil, nil
	}
	return residual, []*mat.Dense{h}, nil
}

// Clone returns a deep copy sharing the noise model.
func (f *MagPoseFactor[P, R]) Clone() factor.Factor {
	clone := &MagPoseFactor[P, R]{
		NoiseModelFactor: f.CloneBase(),
		measured:         mat.VecDenseCopyOf(f.measured),
		nM:               mat.VecDenseCopyOf(f.nM),
		bias:             mat.VecDenseCopyOf(f.bias),
	}
	if f.bodyPSensor != nil {
		m := *f.bodyPSensor
		clone.bodyPSensor = &m
	}
	return clone
}

// Equals reports whether other is a factor of the same type on the same key whose noise model,
// vectors and mount match within tol.
func (f *MagPoseFactor[P, R]) Equals(other factor.Factor, tol float64) bool {
	o, ok := other.(*MagPoseFactor[P, R])
	if !ok || o == nil {
		return false
	}
	if !f.EqualsBase(&o.NoiseModelFactor, tol) ||
		!equalWithAbsTol(f.measured, o.measured, tol) ||
		!equalWithAbsTol(f.nM, o.nM, tol) ||
		!equalWithAbsTol(f.bias, o.bias, tol) {
		return false
	}
	switch {
	case f.bodyPSensor == nil || o.bodyPSensor == nil:
		return f.bodyPSensor == nil && o.bodyPSensor == nil
	default:
		return (*f.bodyPSensor).Equal(*o.bodyPSensor, tol)
	}
}

func equalWithAbsTol(a, b *mat.VecDense, tol float64) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !scalar.EqualWithinAbs(a.AtVec(i), b.AtVec(i), tol) {
			return false
		}
	}
	return true
}

// Describe prints the key, noise model and stored vectors.
func (f *MagPoseFactor[P, R]) Describe(prefix string, keyFormatter factor.KeyFormatter) string {
	var sb strings.Builder
	sb.WriteString(prefix + "MagPoseFactor\n")
	sb.WriteString(f.DescribeBase("  ", keyFormatter))
	fmt.Fprintf(&sb, "  measured: %v\n", f.Measured())
	fmt.Fprintf(&sb, "  nM: %v\n", f.NM())
	fmt.Fprintf(&sb, "  bias: %v\n", f.Bias())
	if f.bodyPSensor != nil {
		fmt.Fprintf(&sb, "  body_P_sensor: %v\n", *f.bodyPSensor)
	}
	return sb.String()
}

func (f *MagPoseFactor[P, R]) String() string {
	return f.Describe("", factor.DefaultKeyFormatter)
}
