package magfactor

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/magfactor/spatialmath"
)

// JacobianCheck compares an analytic Jacobian with a finite difference estimate.
type JacobianCheck struct {
	Analytic   *mat.Dense
	Numeric    *mat.Dense
	MaxAbsDiff float64
}

// CheckJacobian differentiates f numerically around pose along pose.Retract, using central
// differences with the given step (0 picks the fd default), and compares against EvaluateError.
func CheckJacobian[P spatialmath.RigidPose[P, R], R spatialmath.Rotation[R]](
	f *MagPoseFactor[P, R],
	pose P,
	step float64,
) (*JacobianCheck, error) {
	_, analytic, err := f.EvaluateError(pose, true)
	if err != nil {
		return nil, err
	}

	var evalErr error
	numeric := mat.NewDense(f.Dim(), pose.Dim(), nil)
	fd.Jacobian(numeric, func(y, x []float64) {
		if evalErr != nil {
			return
		}
		perturbed, err := pose.Retract(x)
		if err != nil {
			evalErr = err
			return
		}
		residual, _, err := f.EvaluateError(perturbed, false)
		if err != nil {
			evalErr = err
			return
		}
		copy(y, residual.RawVector().Data)
	}, make([]float64, pose.Dim()), &fd.JacobianSettings{Formula: fd.Central, Step: step})
	if evalErr != nil {
		return nil, evalErr
	}

	var diff mat.Dense
	diff.Sub(analytic, numeric)
	maxAbs := 0.
	rows, cols := diff.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			maxAbs = math.Max(maxAbs, math.Abs(diff.At(i, j)))
		}
	}
	return &JacobianCheck{Analytic: analytic, Numeric: numeric, MaxAbsDiff: maxAbs}, nil
}
