package factor

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// JacobianFactor is the whitened linearization of a factor: minimize |sum_i A_i dx_i - b|^2.
type JacobianFactor struct {
	Keys []Key
	A    []*mat.Dense
	B    *mat.VecDense
}

// Linearize evaluates f at values and whitens the result with its noise model.
func Linearize(f Factor, values *Values) (*JacobianFactor, error) {
	model := f.NoiseModel()
	if model == nil {
		return nil, NewInvalidArgumentError("factor has no noise model")
	}
	residual, jacobians, err := f.Evaluate(values, true)
	if err != nil {
		return nil, err
	}
	if residual.Len() != model.Dim() {
		return nil, NewDimensionMismatchError("residual", model.Dim(), residual.Len())
	}
	keys := f.Keys()
	if len(jacobians) != len(keys) {
		return nil, NewDimensionMismatchError("jacobian count", len(keys), len(jacobians))
	}

	jf := &JacobianFactor{Keys: keys, A: make([]*mat.Dense, len(jacobians))}
	for i, h := range jacobians {
		if rows, _ := h.Dims(); rows != residual.Len() {
			return nil, NewDimensionMismatchError("jacobian rows", residual.Len(), rows)
		}
		jf.A[i] = model.WhitenMatrix(h)
	}
	b := model.Whiten(residual)
	b.ScaleVec(-1, b)
	jf.B = b
	return jf, nil
}

// WhitenedError returns W * (h(x) - z).
func WhitenedError(f Factor, values *Values) (*mat.VecDense, error) {
	model := f.NoiseModel()
	if model == nil {
		return nil, NewInvalidArgumentError("factor has no noise model")
	}
	residual, _, err := f.Evaluate(values, false)
	if err != nil {
		return nil, err
	}
	if residual.Len() != model.Dim() {
		return nil, NewDimensionMismatchError("residual", model.Dim(), residual.Len())
	}
	return model.Whiten(residual), nil
}

// Error returns 0.5 * |W * (h(x) - z)|^2.
func Error(f Factor, values *Values) (float64, error) {
	w, err := WhitenedError(f, values)
	if err != nil {
		return 0, errors.Wrap(err, "evaluating factor")
	}
	return 0.5 * mat.Dot(w, w), nil
}
