package factor

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NoiseModel turns a raw residual and its Jacobians into their whitened form. Factors treat
// the model as read-only, so a single model may be shared by any number of factors.
type NoiseModel interface {
	Dim() int
	// Whiten returns W * v.
	Whiten(v mat.Vector) *mat.VecDense
	// WhitenMatrix returns W * m.
	WhitenMatrix(m mat.Matrix) *mat.Dense
	Equals(other NoiseModel, tol float64) bool
	String() string
}

// Diagonal is a zero-mean Gaussian with independent components, W = diag(1/sigma).
type Diagonal struct {
	sigmas    []float64
	invSigmas []float64
}

// NewDiagonalSigmas returns a diagonal model with the given standard deviations.
func NewDiagonalSigmas(sigmas ...float64) (*Diagonal, error) {
	if len(sigmas) == 0 {
		return nil, NewInvalidArgumentError("noise model needs at least one sigma")
	}
	d := &Diagonal{
		sigmas:    make([]float64, len(sigmas)),
		invSigmas: make([]float64, len(sigmas)),
	}
	for i, s := range sigmas {
		if s <= 0 || math.IsInf(s, 0) || math.IsNaN(s) {
			return nil, NewInvalidArgumentError("sigma %d must be positive and finite, got %v", i, s)
		}
		d.sigmas[i] = s
		d.invSigmas[i] = 1 / s
	}
	return d, nil
}

// NewIsotropic returns a diagonal model with the same sigma on every component.
func NewIsotropic(dim int, sigma float64) (*Diagonal, error) {
	if dim <= 0 {
		return nil, NewInvalidArgumentError("noise model dimension must be positive, got %d", dim)
	}
	sigmas := make([]float64, dim)
	for i := range sigmas {
		sigmas[i] = sigma
	}
	return NewDiagonalSigmas(sigmas...)
}

// NewUnit returns the identity whitening model.
func NewUnit(dim int) (*Diagonal, error) {
	return NewIsotropic(dim, 1)
}

// Dim returns the number of components.
func (d *Diagonal) Dim() int {
	return len(d.sigmas)
}

// Sigmas returns a copy of the standard deviations.
func (d *Diagonal) Sigmas() []float64 {
	return append([]float64(nil), d.sigmas...)
}

// Whiten scales each component by 1/sigma.
func (d *Diagonal) Whiten(v mat.Vector) *mat.VecDense {
	out := mat.NewVecDense(v.Len(), nil)
	for i := 0; i < v.Len(); i++ {
		out.SetVec(i, v.AtVec(i)*d.invSigmas[i])
	}
	return out
}

// WhitenMatrix scales each row by 1/sigma.
func (d *Diagonal) WhitenMatrix(m mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Mul(mat.NewDiagDense(len(d.invSigmas), d.invSigmas), m)
	return &out
}

// Equals reports whether other is a Diagonal with the same sigmas within tol.
func (d *Diagonal) Equals(other NoiseModel, tol float64) bool {
	o, ok := other.(*Diagonal)
	if !ok || len(o.sigmas) != len(d.sigmas) {
		return false
	}
	return floats.EqualApprox(d.sigmas, o.sigmas, tol)
}

func (d *Diagonal) String() string {
	parts := make([]string, len(d.sigmas))
	for i, s := range d.sigmas {
		parts[i] = fmt.Sprintf("%g", s)
	}
	return "diagonal sigmas [" + strings.Join(parts, " ") + "]"
}
