// Package factor defines the contract between measurement factors and a nonlinear least-squares
// optimizer: keyed variables, noise models, raw error evaluation and whitened linearization.
package factor

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Factor is a single residual-producing term over a set of variables.
//
// Implementations must be immutable after construction so that Evaluate may be called
// concurrently on the same factor.
type Factor interface {
	// Keys lists the variables the factor depends on, in Jacobian order.
	Keys() []Key
	// Dim is the dimension of the residual.
	Dim() int
	NoiseModel() NoiseModel
	// Evaluate returns the unwhitened residual h(x) - z. When wantJacobians is true it also
	// returns one Jacobian per key.
	Evaluate(values *Values, wantJacobians bool) (*mat.VecDense, []*mat.Dense, error)
	// Clone returns an independent copy that shares the noise model.
	Clone() Factor
	Equals(other Factor, tol float64) bool
	Describe(prefix string, keyFormatter KeyFormatter) string
}

// NoiseModelFactor holds the state every noise-model factor shares. Embed it in concrete factors.
type NoiseModelFactor struct {
	model NoiseModel
	keys  []Key
}

// NewNoiseModelFactor returns the shared state for a factor on keys weighted by model.
func NewNoiseModelFactor(model NoiseModel, keys ...Key) NoiseModelFactor {
	return NoiseModelFactor{model: model, keys: append([]Key(nil), keys...)}
}

// Keys returns a copy of the factor's keys.
func (f *NoiseModelFactor) Keys() []Key {
	return append([]Key(nil), f.keys...)
}

// NoiseModel returns the shared noise model.
func (f *NoiseModelFactor) NoiseModel() NoiseModel {
	return f.model
}

// CloneBase copies the keys and shares the model.
func (f *NoiseModelFactor) CloneBase() NoiseModelFactor {
	return NewNoiseModelFactor(f.model, f.keys...)
}

// EqualsBase compares keys and noise models.
func (f *NoiseModelFactor) EqualsBase(other *NoiseModelFactor, tol float64) bool {
	if other == nil || len(f.keys) != len(other.keys) {
		return false
	}
	for i := range f.keys {
		if f.keys[i] != other.keys[i] {
			return false
		}
	}
	switch {
	case f.model == nil || other.model == nil:
		return f.model == other.model
	default:
		return f.model.Equals(other.model, tol)
	}
}

// DescribeBase prints the keys and the noise model.
func (f *NoiseModelFactor) DescribeBase(prefix string, keyFormatter KeyFormatter) string {
	if keyFormatter == nil {
		keyFormatter = DefaultKeyFormatter
	}
	names := make([]string, len(f.keys))
	for i, k := range f.keys {
		names[i] = keyFormatter(k)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%skeys = { %s }\n", prefix, strings.Join(names, " "))
	if f.model != nil {
		fmt.Fprintf(&sb, "  noise model: %s\n", f.model)
	}
	return sb.String()
}
