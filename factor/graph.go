package factor

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"go.viam.com/magfactor/logging"
)

// Graph is an ordered collection of factors.
type Graph []Factor

// Add appends factors to the graph.
func (g *Graph) Add(factors ...Factor) {
	*g = append(*g, factors...)
}

// Error returns the total error 0.5 * sum |W_i * (h_i(x) - z_i)|^2.
func (g Graph) Error(values *Values) (float64, error) {
	total := 0.
	for _, f := range g {
		e, err := Error(f, values)
		if err != nil {
			return 0, err
		}
		total += e
	}
	return total, nil
}

// Linearize linearizes every factor at values in parallel. The result is in graph order. values must
// not be mutated until Linearize returns. A nil logger means the global logger.
func (g Graph) Linearize(ctx context.Context, values *Values, logger logging.Logger) ([]*JacobianFactor, error) {
	if logger == nil {
		logger = logging.Global()
	}
	out := make([]*JacobianFactor, len(g))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for i, f := range g {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			jf, err := Linearize(f, values)
			if err != nil {
				return errors.Wrapf(err, "linearizing factor %d", i)
			}
			out[i] = jf
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	logger.Debugw("linearized graph", "factors", len(g), "variables", values.Len())
	return out, nil
}
