package factor

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/magfactor/logging"
)

// priorFactor pulls a scalar variable towards a target: r = x - target, H = [1].
type priorFactor struct {
	NoiseModelFactor
	target float64
}

func newPriorFactor(t *testing.T, key Key, target, sigma float64) *priorFactor {
	t.Helper()
	model, err := NewIsotropic(1, sigma)
	test.That(t, err, test.ShouldBeNil)
	return &priorFactor{NoiseModelFactor: NewNoiseModelFactor(model, key), target: target}
}

func (f *priorFactor) Dim() int {
	return 1
}

func (f *priorFactor) Evaluate(values *Values, wantJacobians bool) (*mat.VecDense, []*mat.Dense, error) {
	x, err := At[float64](values, f.keys[0])
	if err != nil {
		return nil, nil, err
	}
	residual := mat.NewVecDense(1, []float64{x - f.target})
	if !wantJacobians {
		return residual, nil, nil
	}
	return residual, []*mat.Dense{mat.NewDense(1, 1, []float64{1})}, nil
}

func (f *priorFactor) Clone() Factor {
	return &priorFactor{NoiseModelFactor: f.CloneBase(), target: f.target}
}

func (f *priorFactor) Equals(other Factor, tol float64) bool {
	o, ok := other.(*priorFactor)
	return ok && f.EqualsBase(&o.NoiseModelFactor, tol) && f.target == o.target
}

func (f *priorFactor) Describe(prefix string, keyFormatter KeyFormatter) string {
	return prefix + "prior\n" + f.DescribeBase("  ", keyFormatter)
}

func TestLinearize(t *testing.T) {
	f := newPriorFactor(t, Symbol('x', 1), 1, 0.5)
	values := NewValues()
	test.That(t, values.Insert(Symbol('x', 1), 4.), test.ShouldBeNil)

	jf, err := Linearize(f, values)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, jf.Keys, test.ShouldResemble, []Key{Symbol('x', 1)})
	test.That(t, jf.A[0].At(0, 0), test.ShouldEqual, 2.)
	test.That(t, jf.B.AtVec(0), test.ShouldEqual, -6.)

	w, err := WhitenedError(f, values)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, w.AtVec(0), test.ShouldEqual, 6.)

	e, err := Error(f, values)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, e, test.ShouldEqual, 18.)

	_, err = Error(f, NewValues())
	test.That(t, errors.Is(err, ErrKeyNotFound), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "evaluating factor")

	noModel := &priorFactor{NoiseModelFactor: NewNoiseModelFactor(nil, Symbol('x', 1))}
	_, err = Linearize(noModel, values)
	test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
}

func TestFactorBase(t *testing.T) {
	f := newPriorFactor(t, Symbol('x', 1), 1, 0.5)
	clone := f.Clone()
	test.That(t, clone.Equals(f, 0), test.ShouldBeTrue)
	test.That(t, clone.NoiseModel(), test.ShouldEqual, f.NoiseModel())
	test.That(t, newPriorFactor(t, Symbol('x', 2), 1, 0.5).Equals(f, 0), test.ShouldBeFalse)
	test.That(t, newPriorFactor(t, Symbol('x', 1), 1, 0.6).Equals(f, 1e-3), test.ShouldBeFalse)

	keys := f.Keys()
	keys[0] = Symbol('y', 0)
	test.That(t, f.Keys()[0], test.ShouldEqual, Symbol('x', 1))

	test.That(t, f.Describe("", nil), test.ShouldEqual,
		"prior\n  keys = { x1 }\n  noise model: diagonal sigmas [0.5]\n")
}

func TestGraph(t *testing.T) {
	var graph Graph
	values := NewValues()
	for i := 0; i < 50; i++ {
		key := Symbol('x', uint64(i))
		test.That(t, values.Insert(key, float64(i)), test.ShouldBeNil)
		graph.Add(newPriorFactor(t, key, float64(i)-1, 1))
	}
	test.That(t, graph, test.ShouldHaveLength, 50)

	total, err := graph.Error(values)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, total, test.ShouldEqual, 25.)

	logger, logs := logging.NewObservedTestLogger(t)
	linear, err := graph.Linearize(context.Background(), values, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, linear, test.ShouldHaveLength, 50)
	for i, jf := range linear {
		test.That(t, jf.Keys, test.ShouldResemble, []Key{Symbol('x', uint64(i))})
		test.That(t, jf.B.AtVec(0), test.ShouldEqual, -1.)
	}
	entries := logs.FilterMessage("linearized graph").All()
	test.That(t, entries, test.ShouldHaveLength, 1)
	test.That(t, entries[0].Level, test.ShouldEqual, zapcore.DebugLevel)
	test.That(t, entries[0].ContextMap()["factors"], test.ShouldEqual, int64(50))
}

func TestGraphErrors(t *testing.T) {
	graph := Graph{newPriorFactor(t, Symbol('x', 0), 0, 1), newPriorFactor(t, Symbol('x', 1), 0, 1)}
	values := NewValues()
	test.That(t, values.Insert(Symbol('x', 0), 1.), test.ShouldBeNil)

	_, err := graph.Linearize(context.Background(), values, logging.NewTestLogger(t))
	test.That(t, errors.Is(err, ErrKeyNotFound), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "linearizing factor 1")

	_, err = graph.Error(values)
	test.That(t, errors.Is(err, ErrKeyNotFound), test.ShouldBeTrue)

	test.That(t, values.Insert(Symbol('x', 1), 1.), test.ShouldBeNil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = graph.Linearize(ctx, values, logging.NewBlankLogger("test"))
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
}

func TestGraphLinearizeGlobalLogger(t *testing.T) {
	prev := logging.Global()
	defer logging.ReplaceGlobal(prev)
	logger, logs := logging.NewObservedTestLogger(t)
	logging.ReplaceGlobal(logger)

	values := NewValues()
	test.That(t, values.Insert(Symbol('x', 0), 2.), test.ShouldBeNil)
	linear, err := Graph{newPriorFactor(t, Symbol('x', 0), 0, 1)}.Linearize(context.Background(), values, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, linear, test.ShouldHaveLength, 1)
	test.That(t, logs.FilterMessage("linearized graph").Len(), test.ShouldEqual, 1)
}
