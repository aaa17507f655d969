package factor

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestDiagonal(t *testing.T) {
	d, err := NewDiagonalSigmas(0.5, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d.Dim(), test.ShouldEqual, 2)
	test.That(t, d.Sigmas(), test.ShouldResemble, []float64{0.5, 2})
	test.That(t, d.String(), test.ShouldEqual, "diagonal sigmas [0.5 2]")

	w := d.Whiten(mat.NewVecDense(2, []float64{1, 1}))
	test.That(t, w.RawVector().Data, test.ShouldResemble, []float64{2, 0.5})

	m := d.WhitenMatrix(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 6, 8}))
	test.That(t, mat.Equal(m, mat.NewDense(2, 3, []float64{2, 4, 6, 2, 3, 4})), test.ShouldBeTrue)

	iso, err := NewIsotropic(2, 0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, iso.Equals(d, 1e-9), test.ShouldBeFalse)
	same, err := NewDiagonalSigmas(0.5, 2+1e-12)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, same.Equals(d, 1e-9), test.ShouldBeTrue)

	unit, err := NewUnit(3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, unit.Sigmas(), test.ShouldResemble, []float64{1, 1, 1})
	test.That(t, unit.Equals(d, 1), test.ShouldBeFalse)
}

func TestDiagonalInvalid(t *testing.T) {
	for _, sigmas := range [][]float64{nil, {0}, {1, -1}, {math.NaN()}, {math.Inf(1)}} {
		_, err := NewDiagonalSigmas(sigmas...)
		test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
	}
	_, err := NewIsotropic(0, 1)
	test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
}
