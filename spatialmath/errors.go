package spatialmath

import "github.com/pkg/errors"

// NewVectorLengthError is used when a vector does not have the length an operation expects.
func NewVectorLengthError(expected, actual int) error {
	return errors.Errorf("expected vector of length %d but got %d", expected, actual)
}

// NewJacobianShapeError is used when a caller supplied Jacobian has the wrong shape.
func NewJacobianShapeError(rows, cols, actualRows, actualCols int) error {
	return errors.Errorf("expected %dx%d jacobian but got %dx%d", rows, cols, actualRows, actualCols)
}
