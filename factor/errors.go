package factor

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned when a factor cannot be built from its inputs.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDimensionMismatch is returned when a value's layout disagrees with what a factor expects.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrKeyNotFound is returned when a key has no value.
	ErrKeyNotFound = errors.New("key not found")
	// ErrKeyExists is returned when inserting a key that already has a value.
	ErrKeyExists = errors.New("key already exists")
)

// NewInvalidArgumentError is used when construction input is malformed.
func NewInvalidArgumentError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// NewDimensionMismatchError is used when a dimension differs from the expected one.
func NewDimensionMismatchError(what string, expected, actual int) error {
	return errors.Wrapf(ErrDimensionMismatch, "%s: expected %d but got %d", what, expected, actual)
}

// NewKeyNotFoundError is used when a key is missing from Values.
func NewKeyNotFoundError(key Key) error {
	return errors.Wrapf(ErrKeyNotFound, "%s", DefaultKeyFormatter(key))
}

// NewKeyExistsError is used when a key is inserted twice.
func NewKeyExistsError(key Key) error {
	return errors.Wrapf(ErrKeyExists, "%s", DefaultKeyFormatter(key))
}

// NewUnexpectedTypeError is used when there is a type mismatch.
func NewUnexpectedTypeError(expected interface{}, actual interface{}) error {
	return errors.Errorf("expected %T but got %T", expected, actual)
}
