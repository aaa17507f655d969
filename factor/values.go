package factor

import (
	"slices"

	"github.com/samber/lo"
)

// Values assigns a value to each variable key. Values is not safe for concurrent mutation, but
// concurrent reads, as done during linearization, are fine.
type Values struct {
	values map[Key]interface{}
}

// NewValues returns an empty assignment.
func NewValues() *Values {
	return &Values{values: map[Key]interface{}{}}
}

// Insert adds a value for a new key.
func (v *Values) Insert(key Key, value interface{}) error {
	if _, ok := v.values[key]; ok {
		return NewKeyExistsError(key)
	}
	v.values[key] = value
	return nil
}

// Update replaces the value of an existing key.
func (v *Values) Update(key Key, value interface{}) error {
	if _, ok := v.values[key]; !ok {
		return NewKeyNotFoundError(key)
	}
	v.values[key] = value
	return nil
}

// Exists reports whether key has a value.
func (v *Values) Exists(key Key) bool {
	_, ok := v.values[key]
	return ok
}

// Len returns the number of assigned keys.
func (v *Values) Len() int {
	return len(v.values)
}

// Keys returns the assigned keys in increasing order.
func (v *Values) Keys() []Key {
	keys := lo.Keys(v.values)
	slices.Sort(keys)
	return keys
}

// At returns the value of key as a T.
func At[T any](v *Values, key Key) (T, error) {
	var zero T
	raw, ok := v.values[key]
	if !ok {
		return zero, NewKeyNotFoundError(key)
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, NewUnexpectedTypeError(zero, raw)
	}
	return typed, nil
}
