package factor

import (
	"testing"

	"go.viam.com/test"
)

func TestSymbol(t *testing.T) {
	k := Symbol('x', 3)
	test.That(t, k.Chr(), test.ShouldEqual, byte('x'))
	test.That(t, k.Index(), test.ShouldEqual, uint64(3))
	test.That(t, DefaultKeyFormatter(k), test.ShouldEqual, "x3")
	test.That(t, Symbol('l', 1<<40).Index(), test.ShouldEqual, uint64(1<<40))
	test.That(t, DefaultKeyFormatter(Key(42)), test.ShouldEqual, "42")
	test.That(t, Symbol('a', 0), test.ShouldNotEqual, Symbol('b', 0))
}

func TestParseSymbol(t *testing.T) {
	for _, k := range []Key{Symbol('x', 0), Symbol('x', 17), Symbol('B', 123456), Key(7)} {
		parsed, err := ParseSymbol(DefaultKeyFormatter(k))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, parsed, test.ShouldEqual, k)
	}

	for _, bad := range []string{"", "x", "x-1", "xy", "1.5", "?3"} {
		_, err := ParseSymbol(bad)
		test.That(t, err, test.ShouldNotBeNil)
	}
}
