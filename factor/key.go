package factor

import (
	"strconv"
	"unicode"

	"github.com/pkg/errors"
)

// Key identifies a variable in a factor graph.
type Key uint64

const (
	keyBits   = 64
	chrBits   = 8
	indexBits = keyBits - chrBits
	indexMask = Key(1)<<indexBits - 1
)

// Symbol packs a character and an index into a Key, so that pose 3 can be written Symbol('x', 3).
func Symbol(chr byte, index uint64) Key {
	return Key(chr)<<indexBits | Key(index)&indexMask
}

// Chr returns the character of a symbol key, or 0 for a plain integer key.
func (k Key) Chr() byte {
	return byte(k >> indexBits)
}

// Index returns the index of a symbol key.
func (k Key) Index() uint64 {
	return uint64(k & indexMask)
}

// KeyFormatter renders a key for printing.
type KeyFormatter func(Key) string

// DefaultKeyFormatter prints symbol keys as "x3" and other keys as plain integers.
func DefaultKeyFormatter(k Key) string {
	if c := rune(k.Chr()); c != 0 && unicode.IsLetter(c) {
		return string(c) + strconv.FormatUint(k.Index(), 10)
	}
	return strconv.FormatUint(uint64(k), 10)
}

// ParseSymbol is the inverse of DefaultKeyFormatter.
func ParseSymbol(s string) (Key, error) {
	if s == "" {
		return 0, errors.New("empty key")
	}
	if c := rune(s[0]); unicode.IsLetter(c) && c < unicode.MaxASCII {
		index, err := strconv.ParseUint(s[1:], 10, indexBits)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid key %q", s)
		}
		return Symbol(s[0], index), nil
	}
	raw, err := strconv.ParseUint(s, 10, keyBits)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid key %q", s)
	}
	return Key(raw), nil
}
