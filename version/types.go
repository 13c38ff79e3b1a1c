package version

import (
	"fmt"
	"strings"
)

// TypeSet is a set of release types.
type TypeSet uint8

// DefaultTypes selects final and patch releases.
const DefaultTypes = TypeSet(1<<Final | 1<<Patch)

// NewTypeSet returns a set holding types.
func NewTypeSet(types ...Type) TypeSet {
	var s TypeSet
	for _, t := range types {
		s |= 1 << t
	}
	return s
}

// Has reports whether t is in the set.
func (s TypeSet) Has(t Type) bool {
	return s&(1<<t) != 0
}

// String returns the letters of the set, e.g. "fp".
func (s TypeSet) String() string {
	var b strings.Builder
	for i := range typeLetters {
		if s.Has(Type(i)) {
			b.WriteByte(typeLetters[i])
		}
	}
	return b.String()
}

// ParseTypes parses a string of type letters such as "fp" or "abcfpx".
func ParseTypes(letters string) (TypeSet, error) {
	var s TypeSet
	for i := 0; i < len(letters); i++ {
		t, err := TypeFromLetter(strings.ToLower(letters[i : i+1])[0])
		if err != nil {
			return 0, fmt.Errorf("invalid version type %c: %w", letters[i], err)
		}
		s |= 1 << t
	}
	return s, nil
}
