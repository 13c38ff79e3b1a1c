package dump

import (
	"fmt"
	"strings"
)

// Flavor selects editor or release field layouts.
type Flavor uint8

const (
	Release Flavor = iota
	Editor
)

// Flavors lists every flavor in build order.
var Flavors = []Flavor{Editor, Release}

// String returns "editor" or "release".
func (f Flavor) String() string {
	if f == Editor {
		return "editor"
	}
	return "release"
}

// Suffix is the file name suffix for databases of this flavor.
func (f Flavor) Suffix() string {
	return "_" + f.String()
}

// ParseFlavor maps "release" or "editor" to a Flavor.
func ParseFlavor(s string) (Flavor, error) {
	switch strings.ToLower(s) {
	case "release":
		return Release, nil
	case "editor":
		return Editor, nil
	default:
		return 0, fmt.Errorf("invalid flavor %q", s)
	}
}

// FlavorSet is a set of flavors to build.
type FlavorSet uint8

const (
	BuildRelease FlavorSet = 1 << Release
	BuildEditor  FlavorSet = 1 << Editor
	BuildBoth              = BuildRelease | BuildEditor
)

// Has reports whether f is in the set.
func (s FlavorSet) Has(f Flavor) bool {
	return s&(1<<f) != 0
}

// ParseFlavorSet maps "release", "editor" or "both" to a FlavorSet.
func ParseFlavorSet(s string) (FlavorSet, error) {
	switch strings.ToLower(s) {
	case "release":
		return BuildRelease, nil
	case "editor":
		return BuildEditor, nil
	case "both":
		return BuildBoth, nil
	default:
		return 0, fmt.Errorf("invalid build type %q", s)
	}
}
