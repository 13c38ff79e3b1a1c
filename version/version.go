// Package version models engine version strings such as "2019.4.5p2".
//
// A version is major.minor.build followed by a release-type letter and a
// type number. Versions order by major, minor, build, type, then type number,
// with types ordered alpha < beta < china < final < patch < experimental.
package version

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidVersion is returned when a version string cannot be parsed.
	ErrInvalidVersion = errors.New("version: invalid version")

	// ErrInvalidType is returned for an unknown release-type letter.
	ErrInvalidType = errors.New("version: invalid version type")
)

// Type is the release type of a version.
type Type uint8

const (
	Alpha Type = iota
	Beta
	China
	Final
	Patch
	Experimental
)

var typeLetters = [...]byte{'a', 'b', 'c', 'f', 'p', 'x'}

// Letter returns the single-letter form used in version strings.
func (t Type) Letter() byte {
	if int(t) < len(typeLetters) {
		return typeLetters[t]
	}
	return '?'
}

// String returns the type name.
func (t Type) String() string {
	switch t {
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case China:
		return "china"
	case Final:
		return "final"
	case Patch:
		return "patch"
	case Experimental:
		return "experimental"
	default:
		return "unknown"
	}
}

// TypeFromLetter maps a version-string letter to its Type.
func TypeFromLetter(c byte) (Type, error) {
	for i, l := range typeLetters {
		if l == c {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidType, c)
}

// Version is a parsed engine version. The zero value is the unset version
// used for open range bounds.
type Version struct {
	Major      int
	Minor      int
	Build      int
	Type       Type
	TypeNumber int
}

// Parse parses "M", "M.m", "M.m.b" or "M.m.b<t><n>". Missing numeric parts
// are zero and a missing type suffix means "f1", so the suffix-less dump
// names of old engine versions parse to their full form.
func Parse(s string) (Version, error) {
	v := Version{Type: Final, TypeNumber: 1}
	rest := strings.TrimSpace(s)
	if rest == "" {
		return Version{}, fmt.Errorf("%w: empty", ErrInvalidVersion)
	}

	parts := []*int{&v.Major, &v.Minor, &v.Build}
	for i, dst := range parts {
		n, tail, ok := leadingInt(rest)
		if !ok {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		*dst = n
		rest = tail
		if rest == "" {
			return v, nil
		}
		if rest[0] == '.' && i < len(parts)-1 {
			rest = rest[1:]
			continue
		}
		break
	}

	t, err := TypeFromLetter(rest[0])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, s, err)
	}
	n, tail, ok := leadingInt(rest[1:])
	if !ok || tail != "" {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	v.Type = t
	v.TypeNumber = n
	return v, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func leadingInt(s string) (n int, rest string, ok bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, s, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, s, false
	}
	return n, s[i:], true
}

// String renders the full form, e.g. "2019.4.5p2".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d%c%d", v.Major, v.Minor, v.Build, v.Type.Letter(), v.TypeNumber)
}

// IsZero reports whether v is the unset version.
func (v Version) IsZero() bool {
	return v == Version{}
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to,
// or after o.
func (v Version) Compare(o Version) int {
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Build, o.Build); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Type, o.Type); c != 0 {
		return c
	}
	return cmp.Compare(v.TypeNumber, o.TypeNumber)
}

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

// DumpFileName returns the dump base name for v. Dumps of engine versions
// before 5.x are named without the two-character type suffix ("4.7.2").
func DumpFileName(v Version) string {
	s := v.String()
	if v.Major < 5 {
		return s[:len(s)-2]
	}
	return s
}
