package version

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSkip is returned for an unknown skip granularity.
var ErrInvalidSkip = errors.New("version: invalid skip granularity")

// Skip controls how coarsely versions are bucketed.
type Skip uint8

const (
	// SkipMinor keeps one version per major.minor.
	SkipMinor Skip = iota
	// SkipType keeps one version per major.minor and release type.
	SkipType
	// SkipNone keeps every version.
	SkipNone
)

// String returns the flag spelling of s.
func (s Skip) String() string {
	switch s {
	case SkipMinor:
		return "minor"
	case SkipType:
		return "type"
	case SkipNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseSkip maps "minor", "type" or "none" to a Skip.
func ParseSkip(s string) (Skip, error) {
	switch strings.ToLower(s) {
	case "minor":
		return SkipMinor, nil
	case "type":
		return SkipType, nil
	case "none":
		return SkipNone, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSkip, s)
	}
}

// Mask returns the bucket key of v under skip. With wildcard set the mask
// carries a trailing "*" so it can be matched against full version strings.
func Mask(v Version, skip Skip, wildcard bool) string {
	switch skip {
	case SkipMinor:
		if wildcard {
			return fmt.Sprintf("%d.%d.*", v.Major, v.Minor)
		}
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	case SkipType:
		if wildcard {
			return fmt.Sprintf("%d.%d%c*", v.Major, v.Minor, v.Type.Letter())
		}
		return fmt.Sprintf("%d.%d%c", v.Major, v.Minor, v.Type.Letter())
	default:
		return v.String()
	}
}

// MatchMask reports whether the full version string s matches mask. A mask
// ending in "*" matches by prefix; any other mask must match exactly.
//
// Type masks such as "2019.4f*" place the type letter before the build
// number, so they are matched against the major.minor and type of s.
func MatchMask(mask, s string) bool {
	prefix, ok := strings.CutSuffix(mask, "*")
	if !ok {
		return mask == s
	}
	if strings.HasPrefix(s, prefix) {
		return true
	}
	v, err := Parse(s)
	if err != nil {
		return false
	}
	return Mask(v, SkipType, true) == mask
}
