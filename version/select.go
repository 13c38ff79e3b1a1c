package version

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Selector picks one canonical dump per version bucket.
//
// The zero value of Low or High leaves that side of the range open.
type Selector struct {
	// Low and High bound the accepted versions, inclusive.
	Low, High Version

	// Types is the set of release types to accept.
	Types TypeSet

	// Skip sets the bucket granularity.
	Skip Skip

	// Logger receives per-file diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Selection is one version chosen for conversion.
type Selection struct {
	// Version is the parsed version.
	Version Version

	// Name is the dump base name (without extension) to load for Version.
	Name string
}

// NameError reports a dump name that does not parse as a version.
type NameError struct {
	Name string
	Err  error
}

func (e *NameError) Error() string {
	return fmt.Sprintf("dump %s: %v", e.Name, e.Err)
}

func (e *NameError) Unwrap() error { return e.Err }

// Select parses names as versions, filters them by type and range, and keeps
// the highest version of each bucket. Names that do not parse are reported in
// the returned error slice as *NameError and otherwise ignored.
//
// The result is ordered by ascending version.
func (s *Selector) Select(names []string) ([]Selection, []error) {
	var errs []error
	best := make(map[string]Version)

	for _, name := range names {
		v, err := Parse(name)
		if err != nil {
			errs = append(errs, &NameError{Name: name, Err: err})
			continue
		}
		if !s.accepts(v) {
			s.log().Debug("version filtered", "version", v.String())
			continue
		}
		mask := Mask(v, s.Skip, false)
		if cur, ok := best[mask]; !ok || cur.Less(v) {
			best[mask] = v
		}
	}

	out := make([]Selection, 0, len(best))
	for _, v := range best {
		out = append(out, Selection{Version: v, Name: DumpFileName(v)})
	}
	slices.SortFunc(out, func(a, b Selection) int {
		return a.Version.Compare(b.Version)
	})
	return out, errs
}

func (s *Selector) accepts(v Version) bool {
	if !s.Types.Has(v.Type) {
		return false
	}
	if !s.Low.IsZero() && v.Less(s.Low) {
		return false
	}
	if !s.High.IsZero() && s.High.Less(v) {
		return false
	}
	return true
}

func (s *Selector) log() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// ParseRange parses a --version argument: a single version, "low-high", or
// "none" on either side for an open bound.
func ParseRange(s string) (low, high Version, err error) {
	lo, hi, isRange := strings.Cut(s, "-")
	if !isRange {
		if isNone(s) {
			return Version{}, Version{}, nil
		}
		v, err := Parse(s)
		if err != nil {
			return Version{}, Version{}, err
		}
		return v, v, nil
	}
	if !isNone(lo) {
		if low, err = Parse(lo); err != nil {
			return Version{}, Version{}, err
		}
	}
	if !isNone(hi) {
		if high, err = Parse(hi); err != nil {
			return Version{}, Version{}, err
		}
	}
	return low, high, nil
}

func isNone(s string) bool {
	return strings.EqualFold(s, "none")
}
