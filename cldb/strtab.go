package cldb

import (
	"fmt"
	"slices"

	"github.com/meigma/classdata/internal/sizing"
)

// StringSet collects the distinct strings of one database build.
type StringSet map[string]struct{}

// Add inserts s.
func (s StringSet) Add(str string) {
	s[str] = struct{}{}
}

// Sorted returns the members in ascending order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for str := range s {
		out = append(out, str)
	}
	slices.Sort(out)
	return out
}

// StringTable is a finalized string table: every string of a StringSet,
// sorted ascending, NUL-terminated and concatenated. Offsets are fixed once
// the table is built.
type StringTable struct {
	blob    []byte
	offsets map[string]uint32
}

// NewStringTable builds the table for set. Entry i starts at the sum of
// len+1 over entries 0..i-1.
func NewStringTable(set StringSet) (*StringTable, error) {
	sorted := set.Sorted()
	t := &StringTable{offsets: make(map[string]uint32, len(sorted))}

	for _, s := range sorted {
		enc, err := encodeLatin1(s)
		if err != nil {
			return nil, err
		}
		off, err := sizing.ToUint32(len(t.blob), ErrTooLarge)
		if err != nil {
			return nil, fmt.Errorf("string table: %w", err)
		}
		t.offsets[s] = off
		t.blob = append(t.blob, enc...)
		t.blob = append(t.blob, 0)
	}
	if _, err := sizing.ToUint32(len(t.blob), ErrTooLarge); err != nil {
		return nil, fmt.Errorf("string table: %w", err)
	}
	return t, nil
}

// Offset returns the offset of s. Asking for a string the table was not built
// with is a caller bug and reported as ErrStringNotInTable.
func (t *StringTable) Offset(s string) (uint32, error) {
	off, ok := t.offsets[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrStringNotInTable, s)
	}
	return off, nil
}

// Ref returns a table reference to s.
func (t *StringTable) Ref(s string) (StringRef, error) {
	off, err := t.Offset(s)
	if err != nil {
		return StringRef{}, err
	}
	return TableString(off), nil
}

// Bytes returns the encoded table.
func (t *StringTable) Bytes() []byte { return t.blob }

// Len returns the number of distinct strings.
func (t *StringTable) Len() int { return len(t.offsets) }

// Entries splits an encoded table into its strings and their offsets.
// It fails unless the table is a run of NUL-terminated entries.
func Entries(table []byte) (strs []string, offsets []uint32, err error) {
	start := 0
	for i, c := range table {
		if c != 0 {
			continue
		}
		strs = append(strs, decodeLatin1(table[start:i]))
		offsets = append(offsets, uint32(start)) //nolint:gosec // table length is bounded by uint32 on disk
		start = i + 1
	}
	if start != len(table) {
		return nil, nil, fmt.Errorf("%w: trailing %d bytes are not NUL-terminated", ErrBadStringRef, len(table)-start)
	}
	return strs, offsets, nil
}
