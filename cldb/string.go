package cldb

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// StringRef is either an offset into a database's string table or an inline
// string. Names built from dumps always use the table form.
type StringRef struct {
	FromTable bool
	Offset    uint32
	Inline    string
}

// TableString returns a reference to the string table entry at off.
func TableString(off uint32) StringRef {
	return StringRef{FromTable: true, Offset: off}
}

// InlineString returns a reference that carries s itself.
func InlineString(s string) StringRef {
	return StringRef{Inline: s}
}

// Resolve returns the referenced string using table for the table form.
func (r StringRef) Resolve(table []byte) (string, error) {
	if !r.FromTable {
		return r.Inline, nil
	}
	return ReadTableString(table, r.Offset)
}

// ReadTableString returns the NUL-terminated Latin-1 string starting at off.
func ReadTableString(table []byte, off uint32) (string, error) {
	if uint64(off) >= uint64(len(table)) {
		return "", fmt.Errorf("%w: offset %d beyond table of %d bytes", ErrBadStringRef, off, len(table))
	}
	end := bytes.IndexByte(table[off:], 0)
	if end < 0 {
		return "", fmt.Errorf("%w: offset %d is not NUL-terminated", ErrBadStringRef, off)
	}
	return decodeLatin1(table[off : int(off)+end]), nil
}

// encodeLatin1 converts s to single-byte ISO 8859-1. NUL is rejected
// because table entries are NUL-terminated.
func encodeLatin1(s string) ([]byte, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, fmt.Errorf("%w: %q contains NUL", ErrInvalidString, s)
	}
	out, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not Latin-1: %v", ErrInvalidString, s, err)
	}
	return out, nil
}

func decodeLatin1(p []byte) string {
	// ISO 8859-1 maps every byte, so decoding cannot fail.
	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(p)
	return string(out)
}
