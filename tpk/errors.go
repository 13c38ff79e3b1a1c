package tpk

import "errors"

var (
	// ErrInvalidHeader is returned when data does not start with a valid
	// package header.
	ErrInvalidHeader = errors.New("tpk: invalid header")

	// ErrTruncated is returned when a section extends past the end of the data.
	ErrTruncated = errors.New("tpk: truncated package")

	// ErrNotFound is returned when no embedded database matches a version.
	ErrNotFound = errors.New("tpk: no database for version")

	// ErrTooLarge is returned when a section does not fit the 32-bit fields.
	ErrTooLarge = errors.New("tpk: package too large")
)
