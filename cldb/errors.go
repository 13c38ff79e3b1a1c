package cldb

import "errors"

var (
	// ErrUnknownBaseClass is returned when a class names a base class that
	// does not exist in the same dump.
	ErrUnknownBaseClass = errors.New("cldb: unknown base class")

	// ErrStringNotInTable is returned when a string is looked up in a string
	// table that was not built with it.
	ErrStringNotInTable = errors.New("cldb: string not in string table")

	// ErrInvalidString is returned for strings the format cannot store:
	// embedded NUL bytes or characters outside Latin-1.
	ErrInvalidString = errors.New("cldb: invalid string")

	// ErrBadStringRef is returned when a string reference does not point at
	// the start of a string table entry.
	ErrBadStringRef = errors.New("cldb: bad string reference")

	// ErrInvalidHeader is returned when data does not start with a valid
	// CLDB header.
	ErrInvalidHeader = errors.New("cldb: invalid header")

	// ErrTruncated is returned when a CLDB record ends early.
	ErrTruncated = errors.New("cldb: truncated data")

	// ErrTooLarge is returned when a database exceeds the format's 32-bit
	// size fields.
	ErrTooLarge = errors.New("cldb: database too large")

	// ErrClassNotFound is returned by lookups that match no class.
	ErrClassNotFound = errors.New("cldb: class not found")
)
