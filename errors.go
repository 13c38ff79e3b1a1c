package classdata

import (
	"errors"
	"fmt"

	"github.com/meigma/classdata/cldb"
	"github.com/meigma/classdata/registry"
	"github.com/meigma/classdata/tpk"
	"github.com/meigma/classdata/version"
)

// ErrDestinationNotEmpty is returned by Run when the database directory has
// entries and the exist behavior is ExistQuit.
var ErrDestinationNotEmpty = errors.New("classdata: database directory is not empty")

// Errors re-exported from version.
var (
	// ErrInvalidVersion is returned when a version string cannot be parsed.
	ErrInvalidVersion = version.ErrInvalidVersion
)

// Errors re-exported from cldb.
var (
	// ErrUnknownBaseClass is returned when a class names a base class that is
	// not in the dump.
	ErrUnknownBaseClass = cldb.ErrUnknownBaseClass

	// ErrInvalidString is returned for names that cannot be stored as Latin-1.
	ErrInvalidString = cldb.ErrInvalidString
)

// Errors re-exported from tpk.
var (
	// ErrInvalidPackage is returned when a package file cannot be decoded.
	ErrInvalidPackage = tpk.ErrInvalidHeader
)

// Errors re-exported from registry.
var (
	// ErrInvalidReference is returned when a publish reference is malformed.
	ErrInvalidReference = registry.ErrInvalidReference
)

// ConversionError reports a failure converting one dump. Run collects these
// instead of stopping.
type ConversionError struct {
	// File is the dump file being converted.
	File string

	// Err is the underlying failure.
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s: %v", e.File, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
