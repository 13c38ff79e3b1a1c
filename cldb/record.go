package cldb

import "github.com/meigma/classdata/internal/codec"

const (
	// Magic is the four-byte tag at the start of every CLDB file.
	Magic = "cldb"

	// FormatVersion is the CLDB format version written by this package.
	FormatVersion uint8 = 3

	// NoBaseClass is the base-class id of classes without a base.
	NoBaseClass int32 = -1
)

// FieldRecord is one flattened field-tree node.
type FieldRecord struct {
	TypeName  StringRef
	FieldName StringRef
	Depth     uint8
	TypeFlags uint8
	Size      int32
	Version   uint16
	MetaFlags uint32
}

// IsArray reports whether the field's type flags mark it as an array.
func (f FieldRecord) IsArray() bool {
	return f.TypeFlags&1 != 0
}

// ClassRecord is one class with its flattened fields in tree pre-order.
type ClassRecord struct {
	ClassID   int32
	BaseClass int32
	Name      StringRef
	Fields    []FieldRecord
}

// Database is a class database for one engine version and build flavor.
type Database struct {
	// FormatVersion is the CLDB format version (always 3 when built here).
	FormatVersion uint8

	// Flags is the header flags byte.
	Flags uint8

	// Compression is the body compression recorded in the header. Built
	// databases are uncompressed; decoded ones keep what the file used.
	Compression codec.Algorithm

	// Versions are the version match strings: a wildcard mask, then the
	// exact version.
	Versions []string

	// StringTable is the encoded string table referenced by table StringRefs.
	StringTable []byte

	// Classes are sorted by resolved name.
	Classes []ClassRecord
}
