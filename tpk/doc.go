// Package tpk aggregates per-version class databases into a single package
// file for one build flavor.
//
// A package is assembled from a directory of CLDB files:
//
//	a := tpk.NewAssembler(tpk.WithCompression(codec.LZMA))
//	pkg, err := a.Assemble("CldbDumps", dump.Editor)
//	if err != nil {
//		return err
//	}
//	if err := pkg.WriteFile("classdata_editor.tpk"); err != nil {
//		return err
//	}
//
// Consumers read it back with [ReadFile] and look up the database for an
// engine version with [Package.Match].
//
// # Layout
//
// All integers are little-endian.
//
//	"CLPK"            magic
//	u8                format version (1)
//	u8                compression descriptor
//	u32               name table offset, from the start of the file
//	u32               name table uncompressed length
//	u32               name table stored length
//	u32               file block size
//	u32               file count
//	{u32 u32 u32}     per file: offset into the file block, length, name offset
//	file block        concatenated CLDB records
//	name table        display names, NUL-terminated and sorted
package tpk
