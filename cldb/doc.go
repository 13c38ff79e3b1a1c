// Package cldb builds, encodes and decodes class databases (CLDB files).
//
// A class database holds the field layout of every runtime class of one
// engine version and build flavor. Class and field names are stored once in a
// sorted, NUL-terminated string table and referenced by byte offset.
//
// Building a database is deterministic: the same dump and flavor always
// encode to the same bytes.
//
//	b := cldb.NewBuilder(cldb.WithSkip(version.SkipMinor))
//	db, err := b.Build(d, dump.Editor)
//	if err != nil {
//	    return err
//	}
//	err = db.WriteFile("CldbDumps/2019.4.5p2_editor.dat")
package cldb
