package tpk

import (
	"fmt"
	"strings"

	"github.com/meigma/classdata/cldb"
	"github.com/meigma/classdata/version"
)

const (
	// Magic is the four-byte tag at the start of every package file.
	Magic = "CLPK"

	// FormatVersion is the package format version written by this package.
	FormatVersion uint8 = 1

	// NamePrefix is prepended to the version to form a file's display name.
	NamePrefix = "U"
)

// File is one embedded class database.
type File struct {
	// Name is the display name, NamePrefix followed by the version.
	Name string

	// Data is the encoded CLDB record as stored in the package.
	Data []byte
}

// Version returns the version portion of the display name.
func (f *File) Version() string {
	return strings.TrimPrefix(f.Name, NamePrefix)
}

// Database decodes the embedded record.
func (f *File) Database() (*cldb.Database, error) {
	db, err := cldb.Decode(f.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	return db, nil
}

// Package is a set of class databases for one build flavor.
type Package struct {
	Descriptor Descriptor
	Files      []File
}

// Match returns the embedded database for the engine version v.
//
// A database whose exact version string equals v wins. Otherwise the newest
// database whose wildcard mask matches v is returned.
func (p *Package) Match(v string) (*cldb.Database, error) {
	var (
		best    *cldb.Database
		bestVer version.Version
	)
	for i := range p.Files {
		db, err := p.Files[i].Database()
		if err != nil {
			return nil, err
		}
		for _, s := range db.Versions {
			if s == v {
				return db, nil
			}
		}
		if len(db.Versions) == 0 || !version.MatchMask(db.Versions[0], v) {
			continue
		}
		fv, err := version.Parse(p.Files[i].Version())
		if err != nil {
			continue
		}
		if best == nil || bestVer.Less(fv) {
			best, bestVer = db, fv
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, v)
	}
	return best, nil
}
