// Package source locates the type tree dump repository a conversion reads
// from: either a local checkout or a branch archive downloaded over HTTP.
package source

import (
	"context"
	"errors"
	"path/filepath"
)

// InfoJSONDir is the repository subdirectory holding one dump per version.
const InfoJSONDir = "InfoJson"

var (
	// ErrDownload is returned when the archive cannot be downloaded.
	ErrDownload = errors.New("source: download failed")

	// ErrUnsafePath is returned for archive entries that would extract
	// outside the destination directory.
	ErrUnsafePath = errors.New("source: unsafe path in archive")
)

// Fetcher returns the root directory of a dump repository.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Local is a dump repository already on disk.
type Local struct {
	Path string
}

// Fetch returns the configured path unchanged.
func (l Local) Fetch(context.Context) (string, error) {
	return l.Path, nil
}

// DumpDir returns the directory holding the version dumps of repo.
func DumpDir(repo string) string {
	return filepath.Join(repo, InfoJSONDir)
}
