package dump

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode reads one dump from r.
func Decode(r io.Reader) (*VersionDump, error) {
	var d VersionDump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode dump: %w", err)
	}
	return &d, nil
}

// Load reads the dump at path.
func Load(path string) (*VersionDump, error) {
	f, err := os.Open(path) //nolint:gosec // caller-provided dump path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
