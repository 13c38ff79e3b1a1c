package classdata

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/classdata/dump"
	"github.com/meigma/classdata/internal/fsutil"
	"github.com/meigma/classdata/version"
)

// DigestSuffix is appended to a database path to name its digest sidecar.
const DigestSuffix = ".digest"

// sidecar returns the sidecar contents recording how a database was built.
func sidecar(src digest.Digest, flavor dump.Flavor, skip version.Skip) []byte {
	return fmt.Appendf(nil, "%s %s %s\n", src, flavor, skip)
}

// upToDate reports whether the database at path can be reused.
//
// Under SkipExists presence is enough. Under SkipDigest the sidecar must
// record src and the current build settings.
func (p *Pipeline) upToDate(path string, src digest.Digest, flavor dump.Flavor) (bool, error) {
	exists, err := fsutil.Exists(path)
	if err != nil || !exists {
		return false, err
	}
	if p.skipRule == SkipExists {
		return true, nil
	}
	got, err := os.ReadFile(path + DigestSuffix) //nolint:gosec // derived from the database path
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bytes.Equal(got, sidecar(src, flavor, p.selector.Skip)), nil
}

func (p *Pipeline) writeSidecar(path string, src digest.Digest, flavor dump.Flavor) error {
	if p.skipRule != SkipDigest {
		return nil
	}
	return fsutil.WriteFileAtomic(path+DigestSuffix, sidecar(src, flavor, p.selector.Skip), 0o644)
}
