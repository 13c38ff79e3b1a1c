package registry

import (
	"errors"
	"fmt"

	"oras.land/oras-go/v2/errdef"
)

var (
	// ErrNotFound is returned when nothing is tagged at the reference.
	ErrNotFound = errors.New("registry: not found")

	// ErrInvalidReference is returned when a reference string is malformed.
	ErrInvalidReference = errors.New("registry: invalid reference")

	// ErrInvalidManifest is returned when a manifest is not a package manifest.
	ErrInvalidManifest = errors.New("registry: invalid package manifest")

	// ErrMissingLayer is returned when the manifest has no package layer.
	ErrMissingLayer = errors.New("registry: missing package layer")

	// ErrDigestMismatch is returned when decompressed content does not match
	// its recorded digest.
	ErrDigestMismatch = errors.New("registry: digest mismatch")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errdef.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
