package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"

	"github.com/meigma/classdata/dump"
)

// PackageManifest wraps the OCI manifest of a published package.
type PackageManifest struct {
	raw     ocispec.Manifest
	desc    ocispec.Descriptor
	layer   ocispec.Descriptor
	flavor  dump.Flavor
	files   int
	created time.Time
}

// Descriptor returns the manifest descriptor.
func (m *PackageManifest) Descriptor() ocispec.Descriptor {
	return m.desc
}

// Digest returns the manifest digest.
func (m *PackageManifest) Digest() string {
	return m.desc.Digest.String()
}

// Layer returns the descriptor of the package layer.
func (m *PackageManifest) Layer() ocispec.Descriptor {
	return m.layer
}

// Flavor returns the build flavor recorded in the manifest.
func (m *PackageManifest) Flavor() dump.Flavor {
	return m.flavor
}

// FileCount returns the number of embedded databases recorded on the layer,
// or -1 when the annotation is absent.
func (m *PackageManifest) FileCount() int {
	return m.files
}

// Annotations returns the manifest annotations.
func (m *PackageManifest) Annotations() map[string]string {
	return m.raw.Annotations
}

// Created returns the creation timestamp from annotations.
//
// Returns zero time if the annotation is not present or cannot be parsed.
func (m *PackageManifest) Created() time.Time {
	return m.created
}

// Raw returns the underlying OCI manifest.
func (m *PackageManifest) Raw() ocispec.Manifest {
	return m.raw
}

// Inspect resolves tag in target and returns its package manifest without
// downloading the package layer.
func Inspect(ctx context.Context, target oras.ReadOnlyTarget, tag string) (*PackageManifest, error) {
	desc, err := target.Resolve(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", tag, mapError(err))
	}
	if desc.MediaType != ocispec.MediaTypeImageManifest {
		return nil, fmt.Errorf("%w: unsupported media type %s", ErrInvalidManifest, desc.MediaType)
	}
	raw, err := content.FetchAll(ctx, target, desc)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", mapError(err))
	}
	var manifest ocispec.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return parseManifest(&manifest, desc)
}

func parseManifest(manifest *ocispec.Manifest, desc ocispec.Descriptor) (*PackageManifest, error) {
	if manifest.ArtifactType != ArtifactType {
		return nil, fmt.Errorf("%w: artifact type %q", ErrInvalidManifest, manifest.ArtifactType)
	}

	var layer ocispec.Descriptor
	found := false
	for _, l := range manifest.Layers {
		if l.MediaType != MediaTypeLayer {
			continue
		}
		if found {
			return nil, fmt.Errorf("%w: multiple package layers", ErrInvalidManifest)
		}
		layer, found = l, true
	}
	if !found {
		return nil, ErrMissingLayer
	}

	m := &PackageManifest{raw: *manifest, desc: desc, layer: layer, files: -1}
	if name := manifest.Annotations[AnnotationFlavor]; name != "" {
		f, err := dump.ParseFlavor(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
		m.flavor = f
	}
	if n, err := strconv.Atoi(layer.Annotations[AnnotationFileCount]); err == nil {
		m.files = n
	}
	if ts, ok := manifest.Annotations[ocispec.AnnotationCreated]; ok {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			m.created = t
		}
	}
	return m, nil
}
