package registry

import (
	"context"
	"fmt"

	"github.com/opencontainers/go-digest"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"

	"github.com/meigma/classdata/tpk"
)

// Pull resolves tag in target and returns the package it holds.
func Pull(ctx context.Context, target oras.ReadOnlyTarget, tag string) (*tpk.Package, error) {
	manifest, err := Inspect(ctx, target, tag)
	if err != nil {
		return nil, err
	}
	layerDesc := manifest.Layer()
	layer, err := content.FetchAll(ctx, target, layerDesc)
	if err != nil {
		return nil, fmt.Errorf("fetch layer: %w", mapError(err))
	}
	data, err := decompressLayer(layer)
	if err != nil {
		return nil, err
	}
	if want := layerDesc.Annotations[AnnotationUncompressedDigest]; want != "" {
		if got := digest.FromBytes(data); got.String() != want {
			return nil, fmt.Errorf("%w: package is %s, manifest records %s", ErrDigestMismatch, got, want)
		}
	}
	return tpk.Decode(data)
}
