package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/opencontainers/go-digest"
	"github.com/opencontainers/image-spec/specs-go"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/errdef"

	"github.com/meigma/classdata/dump"
	"github.com/meigma/classdata/tpk"
)

// Push stores the encoded package data for flavor in target and tags the
// manifest with tag. It returns the manifest descriptor.
func Push(ctx context.Context, target oras.Target, tag string, flavor dump.Flavor, data []byte, opts ...PushOption) (ocispec.Descriptor, error) {
	cfg := pushConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if tag == "" {
		return ocispec.Descriptor{}, fmt.Errorf("%w: empty tag", ErrInvalidReference)
	}

	// Reject anything that would not read back.
	pkg, err := tpk.Decode(data)
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("push: %w", err)
	}

	// Step 1: empty config blob required by OCI manifests
	configDesc := ocispec.DescriptorEmptyJSON
	if err := pushIfMissing(ctx, target, configDesc, configDesc.Data); err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("push config: %w", err)
	}

	// Step 2: package layer
	layer, err := compressLayer(data)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	layerDesc := ocispec.Descriptor{
		MediaType: MediaTypeLayer,
		Digest:    digest.FromBytes(layer),
		Size:      int64(len(layer)),
		Annotations: map[string]string{
			ocispec.AnnotationTitle:      "classdata" + flavor.Suffix() + ".tpk",
			AnnotationFlavor:             flavor.String(),
			AnnotationUncompressedDigest: digest.FromBytes(data).String(),
			AnnotationFileCount:          strconv.Itoa(len(pkg.Files)),
		},
	}
	if err := pushIfMissing(ctx, target, layerDesc, layer); err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("push layer: %w", err)
	}

	// Step 3: manifest
	manifest := buildManifest(configDesc, layerDesc, flavor, cfg.annotations)
	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("marshal manifest: %w", err)
	}
	manifestDesc := ocispec.Descriptor{
		MediaType:    ocispec.MediaTypeImageManifest,
		ArtifactType: ArtifactType,
		Digest:       digest.FromBytes(manifestJSON),
		Size:         int64(len(manifestJSON)),
	}
	if err := pushIfMissing(ctx, target, manifestDesc, manifestJSON); err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("push manifest: %w", err)
	}

	// Step 4: tags
	for _, t := range append([]string{tag}, cfg.tags...) {
		if err := target.Tag(ctx, manifestDesc, t); err != nil {
			return ocispec.Descriptor{}, fmt.Errorf("tag %q: %w", t, mapError(err))
		}
	}
	return manifestDesc, nil
}

func pushIfMissing(ctx context.Context, target oras.Target, desc ocispec.Descriptor, data []byte) error {
	exists, err := target.Exists(ctx, desc)
	if err != nil {
		return mapError(err)
	}
	if exists {
		return nil
	}
	if err := target.Push(ctx, desc, bytes.NewReader(data)); err != nil && !errors.Is(err, errdef.ErrAlreadyExists) {
		return mapError(err)
	}
	return nil
}

func buildManifest(configDesc, layerDesc ocispec.Descriptor, flavor dump.Flavor, customAnnotations map[string]string) ocispec.Manifest {
	annotations := make(map[string]string)
	for k, v := range customAnnotations {
		annotations[k] = v
	}
	if _, ok := annotations[ocispec.AnnotationCreated]; !ok {
		annotations[ocispec.AnnotationCreated] = time.Now().UTC().Format(time.RFC3339)
	}
	annotations[AnnotationFlavor] = flavor.String()

	configDesc.Data = nil
	return ocispec.Manifest{
		Versioned:    specs.Versioned{SchemaVersion: 2},
		MediaType:    ocispec.MediaTypeImageManifest,
		ArtifactType: ArtifactType,
		Config:       configDesc,
		Layers:       []ocispec.Descriptor{layerDesc},
		Annotations:  annotations,
	}
}
