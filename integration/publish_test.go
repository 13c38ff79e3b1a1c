//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/classdata"
	"github.com/meigma/classdata/dump"
	"github.com/meigma/classdata/internal/codec"
	"github.com/meigma/classdata/registry"
	"github.com/meigma/classdata/source"
	"github.com/meigma/classdata/tpk"
)

func TestPublishAndFetch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	addr := getRegistry(t)
	client := newTestClient()

	repo := createDumpRepo(t, "2019.4.1f1", "2020.3.5f1")
	work := t.TempDir()
	ref := testRef(addr, "publish-fetch", "v1")

	p := classdata.New(source.Local{Path: repo},
		classdata.WithCldbDir(filepath.Join(work, "CldbDumps")),
		classdata.WithOutputDir(work),
		classdata.WithCompression(codec.LZMA),
		classdata.WithPublisher(client, ref),
	)
	res, err := p.Run(ctx)
	require.NoError(t, err, "Run")
	require.Len(t, res.Packages, 2)

	for _, pr := range res.Packages {
		require.NoError(t, pr.Err, pr.Flavor.String())
		require.NotNil(t, pr.Published, pr.Flavor.String())
		assert.NotEmpty(t, pr.Published.Digest)

		local, err := os.ReadFile(pr.Path)
		require.NoError(t, err)
		want, err := tpk.Decode(local)
		require.NoError(t, err)

		got, err := client.Fetch(ctx, ref, pr.Flavor)
		require.NoError(t, err, "Fetch %s", pr.Flavor)
		assert.Equal(t, want.Descriptor, got.Descriptor)
		assert.Equal(t, want.Files, got.Files)

		m, err := client.Inspect(ctx, ref, pr.Flavor)
		require.NoError(t, err, "Inspect %s", pr.Flavor)
		assert.Equal(t, pr.Flavor, m.Flavor())
		assert.Equal(t, 2, m.FileCount())
	}
}

func TestTagPublishedPackage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	addr := getRegistry(t)
	client := newTestClient()

	repo := createDumpRepo(t, "2021.3.2f1")
	work := t.TempDir()
	ref := testRef(addr, "tag", "v1")

	p := classdata.New(source.Local{Path: repo},
		classdata.WithCldbDir(filepath.Join(work, "CldbDumps")),
		classdata.WithOutputDir(work),
		classdata.WithFlavors(dump.BuildEditor),
		classdata.WithPublisher(client, ref),
	)
	_, err := p.Run(ctx)
	require.NoError(t, err)

	require.NoError(t, client.Tag(ctx, ref, dump.Editor, "stable"))
	pkg, err := client.Fetch(ctx, testRef(addr, "tag", "stable"), dump.Editor)
	require.NoError(t, err)
	require.Len(t, pkg.Files, 1)
	assert.Equal(t, "U2021.3.2f1", pkg.Files[0].Name)

	_, err = client.Fetch(ctx, ref, dump.Release)
	require.ErrorIs(t, err, registry.ErrNotFound)
}

func TestFetchMissing(t *testing.T) {
	t.Parallel()

	addr := getRegistry(t)
	_, err := newTestClient().Fetch(context.Background(), testRef(addr, "missing", "v1"), dump.Editor)
	require.ErrorIs(t, err, registry.ErrNotFound)
}
