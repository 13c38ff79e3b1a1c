package tpk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/classdata/cldb"
	"github.com/meigma/classdata/dump"
	"github.com/meigma/classdata/internal/codec"
)

func TestAssembleOneRefPerFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDatabases(t, dir, "2019.4.5p2", "2020.3.1f1", "5.6.7f1")

	pkg, err := NewAssembler(WithSortedFiles(true)).Assemble(dir, dump.Editor)
	require.NoError(t, err)
	assert.Equal(t, []string{"U2019.4.5p2", "U2020.3.1f1", "U5.6.7f1"}, fileNames(pkg))
	assert.Equal(t, "2020.3.1f1", pkg.Files[1].Version())
}

func TestAssembleIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDatabases(t, dir, "2019.4.5p2", "2020.3.1f1")

	a := NewAssembler(WithCompression(codec.LZ4), WithSortedFiles(true))
	first, err := a.Assemble(dir, dump.Release)
	require.NoError(t, err)
	second, err := a.Assemble(dir, dump.Release)
	require.NoError(t, err)

	x, err := first.MarshalBinary()
	require.NoError(t, err)
	y, err := second.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, x, y)
	assert.Len(t, second.Files, 2)
}

func TestAssembleDirectoryOrderHasEveryFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDatabases(t, dir, "2019.4.5p2", "2020.3.1f1", "2021.1.0a1")

	pkg, err := NewAssembler().Assemble(dir, dump.Release)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"U2019.4.5p2", "U2020.3.1f1", "U2021.1.0a1"}, fileNames(pkg))
}

func TestAssembleFiltersByFlavor(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDatabases(t, dir, "2019.4.5p2")
	require.NoError(t, os.Remove(filepath.Join(dir, "2019.4.5p2_release.dat")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".2020.1.0f1_editor.dat-123"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2019.4.5p2_editor.dat.digest"), []byte("x"), 0o644))

	pkg, err := NewAssembler().Assemble(dir, dump.Editor)
	require.NoError(t, err)
	assert.Equal(t, []string{"U2019.4.5p2"}, fileNames(pkg))

	pkg, err = NewAssembler().Assemble(dir, dump.Release)
	require.NoError(t, err)
	assert.Empty(t, pkg.Files)
}

func TestAssembleBlobCompressionFollowsDescriptor(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDatabases(t, dir, "2019.4.5p2")

	for _, alg := range []codec.Algorithm{codec.None, codec.LZ4, codec.LZMA} {
		pkg, err := NewAssembler(WithCompression(alg)).Assemble(dir, dump.Editor)
		require.NoError(t, err)
		db, err := pkg.Files[0].Database()
		require.NoError(t, err)
		assert.Equal(t, alg, db.Compression)
		assert.Equal(t, []string{"2019.4.*", "2019.4.5p2"}, db.Versions)
	}
}

func TestAssembleCorruptDatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2019.4.5p2_editor.dat"), []byte("junk"), 0o644))

	_, err := NewAssembler().Assemble(dir, dump.Editor)
	require.ErrorIs(t, err, cldb.ErrInvalidHeader)
}

func TestAssembleMissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := NewAssembler().Assemble(filepath.Join(t.TempDir(), "missing"), dump.Editor)
	require.ErrorIs(t, err, os.ErrNotExist)
}
