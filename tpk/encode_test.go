package tpk

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/classdata/dump"
	"github.com/meigma/classdata/internal/codec"
)

func TestPackageRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDatabases(t, dir, "2019.4.5p2", "2020.3.1f1", "4.7.2f1")

	for _, alg := range []codec.Algorithm{codec.None, codec.LZ4, codec.LZMA} {
		t.Run(alg.String(), func(t *testing.T) {
			t.Parallel()

			pkg, err := NewAssembler(WithCompression(alg), WithSortedFiles(true)).Assemble(dir, dump.Editor)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "classdata_editor.tpk")
			require.NoError(t, pkg.WriteFile(path))

			got, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, pkg.Descriptor, got.Descriptor)
			assert.Equal(t, pkg.Files, got.Files)
		})
	}
}

func TestEmptyPackageRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, alg := range []codec.Algorithm{codec.None, codec.LZ4, codec.LZMA} {
		pkg, err := NewAssembler(WithCompression(alg)).Assemble(dir, dump.Release)
		require.NoError(t, err, alg.String())
		require.Empty(t, pkg.Files)

		data, err := pkg.MarshalBinary()
		require.NoError(t, err, alg.String())
		assert.Equal(t, uint32(headerSize), binary.LittleEndian.Uint32(data[6:]), "name table follows the header")
		assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[22:]), "file count")

		got, err := Decode(data)
		require.NoError(t, err, alg.String())
		assert.Equal(t, NewDescriptor(alg), got.Descriptor)
		assert.Empty(t, got.Files)
	}
}

func TestPackageHeaderLayout(t *testing.T) {
	t.Parallel()

	pkg := &Package{
		Descriptor: NewDescriptor(codec.None),
		Files: []File{
			{Name: "U2020.1.0f1", Data: []byte("bbbb")},
			{Name: "U2019.4.5p2", Data: []byte("aa")},
		},
	}
	data, err := pkg.MarshalBinary()
	require.NoError(t, err)

	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(data[off:]) }
	assert.Equal(t, "CLPK", string(data[:4]))
	assert.Equal(t, byte(1), data[4])
	assert.Equal(t, byte(0xe0), data[5])

	names := "U2019.4.5p2\x00U2020.1.0f1\x00"
	nameOff := int(u32(6))
	assert.Equal(t, headerSize+2*refSize+6, nameOff)
	assert.Equal(t, uint32(len(names)), u32(10))
	assert.Equal(t, uint32(len(names)), u32(14))
	assert.Equal(t, uint32(6), u32(18))
	assert.Equal(t, uint32(2), u32(22))

	// First ref: offset 0, length 4, name at the second table entry.
	assert.Equal(t, []uint32{0, 4, 12}, []uint32{u32(26), u32(30), u32(34)})
	assert.Equal(t, []uint32{4, 2, 0}, []uint32{u32(38), u32(42), u32(46)})
	assert.Equal(t, "bbbbaa", string(data[50:56]))
	assert.Equal(t, names, string(data[nameOff:]))
}

func TestDecodeRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("cldb\x01\x80"))
	require.ErrorIs(t, err, ErrInvalidHeader)

	_, err = Decode([]byte("CLPK\x02\x80"))
	require.ErrorIs(t, err, ErrInvalidHeader)

	_, err = Decode([]byte("CLPK\x01\x80\x00"))
	require.ErrorIs(t, err, ErrTruncated)

	pkg := &Package{
		Descriptor: NewDescriptor(codec.LZ4),
		Files:      []File{{Name: "U2019.4.5p2", Data: []byte("abc")}},
	}
	data, err := pkg.MarshalBinary()
	require.NoError(t, err)

	_, err = Decode(data[:len(data)-1])
	require.ErrorIs(t, err, ErrTruncated)

	bad := append([]byte(nil), data...)
	bad[5] = 0x03
	_, err = Decode(bad)
	require.ErrorIs(t, err, ErrInvalidHeader)
}

func TestMarshalRejectsInvalidDescriptor(t *testing.T) {
	t.Parallel()

	_, err := (&Package{Descriptor: 0x02}).MarshalBinary()
	require.ErrorIs(t, err, ErrInvalidHeader)
}
