package cldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/classdata/dump"
	"github.com/meigma/classdata/internal/codec"
)

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	db, err := NewBuilder().Build(sampleDump(), dump.Editor)
	require.NoError(t, err)

	for _, alg := range []codec.Algorithm{codec.None, codec.LZ4, codec.LZMA} {
		t.Run(alg.String(), func(t *testing.T) {
			t.Parallel()

			data, err := db.Encode(alg)
			require.NoError(t, err)

			got, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, alg, got.Compression)
			assert.Equal(t, db.Versions, got.Versions)
			assert.Equal(t, db.StringTable, got.StringTable)
			assert.Equal(t, db.Classes, got.Classes)
			require.NoError(t, got.Validate())
		})
	}
}

func TestEncodeHeaderLayout(t *testing.T) {
	t.Parallel()

	db := &Database{
		FormatVersion: FormatVersion,
		Versions:      []string{"2019.4.*", "2019.4.5p2"},
		StringTable:   []byte("Object\x00"),
		Classes: []ClassRecord{
			{ClassID: 0, BaseClass: NoBaseClass, Name: TableString(0)},
		},
	}
	data, err := db.MarshalBinary()
	require.NoError(t, err)

	assert.Equal(t, "cldb", string(data[:4]))
	assert.Equal(t, byte(3), data[4])
	assert.Equal(t, byte(0), data[5], "flags")
	assert.Equal(t, byte(0), data[6], "compression")
	assert.Equal(t, make([]byte, 8), data[7:15], "sizes")
	assert.Equal(t, byte(2), data[15], "version count")
	assert.Equal(t, "2019.4.*", string(data[17:17+data[16]]))
	assert.Equal(t, []byte("Object\x00"), data[len(data)-7:])
}

func TestEncodeInlineStrings(t *testing.T) {
	t.Parallel()

	db := &Database{
		FormatVersion: FormatVersion,
		Versions:      []string{"2019.4.*", "2019.4.5p2"},
		StringTable:   []byte{},
		Classes: []ClassRecord{{
			ClassID:   114,
			BaseClass: NoBaseClass,
			Name:      InlineString("MonoBehaviour"),
			Fields: []FieldRecord{
				{TypeName: InlineString("int"), FieldName: InlineString("m_Enabled"), Size: 4, Version: 1},
			},
		}},
	}
	data, err := db.MarshalBinary()
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, db.Classes, got.Classes)
	assert.Equal(t, "MonoBehaviour", got.ClassName(&got.Classes[0]))
}

func TestDecodeRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("clpk\x03"))
	require.ErrorIs(t, err, ErrInvalidHeader)

	_, err = Decode([]byte("cldb\x02"))
	require.ErrorIs(t, err, ErrInvalidHeader)

	db, err := NewBuilder().Build(sampleDump(), dump.Release)
	require.NoError(t, err)
	data, err := db.MarshalBinary()
	require.NoError(t, err)

	_, err = Decode(data[:20])
	require.ErrorIs(t, err, ErrTruncated)

	_, err = Decode(data[:len(data)-3])
	require.ErrorIs(t, err, ErrTruncated)
}

func TestWriteReadFile(t *testing.T) {
	t.Parallel()

	db, err := NewBuilder().Build(sampleDump(), dump.Release)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "2019.4.5p2_release.dat")
	require.NoError(t, db.WriteFile(path))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, db.Classes, got.Classes)
	assert.Equal(t, db.StringTable, got.StringTable)
}

func TestValidateCatchesMisalignedRef(t *testing.T) {
	t.Parallel()

	db := &Database{
		StringTable: []byte("Base\x00int\x00"),
		Classes: []ClassRecord{{
			Name:   TableString(0),
			Fields: []FieldRecord{{TypeName: TableString(6), FieldName: TableString(0)}},
		}},
	}
	require.ErrorIs(t, db.Validate(), ErrBadStringRef)

	db.Classes[0].Fields[0].TypeName = TableString(5)
	require.NoError(t, db.Validate())
}

func TestClassByID(t *testing.T) {
	t.Parallel()

	db, err := NewBuilder().Build(sampleDump(), dump.Editor)
	require.NoError(t, err)

	c, err := db.ClassByID(54)
	require.NoError(t, err)
	assert.Equal(t, "Rigidbody", db.ClassName(c))

	_, err = db.ClassByID(9999)
	require.ErrorIs(t, err, ErrClassNotFound)

	_, err = db.FindClass("Camera")
	require.ErrorIs(t, err, ErrClassNotFound)
}
