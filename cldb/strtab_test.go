package cldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringTableLayout(t *testing.T) {
	t.Parallel()

	set := make(StringSet)
	for _, s := range []string{"m_Name", "GameObject", "int", "GameObject", "Base"} {
		set.Add(s)
	}
	tab, err := NewStringTable(set)
	require.NoError(t, err)

	assert.Equal(t, "Base\x00GameObject\x00int\x00m_Name\x00", string(tab.Bytes()))
	assert.Equal(t, 4, tab.Len())

	want := map[string]uint32{"Base": 0, "GameObject": 5, "int": 16, "m_Name": 20}
	for s, off := range want {
		got, err := tab.Offset(s)
		require.NoError(t, err)
		assert.Equal(t, off, got, s)

		back, err := ReadTableString(tab.Bytes(), got)
		require.NoError(t, err)
		assert.Equal(t, s, back)
	}
}

func TestStringTableDeterministic(t *testing.T) {
	t.Parallel()

	build := func(in ...string) []byte {
		set := make(StringSet)
		for _, s := range in {
			set.Add(s)
		}
		tab, err := NewStringTable(set)
		require.NoError(t, err)
		return tab.Bytes()
	}
	assert.Equal(t, build("b", "a", "c", "a"), build("c", "a", "b"))
}

func TestStringTableMissing(t *testing.T) {
	t.Parallel()

	tab, err := NewStringTable(StringSet{"a": {}})
	require.NoError(t, err)
	_, err = tab.Offset("b")
	require.ErrorIs(t, err, ErrStringNotInTable)
}

func TestStringTableRejectsUnencodable(t *testing.T) {
	t.Parallel()

	_, err := NewStringTable(StringSet{"a\x00b": {}})
	require.ErrorIs(t, err, ErrInvalidString)

	_, err = NewStringTable(StringSet{"名前": {}})
	require.ErrorIs(t, err, ErrInvalidString)
}

func TestStringTableLatin1(t *testing.T) {
	t.Parallel()

	tab, err := NewStringTable(StringSet{"café": {}})
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xe9, 0}, tab.Bytes())

	s, err := ReadTableString(tab.Bytes(), 0)
	require.NoError(t, err)
	assert.Equal(t, "café", s)
}

func TestEntries(t *testing.T) {
	t.Parallel()

	strs, offsets, err := Entries([]byte("a\x00bc\x00\x00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "bc", ""}, strs)
	assert.Equal(t, []uint32{0, 2, 5}, offsets)

	_, _, err = Entries([]byte("a\x00bc"))
	require.ErrorIs(t, err, ErrBadStringRef)
}

func TestReadTableStringBounds(t *testing.T) {
	t.Parallel()

	_, err := ReadTableString([]byte("ab\x00"), 3)
	require.ErrorIs(t, err, ErrBadStringRef)
	_, err = ReadTableString([]byte("ab"), 0)
	require.ErrorIs(t, err, ErrBadStringRef)
}

func TestStringTableLatin1UpperRange(t *testing.T) {
	t.Parallel()

	set := StringSet{"ÿ": {}, "Ä": {}, "A": {}}
	tab, err := NewStringTable(set)
	require.NoError(t, err)
	assert.Equal(t, []byte{'A', 0, 0xc4, 0, 0xff, 0}, tab.Bytes())

	strs, offsets, err := Entries(tab.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "Ä", "ÿ"}, strs)
	assert.Equal(t, []uint32{0, 2, 4}, offsets)

	_, err = NewStringTable(StringSet{"\xff\xfe": {}})
	require.ErrorIs(t, err, ErrInvalidString)
}
