package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Version
	}{
		{"2019.4.5p2", Version{2019, 4, 5, Patch, 2}},
		{"5.6.7f1", Version{5, 6, 7, Final, 1}},
		{"2020.1.0a12", Version{2020, 1, 0, Alpha, 12}},
		{"2018.2.0b3", Version{2018, 2, 0, Beta, 3}},
		{"2019.4.1c1", Version{2019, 4, 1, China, 1}},
		{"2019.3.0x2", Version{2019, 3, 0, Experimental, 2}},
		{"4.7.2", Version{4, 7, 2, Final, 1}},
		{"2019.2", Version{2019, 2, 0, Final, 1}},
		{"2019", Version{2019, 0, 0, Final, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "abc", "2019.", "2019.4.5q1", "2019.4.5f", "2019.4.5.6", "2019.4.5f1x"} {
		_, err := Parse(in)
		require.ErrorIs(t, err, ErrInvalidVersion, "input %q", in)
	}
}

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"2019.4.5p2", "5.0.0f4", "2021.3.11f1", "2022.1.0b16"} {
		assert.Equal(t, s, MustParse(s).String())
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	ordered := []string{
		"4.7.2f1",
		"2019.4.0a1",
		"2019.4.0b1",
		"2019.4.0c1",
		"2019.4.0f1",
		"2019.4.0f2",
		"2019.4.0p1",
		"2019.4.0x1",
		"2019.4.1f1",
		"2019.10.0f1",
		"2020.1.0f1",
	}
	for i := 0; i+1 < len(ordered); i++ {
		a, b := MustParse(ordered[i]), MustParse(ordered[i+1])
		assert.True(t, a.Less(b), "%s < %s", a, b)
		assert.Equal(t, 1, b.Compare(a))
	}
	assert.Equal(t, 0, MustParse("2019.4.0f1").Compare(MustParse("2019.4.0f1")))
}

func TestIsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, Version{}.IsZero())
	assert.False(t, MustParse("0.0.0").IsZero())
}

func TestDumpFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "4.7.2", DumpFileName(MustParse("4.7.2")))
	assert.Equal(t, "3.5.0", DumpFileName(MustParse("3.5.0f1")))
	assert.Equal(t, "5.0.0f4", DumpFileName(MustParse("5.0.0f4")))
	assert.Equal(t, "2019.4.5p2", DumpFileName(MustParse("2019.4.5p2")))
}

func TestTypeLetters(t *testing.T) {
	t.Parallel()

	for _, typ := range []Type{Alpha, Beta, China, Final, Patch, Experimental} {
		got, err := TypeFromLetter(typ.Letter())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
	_, err := TypeFromLetter('z')
	require.ErrorIs(t, err, ErrInvalidType)
}
