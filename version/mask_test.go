package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	t.Parallel()

	v := MustParse("2019.4.5p2")
	tests := []struct {
		skip     Skip
		wildcard bool
		want     string
	}{
		{SkipMinor, false, "2019.4"},
		{SkipMinor, true, "2019.4.*"},
		{SkipType, false, "2019.4p"},
		{SkipType, true, "2019.4p*"},
		{SkipNone, false, "2019.4.5p2"},
		{SkipNone, true, "2019.4.5p2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Mask(v, tt.skip, tt.wildcard), "%s wildcard=%v", tt.skip, tt.wildcard)
	}
}

func TestMatchMask(t *testing.T) {
	t.Parallel()

	assert.True(t, MatchMask("2019.4.*", "2019.4.0f1"))
	assert.True(t, MatchMask("2019.4.*", "2019.4.40f1"))
	assert.False(t, MatchMask("2019.4.*", "2019.40.1f1"))
	assert.False(t, MatchMask("2019.4.*", "2020.1.0f1"))

	assert.True(t, MatchMask("2019.4f*", "2019.4.12f1"))
	assert.False(t, MatchMask("2019.4f*", "2019.4.12p1"))

	assert.True(t, MatchMask("2019.4.5p2", "2019.4.5p2"))
	assert.False(t, MatchMask("2019.4.5p2", "2019.4.5p3"))
}

func TestParseSkip(t *testing.T) {
	t.Parallel()

	for _, s := range []Skip{SkipMinor, SkipType, SkipNone} {
		got, err := ParseSkip(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseSkip("build")
	require.ErrorIs(t, err, ErrInvalidSkip)
}

func TestParseTypes(t *testing.T) {
	t.Parallel()

	set, err := ParseTypes("fp")
	require.NoError(t, err)
	assert.Equal(t, DefaultTypes, set)
	assert.True(t, set.Has(Final))
	assert.True(t, set.Has(Patch))
	assert.False(t, set.Has(Beta))
	assert.Equal(t, "fp", set.String())

	set, err = ParseTypes("ABCFPX")
	require.NoError(t, err)
	assert.Equal(t, "abcfpx", set.String())

	_, err = ParseTypes("fq")
	require.ErrorIs(t, err, ErrInvalidType)
}
