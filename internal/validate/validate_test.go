package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goxviet/internal/viet"
)

func parse(t *testing.T, word string) []viet.Char {
	t.Helper()
	cs, ok := viet.Parse(word)
	require.True(t, ok, word)
	return cs
}

func TestValidSyllables(t *testing.T) {
	v := New(Options{})
	for _, word := range []string{
		"a", "bá", "việt", "nghiêng", "người", "khuỷu", "quyết", "giữa",
		"đường", "thuở", "hoàn", "oanh", "xoong", "đ", "ách", "rượu",
		"tiên", "tuan", "nguoi", "mưa", "gì", "kế", "ghế", "nghỉ",
	} {
		assert.Equal(t, Valid, v.Check(parse(t, word), false), word)
		assert.Equal(t, Valid, v.Check(parse(t, word), true), "strict "+word)
	}
}

func TestInvalidSyllables(t *testing.T) {
	v := New(Options{})
	for _, word := range []string{
		"release", "clean", "och", "ăi", "ka", "ce", "ghá", "nge", "fá",
		"zé", "ràt", "mãc", "ơnh", "hôa", "data", "qa", "bl",
	} {
		assert.Equal(t, Invalid, v.Check(parse(t, word), false), word)
	}
}

func TestTiersAreCounted(t *testing.T) {
	v := New(Options{})
	v.Check(parse(t, "bá"), false)
	v.Check(parse(t, "fá"), false)
	v.Check(parse(t, "việt"), false)

	stats := v.Stats()
	assert.Equal(t, uint64(1), stats.Tier1)
	assert.Equal(t, uint64(1), stats.Tier2)
	assert.Equal(t, uint64(1), stats.Tier3)
}

func TestStrictAlwaysRunsFullGrammar(t *testing.T) {
	v := New(Options{})
	v.Check(parse(t, "bá"), true)
	assert.Equal(t, uint64(1), v.Stats().Tier3)
}

func TestFreeToneAcceptsAnySplittableShape(t *testing.T) {
	v := New(Options{FreeTone: true})
	assert.Equal(t, Valid, v.Check(parse(t, "ka"), false))
	assert.Equal(t, Valid, v.Check(parse(t, "hôa"), false))
	assert.Equal(t, Invalid, v.Check(parse(t, "data"), false))
}

func TestDropMarks(t *testing.T) {
	forms := dropMarks([]rune("ươ"))
	assert.ElementsMatch(t, []string{"ươ", "ưo", "uơ", "uo"}, forms)
}
