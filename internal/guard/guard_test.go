package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goxviet/internal/keys"
	"goxviet/internal/rules"
	"goxviet/internal/types"
)

func TestVietnameseTelexWordsStayBelowThreshold(t *testing.T) {
	for _, raw := range []string{
		"vieetj", "nguwowif", "dduowngf", "khoong", "trangf", "nhaast",
		"thuyeenf", "quaan", "xooong", "mootj", "tooi", "ddaauf", "truwowngf",
		"ruouwj", "giowf", "cuar", "aasy", "nghieeng", "tienge",
	} {
		assert.Less(t, Score(raw, types.SchemeTelex), Threshold, raw)
	}
}

func TestVietnameseVNIWordsStayBelowThreshold(t *testing.T) {
	for _, raw := range []string{"vie65t", "d9uo7ng2", "nguoi72", "tie6ng1"} {
		assert.Less(t, Score(raw, types.SchemeVNI), Threshold, raw)
	}
}

func TestEnglishWordsCrossThreshold(t *testing.T) {
	for _, raw := range []string{
		"release", "text", "next", "export", "import", "complete", "black",
		"string", "check", "would", "your", "hello", "window", "world",
		"search", "group", "fix", "mode", "table",
	} {
		assert.GreaterOrEqual(t, Score(raw, types.SchemeTelex), Threshold, raw)
	}
}

func TestScoreIsCapped(t *testing.T) {
	assert.Equal(t, 100, Score("strictly", types.SchemeTelex))
	assert.Equal(t, 0, Score("a", types.SchemeTelex))
}

func TestTelexOnlyOnsets(t *testing.T) {
	assert.Less(t, Score("tw", types.SchemeTelex), Threshold)
	assert.GreaterOrEqual(t, Score("tw", types.SchemeVNI), Threshold)
}

func TestStateFlagsOnceAndResets(t *testing.T) {
	var s State
	assert.False(t, s.Observe("re", types.SchemeTelex))
	assert.False(t, s.Observe("rel", types.SchemeTelex))
	assert.True(t, s.Observe("rele", types.SchemeTelex))
	assert.True(t, s.Flagged())
	assert.False(t, s.Observe("relea", types.SchemeTelex), "a flagged word does not flip again")

	for i := 0; i < MaxSuppressed+3; i++ {
		s.Suppress(keys.S, rules.ToggleTone)
	}
	assert.Len(t, s.Suppressed(), MaxSuppressed)

	s.Reset()
	assert.False(t, s.Flagged())
	assert.Zero(t, s.Score())
	assert.Empty(t, s.Suppressed())
}

func TestUncertain(t *testing.T) {
	var s State
	s.Observe("blo", types.SchemeVNI)
	assert.False(t, s.Uncertain())
	s.Reset()
	s.Observe("ba", types.SchemeTelex)
	assert.False(t, s.Uncertain())
	s.Reset()
	s.Observe("nghieeeeng", types.SchemeTelex)
	assert.True(t, s.Uncertain())
}
