package composer

import (
	"math/rand"
	"testing"

	"github.com/rivo/uniseg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goxviet/internal/history"
	"goxviet/internal/keys"
	"goxviet/internal/types"
)

func typeASCII(t *testing.T, c *Composer, input string) {
	t.Helper()
	for i := 0; i < len(input); i++ {
		code, upper, _, ok := keys.FromASCII(input[i])
		require.True(t, ok)
		c.Type(code, upper)
	}
}

// Pressing a toggle key twice in a row leaves the syllable as it was, with
// the key itself typed once.
func TestToggleTwiceIsIdentity(t *testing.T) {
	bases := []string{"", "a", "ac", "ba", "tu", "hoa", "tuo", "vie", "d", "nga"}
	toggles := "sfrxjaeowdz"
	for _, scheme := range []types.Scheme{types.SchemeTelex, types.SchemeVNI} {
		for _, base := range bases {
			keysForScheme := toggles
			if scheme == types.SchemeVNI {
				keysForScheme = "1234567890"
			}
			for i := 0; i < len(keysForScheme); i++ {
				k := keysForScheme[i]
				c := New(Options{Scheme: scheme, Placement: types.PlacementModern})
				typeASCII(t, c, base)
				before := c.Text()

				typeASCII(t, c, string(k))
				if c.Text() == before+string(k) {
					continue
				}
				typeASCII(t, c, string(k))
				assert.Equal(t, before+string(k), c.Text(), "%s %q+%c%c", scheme, base, k, k)
			}
		}
	}
}

const (
	alphabet    = "abcdeghiklmnoqrstuvwxyAEDOW"
	vniAlphabet = "abdeghiklmnoqrtuvyAEOU123456789"
)

func randomWord(rng *rand.Rand, letters string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rng.Intn(len(letters))]
	}
	return string(b)
}

// replay types input, treating '<' as a backspace, and checks after every
// key that the screen shows the word and was never asked to erase more than
// it had.
func replay(t *testing.T, c *Composer, input string) *screen {
	t.Helper()
	scr := &screen{}
	for i := 0; i < len(input); i++ {
		if input[i] == '<' {
			backspace(c, scr)
		} else {
			code, upper, _, ok := keys.FromASCII(input[i])
			require.True(t, ok)
			scr.apply(code, upper, c.Type(code, upper))
		}
		require.False(t, scr.overErased, "input %q at %d erased past the screen", input, i)
		require.Equal(t, c.Text(), scr.String(), "input %q at %d", input, i)
	}
	return scr
}

// Every result, applied to a text field the way a host applies it, keeps the
// field equal to the composer's word.
func TestScreenFollowsTheWord(t *testing.T) {
	schemes := []struct {
		scheme  types.Scheme
		letters string
		seed    int64
	}{
		{types.SchemeTelex, alphabet, 7},
		{types.SchemeVNI, vniAlphabet, 13},
	}
	for _, sc := range schemes {
		rng := rand.New(rand.NewSource(sc.seed))
		for round := 0; round < 600; round++ {
			opts := Options{
				Scheme:         sc.scheme,
				Placement:      types.PlacementStyle(rng.Intn(2)),
				InstantRestore: rng.Intn(2) == 0,
			}
			word := []byte(randomWord(rng, sc.letters, 1+rng.Intn(12)))
			for i := range word {
				if rng.Intn(5) == 0 {
					word[i] = '<'
				}
			}
			replay(t, New(opts), string(word))
		}
	}
}

// A backspace that moves the tone back onto an earlier vowel rewrites the
// screen from that vowel on.
func TestBackspaceRewritesFromTheMovedTone(t *testing.T) {
	for _, input := range []string{"tu47yd7<", "a48ii8<", "tu47yd7<<<", "hoa2<", "thuy3e<"} {
		for _, placement := range []types.PlacementStyle{types.PlacementModern, types.PlacementTraditional} {
			replay(t, New(Options{Scheme: types.SchemeVNI, Placement: placement}), input)
		}
	}
	for _, input := range []string{"tuxowyd<", "hoaf<", "thuyre<", "quas<"} {
		replay(t, New(Options{Scheme: types.SchemeTelex, Placement: types.PlacementModern}), input)
	}
}

// Erasing a word one backspace at a time removes exactly its characters and
// leaves no state behind.
func TestBackspaceRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for round := 0; round < 400; round++ {
		c := New(Options{Scheme: types.SchemeTelex, Placement: types.PlacementStyle(rng.Intn(2))})
		input := randomWord(rng, alphabet, 1+rng.Intn(12))
		typeASCII(t, c, input)

		shown := uniseg.GraphemeClusterCount(c.Text())
		erased, inserted := 0, 0
		for n := c.Len(); n > 0; n-- {
			res := c.Backspace()
			require.True(t, res.Consumed())
			erased += res.Backspace
			inserted += uniseg.GraphemeClusterCount(res.Text)
		}
		assert.Equal(t, shown, erased-inserted, "input %q", input)
		assert.True(t, c.Empty())
		assert.Empty(t, c.RawText())
		assert.False(t, c.HasTransforms())
		assert.False(t, c.Foreign())
		assert.Empty(t, c.Transforms())
	}
}

func TestStateStaysBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	c := New(Options{Scheme: types.SchemeTelex})
	for i := 0; i < 200000; i++ {
		if rng.Intn(20) == 0 {
			c.Backspace()
			continue
		}
		code, upper, _, _ := keys.FromASCII(alphabet[rng.Intn(len(alphabet))])
		c.Type(code, upper)
		require.LessOrEqual(t, c.Len(), MaxWord)
		require.LessOrEqual(t, c.raw.Len(), history.Capacity)
		require.LessOrEqual(t, len(c.transforms), MaxWord)
	}
}

func TestValidatorTiersAreUsed(t *testing.T) {
	c := New(Options{Scheme: types.SchemeTelex})
	typeASCII(t, c, "as")
	c.Reset()
	typeASCII(t, c, "vieetj")
	stats := c.Stats()
	assert.NotZero(t, stats.Validator.Tier1)
	assert.NotZero(t, stats.Validator.Tier3)
}
