package composer

import (
	"testing"

	"github.com/rivo/uniseg"

	"goxviet/internal/keys"
	"goxviet/internal/types"
)

// screen mimics a host text field: pass-through keys type themselves and
// applied results erase and insert grapheme clusters.
type screen struct {
	clusters []string
	// overErased is set once a result asks to erase more than is shown
	overErased bool
}

func (s *screen) apply(code keys.Code, upper bool, r Result) {
	if !r.Consumed() {
		if code == keys.Delete {
			s.erase(1)
			return
		}
		if ch := keys.ToChar(code, upper, false); ch != 0 {
			s.insert(string(ch))
		}
		return
	}
	if r.Backspace > len(s.clusters) {
		s.overErased = true
	}
	s.erase(r.Backspace)
	s.insert(r.Text)
}

func (s *screen) erase(n int) {
	if n > len(s.clusters) {
		n = len(s.clusters)
	}
	s.clusters = s.clusters[:len(s.clusters)-n]
}

func (s *screen) insert(text string) {
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		s.clusters = append(s.clusters, gr.Str())
	}
}

func (s *screen) String() string {
	out := ""
	for _, c := range s.clusters {
		out += c
	}
	return out
}

func press(t *testing.T, c *Composer, scr *screen, b byte) Result {
	t.Helper()
	code, upper, _, ok := keys.FromASCII(b)
	if !ok {
		t.Fatalf("no key for %q", b)
	}
	res := c.Type(code, upper)
	scr.apply(code, upper, res)
	return res
}

func backspace(c *Composer, scr *screen) Result {
	res := c.Backspace()
	scr.apply(keys.Delete, false, res)
	return res
}

func typeWord(t *testing.T, c *Composer, input string) *screen {
	t.Helper()
	scr := &screen{}
	for i := 0; i < len(input); i++ {
		press(t, c, scr, input[i])
		if got := scr.String(); got != c.Text() || scr.overErased {
			t.Fatalf("%q after %q: screen %q, composer %q", input, input[:i+1], got, c.Text())
		}
	}
	return scr
}

func telex() Options {
	return Options{Scheme: types.SchemeTelex, Placement: types.PlacementModern}
}

func TestTelexWords(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"as", "á"},
		{"vieetj", "việt"},
		{"vieets", "viết"},
		{"Vieetj", "Việt"},
		{"VIEETJ", "VIỆT"},
		{"dd", "đ"},
		{"ddd", "dd"},
		{"nguwowif", "người"},
		{"thuowngf", "thường"},
		{"truwowngf", "trường"},
		{"dduowngf", "đường"},
		{"ruouwj", "rượu"},
		{"khoong", "không"},
		{"tooi", "tôi"},
		{"mootj", "một"},
		{"nhaast", "nhất"},
		{"quaan", "quân"},
		{"giowf", "giờ"},
		{"cuar", "của"},
		{"tuwj", "tự"},
		{"hoaf", "hoà"},
		{"hoawcj", "hoặc"},
		{"w", "ư"},
		{"uw", "ư"},
		{"ww", "w"},
		{"www", "ww"},
		{"asss", "ass"},
		{"aaa", "aa"},
		{"asf", "à"},
		{"asz", "a"},
	}
	for _, tc := range cases {
		c := New(telex())
		typeWord(t, c, tc.input)
		if got := c.Text(); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.input, tc.want, got)
		}
	}
}

func TestVNIWords(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"a1", "á"},
		{"a11", "a1"},
		{"vie65t", "việt"},
		{"d9uo7ng2", "đường"},
		{"duong9", "đuong"},
		{"tie6ng1", "tiếng"},
		{"a8", "ă"},
		{"sw", "sw"},
	}
	for _, tc := range cases {
		c := New(Options{Scheme: types.SchemeVNI, Placement: types.PlacementModern})
		typeWord(t, c, tc.input)
		if got := c.Text(); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.input, tc.want, got)
		}
	}
}

func TestPlacementStyles(t *testing.T) {
	c := New(Options{Scheme: types.SchemeTelex, Placement: types.PlacementTraditional})
	typeWord(t, c, "hoaf")
	if got := c.Text(); got != "hòa" {
		t.Fatalf("traditional: expected hòa, got %q", got)
	}
	scr := &screen{clusters: []string{"h", "ò", "a"}}
	press(t, c, scr, 'n')
	if got := c.Text(); got != "hoàn" || scr.String() != "hoàn" {
		t.Fatalf("closed syllable: expected hoàn, got %q on screen %q", got, scr.String())
	}
}

func TestFirstKeysOfATransformPassThrough(t *testing.T) {
	c := New(telex())
	scr := &screen{}
	if res := press(t, c, scr, 'a'); res.Consumed() {
		t.Fatalf("plain a should pass through, got %+v", res)
	}
	res := press(t, c, scr, 's')
	if !res.Consumed() || res.Backspace != 1 || res.Text != "á" {
		t.Fatalf("expected one backspace and á, got %+v", res)
	}
}

func TestBackspaceAfterStroke(t *testing.T) {
	c := New(telex())
	scr := typeWord(t, c, "dd")
	res := backspace(c, scr)
	if !res.Consumed() || res.Backspace != 1 || res.Text != "" {
		t.Fatalf("expected a single erase, got %+v", res)
	}
	if !c.Empty() || c.RawText() != "" || scr.String() != "" {
		t.Fatalf("expected an empty word, got %q raw %q", c.Text(), c.RawText())
	}
}

func TestBackspaceRepositionsTheTone(t *testing.T) {
	c := New(Options{Scheme: types.SchemeTelex, Placement: types.PlacementTraditional})
	scr := typeWord(t, c, "hoafn")
	res := backspace(c, scr)
	if res.Backspace != 3 || res.Text != "òa" {
		t.Fatalf("expected to rewrite oàn as òa, got %+v", res)
	}
	if c.Text() != "hòa" || scr.String() != "hòa" {
		t.Fatalf("expected hòa, got %q on screen %q", c.Text(), scr.String())
	}

	c = New(telex())
	scr = typeWord(t, c, "hoafn")
	res = backspace(c, scr)
	if res.Backspace != 1 || res.Text != "" || c.Text() != "hoà" {
		t.Fatalf("modern: expected a single erase to hoà, got %+v and %q", res, c.Text())
	}
}

func TestBackspaceDropsTheKeysOfTheCharacter(t *testing.T) {
	c := New(telex())
	scr := typeWord(t, c, "vieetj")
	backspace(c, scr)
	if c.Text() != "việ" || c.RawText() != "vieej" {
		t.Fatalf("expected việ from vieej, got %q from %q", c.Text(), c.RawText())
	}
	backspace(c, scr)
	if c.Text() != "vi" || c.RawText() != "vi" {
		t.Fatalf("expected vi, got %q from %q", c.Text(), c.RawText())
	}
}

func TestBoundaryCacheHitRate(t *testing.T) {
	c := New(telex())
	scr := typeWord(t, c, "vieetj")
	for i := 0; i < 20; i++ {
		backspace(c, scr)
		press(t, c, scr, 't')
	}
	if got := c.Text(); got != "việt" {
		t.Fatalf("expected việt, got %q", got)
	}
	stats := c.Stats()
	total := stats.BoundaryHits + stats.BoundaryMisses
	if total != 20 {
		t.Fatalf("expected 20 boundary lookups, got %d", total)
	}
	if rate := float64(stats.BoundaryHits) / float64(total); rate < 0.85 {
		t.Fatalf("expected a hit rate of at least 85%%, got %.2f", rate)
	}
}

func TestRestoreGivesBackTheKeys(t *testing.T) {
	c := New(telex())
	typeWord(t, c, "vieetj")
	res, ok := c.Restore()
	if !ok {
		t.Fatalf("expected a restore")
	}
	if res.Backspace != 4 || res.Text != "vieetj" {
		t.Fatalf("expected to replace 4 characters with vieetj, got %+v", res)
	}
	if !c.Empty() || c.Foreign() {
		t.Fatalf("expected restore to reset the word")
	}

	typeWord(t, c, "ban")
	if _, ok := c.Restore(); ok {
		t.Fatalf("a word without diacritics has nothing to restore")
	}

	c.Reset()
	typeWord(t, c, "pass")
	if c.HasTransforms() || !c.Reverted() {
		t.Fatalf("expected pas with a reverted tone, got %q", c.Text())
	}
	res, ok = c.Restore()
	if !ok || res.Backspace != 3 || res.Text != "pass" {
		t.Fatalf("expected pas replaced by pass, got %+v", res)
	}
}

func TestEnglishWordsStayUntouched(t *testing.T) {
	for _, word := range []string{
		"release", "text", "next", "export", "import", "complete", "black",
		"string", "check", "hello", "search", "group", "fix", "mode", "table", "your",
	} {
		c := New(telex())
		scr := typeWord(t, c, word)
		if got := scr.String(); got != word {
			t.Fatalf("expected %q to stay as typed, got %q", word, got)
		}
		if !c.Foreign() {
			t.Fatalf("expected %q to be flagged", word)
		}
	}
}

func TestInstantRestore(t *testing.T) {
	opts := telex()
	opts.InstantRestore = true
	for _, word := range []string{"window", "would", "world"} {
		c := New(opts)
		scr := typeWord(t, c, word)
		if got := scr.String(); got != word {
			t.Fatalf("expected %q, got %q", word, got)
		}
		if c.HasTransforms() {
			t.Fatalf("%q: expected no diacritics left", word)
		}
	}

	c := New(telex())
	typeWord(t, c, "window")
	if c.Text() != "ưindow" || !c.Foreign() {
		t.Fatalf("without instant restore expected ưindow flagged, got %q", c.Text())
	}
	res, ok := c.Restore()
	if !ok || res.Text != "window" {
		t.Fatalf("expected a restore to window, got %+v", res)
	}
}

func TestSkipWShortcut(t *testing.T) {
	opts := telex()
	opts.SkipWShortcut = true
	c := New(opts)
	typeWord(t, c, "w")
	if c.Text() != "w" {
		t.Fatalf("expected w at the start of a word, got %q", c.Text())
	}
	c.Reset()
	typeWord(t, c, "tw")
	if c.Text() != "tư" {
		t.Fatalf("expected tư, got %q", c.Text())
	}
}

func TestDeleteWordAndReset(t *testing.T) {
	c := New(telex())
	typeWord(t, c, "nguwowif")
	res := c.DeleteWord()
	if res.Backspace != 5 || res.Text != "" {
		t.Fatalf("expected five erases, got %+v", res)
	}
	if !c.Empty() || c.RawText() != "" {
		t.Fatalf("expected an empty word")
	}
	if res := c.DeleteWord(); res.Consumed() {
		t.Fatalf("deleting an empty word should pass through")
	}
}

func TestSnapshotAndLoad(t *testing.T) {
	c := New(telex())
	typeWord(t, c, "vieetj")
	snap := c.Snapshot()
	c.Reset()

	c.Load(snap)
	if c.Text() != "việt" || c.RawText() != "vieetj" {
		t.Fatalf("expected việt from vieetj, got %q from %q", c.Text(), c.RawText())
	}
	scr := &screen{clusters: []string{"v", "i", "ệ", "t"}}
	backspace(c, scr)
	if scr.String() != "việ" {
		t.Fatalf("expected việ after backspace, got %q", scr.String())
	}
}

func TestWordLengthIsBounded(t *testing.T) {
	c := New(telex())
	for i := 0; i < MaxWord*3; i++ {
		c.Type(keys.B, false)
		if c.Len() > MaxWord {
			t.Fatalf("word grew past %d characters", MaxWord)
		}
	}
}
