// Package guard spots words that are being typed in English so their letters
// are not turned into Vietnamese diacritics.
package guard

import (
	"strings"

	"goxviet/internal/keys"
	"goxviet/internal/rules"
	"goxviet/internal/types"
)

// Threshold is the score at which a word is treated as foreign.
const Threshold = 60

// MaxSuppressed bounds how many withheld edits one word remembers.
const MaxSuppressed = 8

// Suppressed is an edit the guard withheld.
type Suppressed struct {
	Code keys.Code
	Kind rules.OpKind
}

// State belongs to one in-progress word and is reset with it.
type State struct {
	flagged    bool
	score      int
	suppressed []Suppressed
}

func (s *State) Flagged() bool { return s.flagged }

func (s *State) Score() int { return s.score }

// Uncertain reports a word that shows foreign features without crossing the
// threshold yet.
func (s *State) Uncertain() bool { return !s.flagged && s.score > 0 }

// Observe rescores the raw letters of the word. It returns true when this
// call flips the word to foreign; once flagged the word stays flagged until
// Reset.
func (s *State) Observe(word string, scheme types.Scheme) bool {
	if s.flagged {
		return false
	}
	s.score = Score(word, scheme)
	if s.score >= Threshold {
		s.flagged = true
		return true
	}
	return false
}

// Suppress records an edit withheld because the word is foreign.
func (s *State) Suppress(code keys.Code, kind rules.OpKind) {
	if len(s.suppressed) == MaxSuppressed {
		copy(s.suppressed, s.suppressed[1:])
		s.suppressed = s.suppressed[:MaxSuppressed-1]
	}
	s.suppressed = append(s.suppressed, Suppressed{Code: code, Kind: kind})
}

func (s *State) Suppressed() []Suppressed {
	out := make([]Suppressed, len(s.suppressed))
	copy(out, s.suppressed)
	return out
}

func (s *State) Reset() {
	s.flagged = false
	s.score = 0
	s.suppressed = s.suppressed[:0]
}

var foreignOnsets = []string{
	"str", "spr", "scr", "thr",
	"bl", "br", "cl", "cr", "dr", "fl", "fr", "gl", "gr", "pl", "pr",
	"sc", "sh", "sk", "sl", "sm", "sn", "sp", "st",
}

// w spells ư in Telex, so these only look foreign under VNI.
var vniOnsets = []string{"sw", "tw", "wr"}

var loanClusters = []string{"ck", "tch", "dg", "ght"}

var vowelPairs = []string{"ea", "ei", "ae", "ey", "oy"}

// Score rates how foreign the raw letters of a word look. Scores are
// capped at 100.
func Score(word string, scheme types.Scheme) int {
	w := strings.ToLower(word)
	if len(w) < 2 {
		return 0
	}
	telex := scheme == types.SchemeTelex
	score := 0

	switch w[0] {
	case 'f', 'j', 'z':
		score += 60
	case 'w':
		if !telex {
			score += 60
		}
	}
	if hasAnyPrefix(w, foreignOnsets) || (!telex && hasAnyPrefix(w, vniOnsets)) {
		score += 70
	}
	if containsAny(w, loanClusters) {
		score += 60
	}
	if hasDoubleConsonant(w, telex) {
		score += 60
	}
	if hasForeignVowelPair(w) {
		score += 60
	}
	if telex && hasTelexTrap(w) {
		score += 60
	}
	letters := stripModifiers(w, telex)
	if vowelGroups(letters, telex) >= 2 {
		score += 60
	}
	if hasForeignCoda(letters) {
		score += 60
	}
	if len(letters) >= 10 {
		score += 30
	}
	if score > 100 {
		score = 100
	}
	return score
}

func hasAnyPrefix(w string, list []string) bool {
	for _, p := range list {
		if strings.HasPrefix(w, p) {
			return true
		}
	}
	return false
}

func containsAny(w string, list []string) bool {
	for _, p := range list {
		if strings.Contains(w, p) {
			return true
		}
	}
	return false
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

func isLetter(b byte) bool { return b >= 'a' && b <= 'z' }

func isTelexModifier(b byte) bool {
	switch b {
	case 's', 'f', 'r', 'x', 'j', 'z', 'w':
		return true
	}
	return false
}

func hasDoubleConsonant(w string, telex bool) bool {
	for i := 1; i < len(w); i++ {
		c := w[i]
		if c != w[i-1] || !isLetter(c) || isVowel(c) {
			continue
		}
		if telex && (c == 'd' || isTelexModifier(c)) {
			continue
		}
		return true
	}
	return false
}

func hasForeignVowelPair(w string) bool {
	if containsAny(w, vowelPairs) {
		return true
	}
	// ou only occurs inside ươu
	for i := strings.Index(w, "ou"); i >= 0; {
		if i == 0 || w[i-1] != 'u' {
			return true
		}
		next := strings.Index(w[i+1:], "ou")
		if next < 0 {
			break
		}
		i += 1 + next
	}
	return false
}

// hasTelexTrap matches English spellings whose first letters Telex would
// otherwise turn into a toned syllable.
func hasTelexTrap(w string) bool {
	if strings.HasPrefix(w, "ex") || strings.HasPrefix(w, "imp") || strings.HasPrefix(w, "com") {
		return true
	}
	if strings.Contains(w, "ele") {
		return true
	}
	if len(w) >= 3 {
		switch w[1:3] {
		case "ex":
			return strings.IndexByte("tnsrd", w[0]) >= 0
		case "ef":
			return strings.IndexByte("rdp", w[0]) >= 0
		}
	}
	return false
}

func stripModifiers(w string, telex bool) string {
	var b strings.Builder
	b.Grow(len(w))
	for i := 0; i < len(w); i++ {
		c := w[i]
		if !isLetter(c) {
			continue
		}
		if telex && i > 0 && isTelexModifier(c) {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// vowelGroups counts separate vowel runs. Under Telex a lone a, e or o that
// repeats a letter of the first run is a late circumflex key, not a new
// syllable.
func vowelGroups(w string, telex bool) int {
	groups := 0
	first := ""
	for i := 0; i < len(w); {
		if !isVowel(w[i]) {
			i++
			continue
		}
		j := i
		for j < len(w) && isVowel(w[j]) {
			j++
		}
		run := w[i:j]
		switch {
		case groups == 0:
			first = run
			groups++
		case telex && len(run) == 1 && strings.Contains("aeo", run) && strings.Contains(first, run):
		default:
			groups++
		}
		i = j
	}
	return groups
}

// hasForeignCoda reports a word ending in two consonants other than the
// finals ch, nh and ng.
func hasForeignCoda(w string) bool {
	n := len(w)
	if n < 3 {
		return false
	}
	a, b := w[n-2], w[n-1]
	if isVowel(a) || isVowel(b) {
		return false
	}
	switch w[n-2:] {
	case "ch", "nh", "ng":
		return false
	}
	return strings.IndexFunc(w[:n-2], func(r rune) bool { return isVowel(byte(r)) }) >= 0
}
