// Package placement decides which letter of a syllable carries a diacritic.
package placement

import (
	"goxviet/internal/types"
	"goxviet/internal/viet"
)

// nucleus returns the bounds of the vowel nucleus of the last syllable and
// whether a final consonant follows it.
func nucleus(cs []viet.Char) (start, end int, closed, ok bool) {
	base := viet.SyllableStart(cs)
	syl, ok := viet.Split(cs[base:])
	if !ok || !syl.HasNucleus() {
		return 0, 0, false, false
	}
	return base + syl.Nucleus, base + syl.Coda, syl.Closed(), true
}

// ToneIndex returns the index that should carry the tone, or -1 when the
// last syllable has no vowel.
func ToneIndex(cs []viet.Char, style types.PlacementStyle) int {
	vs, ve, closed, ok := nucleus(cs)
	if !ok {
		return -1
	}
	if ve-vs == 1 {
		return vs
	}
	// a vowel with a mark wins; in ươ the second one does
	marked := -1
	for i := vs; i < ve; i++ {
		if cs[i].Mark != viet.MarkNone {
			marked = i
		}
	}
	if marked >= 0 {
		return marked
	}
	if ve-vs >= 3 || closed {
		return vs + 1
	}
	switch string([]rune{cs[vs].Base, cs[vs+1].Base}) {
	case "oa", "oe", "uy":
		if style == types.PlacementModern {
			return vs + 1
		}
	}
	return vs
}

// Reposition moves an existing tone to where ToneIndex puts it. It reports
// whether anything moved.
func Reposition(cs []viet.Char, style types.PlacementStyle) bool {
	at, tone := viet.ToneOf(cs)
	if at < 0 {
		return false
	}
	// a tone left in an earlier syllable stays where it is
	if at < viet.SyllableStart(cs) {
		return false
	}
	want := ToneIndex(cs, style)
	if want < 0 || want == at {
		return false
	}
	cs[at].Tone = viet.ToneNone
	cs[want].Tone = tone
	return true
}

// HornTargets returns the vowels a horn key modifies. An uo pair takes a
// horn on both letters once something follows it and only on the o while
// the syllable still ends there.
func HornTargets(cs []viet.Char) []int {
	vs, ve, closed, ok := nucleus(cs)
	if !ok {
		return nil
	}
	for i := vs; i+1 < ve; i++ {
		if cs[i].Base == 'u' && cs[i+1].Base == 'o' {
			if i+2 < ve || closed {
				return []int{i, i + 1}
			}
			return []int{i + 1}
		}
	}
	for i := vs; i < ve; i++ {
		if cs[i].Base == 'u' || cs[i].Base == 'o' {
			return []int{i}
		}
	}
	return nil
}

// BreveTarget returns the a that takes a breve, or -1.
func BreveTarget(cs []viet.Char) int {
	vs, ve, _, ok := nucleus(cs)
	if !ok {
		return -1
	}
	for i := ve - 1; i >= vs; i-- {
		if cs[i].Base == 'a' {
			return i
		}
	}
	return -1
}

// PrefersBreve reports whether a w key should give ă rather than a horn:
// after o as in oă, or straight after qu.
func PrefersBreve(cs []viet.Char) bool {
	vs, ve, _, ok := nucleus(cs)
	if !ok {
		return false
	}
	for i := vs; i < ve; i++ {
		if cs[i].Base != 'a' {
			continue
		}
		if i > vs && cs[i-1].Base == 'o' {
			return true
		}
		if i == vs && i >= 2 && cs[i-2].Base == 'q' && cs[i-1].Base == 'u' {
			return true
		}
	}
	return false
}

// CircumflexTarget returns the last vowel with the given base letter that can
// take a circumflex, or -1. A zero base accepts any of a, e and o.
func CircumflexTarget(cs []viet.Char, base rune) int {
	vs, ve, _, ok := nucleus(cs)
	if !ok {
		return -1
	}
	for i := ve - 1; i >= vs; i-- {
		b := cs[i].Base
		if base != 0 && b != base {
			continue
		}
		if b == 'a' || b == 'e' || b == 'o' {
			return i
		}
	}
	return -1
}

// MarkedVowels returns the indexes of the marked vowels of the last syllable.
func MarkedVowels(cs []viet.Char) []int {
	vs, ve, _, ok := nucleus(cs)
	if !ok {
		return nil
	}
	var out []int
	for i := vs; i < ve; i++ {
		if cs[i].Mark != viet.MarkNone {
			out = append(out, i)
		}
	}
	return out
}
