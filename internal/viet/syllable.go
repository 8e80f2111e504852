package viet

import "strings"

// Syllable holds the boundaries of a split syllable: chars[:Nucleus] is the
// initial, chars[Nucleus:Coda] the vowel nucleus and chars[Coda:End] the coda.
type Syllable struct {
	Nucleus int
	Coda    int
	End     int
}

func (s Syllable) HasInitial() bool { return s.Nucleus > 0 }
func (s Syllable) HasNucleus() bool { return s.Coda > s.Nucleus }
func (s Syllable) Closed() bool     { return s.End > s.Coda }

// Split divides cs into initial, nucleus and coda. It fails when cs holds a
// non-letter or a vowel after the coda has started.
func Split(cs []Char) (Syllable, bool) {
	i := 0
	for i < len(cs) && cs[i].IsConsonant() {
		i++
	}
	if i < len(cs) && !cs[i].IsLetter() {
		return Syllable{}, false
	}
	// qu and gi belong to the initial when another vowel follows.
	if i == 1 && i+1 < len(cs) && cs[i+1].IsVowel() {
		switch {
		case cs[0].Base == 'q' && cs[1].Base == 'u':
			i++
		case cs[0].Base == 'g' && !cs[0].Stroke && cs[1].Base == 'i':
			i++
		}
	}
	syl := Syllable{Nucleus: i}
	for i < len(cs) && cs[i].IsVowel() {
		i++
	}
	syl.Coda = i
	for i < len(cs) && cs[i].IsConsonant() {
		i++
	}
	if i != len(cs) {
		return Syllable{}, false
	}
	syl.End = i
	return syl, true
}

// Initials lists the consonant onsets of the language.
var Initials = map[string]bool{
	"b": true, "c": true, "ch": true, "d": true, "đ": true, "g": true,
	"gh": true, "gi": true, "h": true, "k": true, "kh": true, "l": true,
	"m": true, "n": true, "ng": true, "ngh": true, "nh": true, "p": true,
	"ph": true, "q": true, "qu": true, "r": true, "s": true, "t": true,
	"th": true, "tr": true, "v": true, "x": true,
}

// SyllableStart returns the index at which the last syllable of cs begins.
// Only letters take part; the scan stops at anything else.
func SyllableStart(cs []Char) int {
	j := len(cs) - 1
	for j >= 0 && cs[j].IsConsonant() {
		j--
	}
	for j >= 0 && cs[j].IsVowel() {
		j--
	}
	k := j
	for k >= 0 && cs[k].IsConsonant() {
		k--
	}
	// keep the longest onset the consonant run ends with
	for n := 3; n > 1; n-- {
		if j+1-n > k && Initials[Letters(cs[j+1-n:j+1])] {
			return j + 1 - n
		}
	}
	if j > k {
		return j
	}
	return j + 1
}

// Letters renders the base letters of cs, writing đ for a stroked d.
func Letters(cs []Char) string {
	var b strings.Builder
	b.Grow(len(cs))
	for _, c := range cs {
		if c.Stroke && c.Base == 'd' {
			b.WriteRune('đ')
			continue
		}
		b.WriteRune(c.Base)
	}
	return b.String()
}

// VowelKey returns the lowercase toneless letter for a vowel, keeping its mark.
func VowelKey(c Char) rune {
	switch c.Base {
	case 'a':
		switch c.Mark {
		case MarkBreve:
			return 'ă'
		case MarkCircumflex:
			return 'â'
		}
	case 'e':
		if c.Mark == MarkCircumflex {
			return 'ê'
		}
	case 'o':
		switch c.Mark {
		case MarkCircumflex:
			return 'ô'
		case MarkHorn:
			return 'ơ'
		}
	case 'u':
		if c.Mark == MarkHorn {
			return 'ư'
		}
	}
	return c.Base
}

// Vowels renders the toneless vowel keys of cs.
func Vowels(cs []Char) string {
	var b strings.Builder
	b.Grow(len(cs) * 2)
	for _, c := range cs {
		b.WriteRune(VowelKey(c))
	}
	return b.String()
}

// ToneOf returns the index and tone of the first toned character, or -1.
func ToneOf(cs []Char) (int, Tone) {
	for i, c := range cs {
		if c.Tone != ToneNone {
			return i, c.Tone
		}
	}
	return -1, ToneNone
}
