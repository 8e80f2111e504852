// Package viet models Vietnamese letters as a base letter plus diacritics and
// converts between that model and precomposed Unicode text.
package viet

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

type Mark uint8

const (
	MarkNone Mark = iota
	MarkCircumflex
	MarkBreve
	MarkHorn
)

func (m Mark) String() string {
	switch m {
	case MarkNone:
		return "none"
	case MarkCircumflex:
		return "circumflex"
	case MarkBreve:
		return "breve"
	case MarkHorn:
		return "horn"
	default:
		return "unknown"
	}
}

type Tone uint8

const (
	ToneNone Tone = iota
	ToneAcute
	ToneGrave
	ToneHook
	ToneTilde
	ToneDot
)

func (t Tone) String() string {
	switch t {
	case ToneNone:
		return "none"
	case ToneAcute:
		return "acute"
	case ToneGrave:
		return "grave"
	case ToneHook:
		return "hook"
	case ToneTilde:
		return "tilde"
	case ToneDot:
		return "dot"
	default:
		return "unknown"
	}
}

const (
	combGrave      = '\u0300'
	combAcute      = '\u0301'
	combCircumflex = '\u0302'
	combTilde      = '\u0303'
	combBreve      = '\u0306'
	combHook       = '\u0309'
	combHorn       = '\u031B'
	combDotBelow   = '\u0323'
)

var toneMarks = map[Tone]rune{
	ToneAcute: combAcute,
	ToneGrave: combGrave,
	ToneHook:  combHook,
	ToneTilde: combTilde,
	ToneDot:   combDotBelow,
}

var vowelMarks = map[Mark]rune{
	MarkCircumflex: combCircumflex,
	MarkBreve:      combBreve,
	MarkHorn:       combHorn,
}

// Char is one on-screen letter of the word being composed. Base holds the
// lowercase ASCII letter, or the literal rune for anything that is not a
// letter.
type Char struct {
	Base   rune
	Upper  bool
	Mark   Mark
	Tone   Tone
	Stroke bool
	// FromW marks an ư produced by a bare w key.
	FromW bool
}

// Lit returns an undecorated character.
func Lit(r rune, upper bool) Char {
	return Char{Base: r, Upper: upper}
}

func (c Char) IsLetter() bool { return c.Base >= 'a' && c.Base <= 'z' }

func (c Char) IsVowel() bool {
	switch c.Base {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

func (c Char) IsConsonant() bool { return c.IsLetter() && !c.IsVowel() }

// Plain reports whether the character carries no transformation.
func (c Char) Plain() bool {
	return c.Mark == MarkNone && c.Tone == ToneNone && !c.Stroke && !c.FromW
}

type glyph struct {
	base  rune
	upper bool
	mark  Mark
	tone  Tone
}

var composed = buildComposed()

func buildComposed() map[glyph]string {
	out := make(map[glyph]string, 300)
	for _, base := range "aeiouy" {
		for mark := MarkNone; mark <= MarkHorn; mark++ {
			for tone := ToneNone; tone <= ToneDot; tone++ {
				for _, upper := range []bool{false, true} {
					g := glyph{base: base, upper: upper, mark: mark, tone: tone}
					out[g] = compose(g)
				}
			}
		}
	}
	return out
}

func compose(g glyph) string {
	base := g.base
	if g.upper {
		base = base - 'a' + 'A'
	}
	runes := []rune{base}
	if m, ok := vowelMarks[g.mark]; ok {
		runes = append(runes, m)
	}
	if t, ok := toneMarks[g.tone]; ok {
		runes = append(runes, t)
	}
	return norm.NFC.String(string(runes))
}

// String renders the character as precomposed text.
func (c Char) String() string {
	if c.Stroke && c.Base == 'd' {
		if c.Upper {
			return "Đ"
		}
		return "đ"
	}
	if c.IsVowel() {
		return composed[glyph{base: c.Base, upper: c.Upper, mark: c.Mark, tone: c.Tone}]
	}
	if c.Upper && c.IsLetter() {
		return string(c.Base - 'a' + 'A')
	}
	return string(c.Base)
}

// Render renders a character sequence as NFC text.
func Render(cs []Char) string {
	var b strings.Builder
	b.Grow(len(cs) * 2)
	for _, c := range cs {
		b.WriteString(c.String())
	}
	return b.String()
}

// ASCII renders the sequence with every diacritic stripped.
func ASCII(cs []Char) string {
	var b strings.Builder
	b.Grow(len(cs))
	for _, c := range cs {
		b.WriteString(Lit(c.Base, c.Upper).String())
	}
	return b.String()
}

// Parse converts precomposed text back into characters. It fails on any rune
// that is not an ASCII letter, đ, or a Vietnamese combining mark.
func Parse(s string) ([]Char, bool) {
	out := make([]Char, 0, len(s))
	for _, r := range norm.NFD.String(s) {
		switch {
		case r == 'đ' || r == 'Đ':
			out = append(out, Char{Base: 'd', Upper: r == 'Đ', Stroke: true})
		case r >= 'a' && r <= 'z':
			out = append(out, Lit(r, false))
		case r >= 'A' && r <= 'Z':
			out = append(out, Lit(r-'A'+'a', true))
		default:
			if len(out) == 0 || !out[len(out)-1].IsVowel() {
				return nil, false
			}
			last := &out[len(out)-1]
			if !applyCombining(last, r) {
				return nil, false
			}
		}
	}
	return out, true
}

func applyCombining(c *Char, r rune) bool {
	for tone, mark := range toneMarks {
		if mark == r {
			c.Tone = tone
			return true
		}
	}
	for kind, mark := range vowelMarks {
		if mark == r {
			c.Mark = kind
			return true
		}
	}
	return false
}
