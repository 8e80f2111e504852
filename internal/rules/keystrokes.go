package rules

import (
	"goxviet/internal/keys"
	"goxviet/internal/types"
	"goxviet/internal/viet"
)

// Stroke is one synthesized keystroke. Owner is the index of the character
// the keystroke builds.
type Stroke struct {
	Code  keys.Code
	Upper bool
	Owner int
}

var letterKeys = map[rune]keys.Code{
	'a': keys.A, 'b': keys.B, 'c': keys.C, 'd': keys.D, 'e': keys.E,
	'f': keys.F, 'g': keys.G, 'h': keys.H, 'i': keys.I, 'j': keys.J,
	'k': keys.K, 'l': keys.L, 'm': keys.M, 'n': keys.N, 'o': keys.O,
	'p': keys.P, 'q': keys.Q, 'r': keys.R, 's': keys.S, 't': keys.T,
	'u': keys.U, 'v': keys.V, 'w': keys.W, 'x': keys.X, 'y': keys.Y,
	'z': keys.Z,
}

var digitKeys = [10]keys.Code{keys.N0, keys.N1, keys.N2, keys.N3, keys.N4, keys.N5, keys.N6, keys.N7, keys.N8, keys.N9}

var telexTones = map[viet.Tone]keys.Code{
	viet.ToneAcute: keys.S, viet.ToneGrave: keys.F, viet.ToneHook: keys.R,
	viet.ToneTilde: keys.X, viet.ToneDot: keys.J,
}

var vniTones = map[viet.Tone]keys.Code{
	viet.ToneAcute: keys.N1, viet.ToneGrave: keys.N2, viet.ToneHook: keys.N3,
	viet.ToneTilde: keys.N4, viet.ToneDot: keys.N5,
}

// Keystrokes returns a key sequence that types cs under scheme. The tone key
// comes last, the way words are usually typed. It fails when cs holds a
// character no key produces.
func Keystrokes(cs []viet.Char, scheme types.Scheme) ([]Stroke, bool) {
	out := make([]Stroke, 0, len(cs)+3)
	toneAt, tone := viet.ToneOf(cs)
	for i, c := range cs {
		code, ok := letterKeys[c.Base]
		if !ok {
			if c.Base < '0' || c.Base > '9' || scheme == types.SchemeVNI {
				return nil, false
			}
			code = digitKeys[c.Base-'0']
		}
		if c.FromW && scheme == types.SchemeTelex {
			out = append(out, Stroke{Code: keys.W, Upper: c.Upper, Owner: i})
			continue
		}
		out = append(out, Stroke{Code: code, Upper: c.Upper, Owner: i})
		// the horn of ươ is typed once, after the o
		hornPair := c.Base == 'u' && c.Mark == viet.MarkHorn &&
			i+1 < len(cs) && cs[i+1].Base == 'o' && cs[i+1].Mark == viet.MarkHorn
		if hornPair {
			continue
		}
		for _, mod := range modifierKeys(c, scheme) {
			out = append(out, Stroke{Code: mod, Owner: i})
		}
	}
	if toneAt >= 0 {
		table := telexTones
		if scheme == types.SchemeVNI {
			table = vniTones
		}
		out = append(out, Stroke{Code: table[tone], Owner: toneAt})
	}
	return out, true
}

func modifierKeys(c viet.Char, scheme types.Scheme) []keys.Code {
	var mods []keys.Code
	if scheme == types.SchemeVNI {
		switch c.Mark {
		case viet.MarkCircumflex:
			mods = append(mods, keys.N6)
		case viet.MarkHorn:
			mods = append(mods, keys.N7)
		case viet.MarkBreve:
			mods = append(mods, keys.N8)
		}
		if c.Stroke {
			mods = append(mods, keys.N9)
		}
		return mods
	}
	switch c.Mark {
	case viet.MarkCircumflex:
		mods = append(mods, letterKeys[c.Base])
	case viet.MarkHorn, viet.MarkBreve:
		mods = append(mods, keys.W)
	}
	if c.Stroke {
		mods = append(mods, keys.D)
	}
	return mods
}
