// Package validate decides whether a candidate syllable is well formed.
//
// Checks run in three tiers of increasing cost. Tier 1 accepts shapes that
// cannot be wrong, tier 2 rejects structural problems and settles the easy
// cases, and tier 3 runs the complete grammar. Rejection is an ordinary
// Verdict and never an error.
package validate

import (
	"goxviet/internal/viet"
)

type Verdict int

const (
	Valid Verdict = iota
	Invalid
	Ambiguous
)

func (v Verdict) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

type Options struct {
	// FreeTone accepts any shape that has a vowel to carry the diacritic.
	FreeTone bool
}

// Stats counts how many checks each tier settled.
type Stats struct {
	Tier1 uint64
	Tier2 uint64
	Tier3 uint64
}

type Validator struct {
	opts  Options
	stats Stats
}

func New(opts Options) *Validator {
	return &Validator{opts: opts}
}

func (v *Validator) SetOptions(opts Options) { v.opts = opts }

func (v *Validator) Stats() Stats { return v.stats }

// Check validates cs as one syllable. strict skips the first two tiers'
// shortcuts so the full grammar always runs.
func (v *Validator) Check(cs []viet.Char, strict bool) Verdict {
	if v.opts.FreeTone {
		v.stats.Tier1++
		if _, ok := viet.Split(cs); ok {
			return Valid
		}
		return Invalid
	}
	if !strict && trivial(cs) {
		v.stats.Tier1++
		return Valid
	}
	verdict := structural(cs)
	if verdict == Invalid || (verdict == Valid && !strict) {
		v.stats.Tier2++
		return verdict
	}
	v.stats.Tier3++
	if full(cs) {
		return Valid
	}
	return Invalid
}

var simpleInitials = map[rune]bool{
	'b': true, 'd': true, 'h': true, 'l': true, 'm': true, 'n': true,
	'r': true, 's': true, 't': true, 'v': true, 'x': true,
}

func trivial(cs []viet.Char) bool {
	switch len(cs) {
	case 1:
		return cs[0].IsVowel() || (cs[0].Base == 'd' && cs[0].Stroke)
	case 2:
		return simpleInitials[cs[0].Base] && cs[1].IsVowel() && cs[1].Mark != viet.MarkBreve
	}
	return false
}

var codas = map[string]bool{
	"c": true, "ch": true, "m": true, "n": true,
	"ng": true, "nh": true, "p": true, "t": true,
}

var spellingInitials = map[string]bool{
	"c": true, "k": true, "g": true, "gh": true, "ng": true, "ngh": true, "q": true,
}

func structural(cs []viet.Char) Verdict {
	syl, ok := viet.Split(cs)
	if !ok {
		return Invalid
	}
	initial := viet.Letters(cs[:syl.Nucleus])
	if initial != "" && !viet.Initials[initial] {
		return Invalid
	}
	nucleus := cs[syl.Nucleus:syl.Coda]
	for i, c := range nucleus {
		if i+1 == len(nucleus) {
			break
		}
		next := nucleus[i+1].Base
		switch viet.VowelKey(c) {
		case 'ă':
			return Invalid
		case 'â':
			if next != 'u' && next != 'y' {
				return Invalid
			}
		case 'ê':
			if next != 'u' {
				return Invalid
			}
		}
	}
	if syl.Closed() && !codas[viet.Letters(cs[syl.Coda:syl.End])] {
		return Invalid
	}
	if !syl.Closed() && len(nucleus) == 1 && !spellingInitials[initial] {
		return Valid
	}
	return Ambiguous
}

func full(cs []viet.Char) bool {
	syl, ok := viet.Split(cs)
	if !ok {
		return false
	}
	initial := viet.Letters(cs[:syl.Nucleus])
	nucleus := cs[syl.Nucleus:syl.Coda]
	coda := viet.Letters(cs[syl.Coda:syl.End])

	if len(nucleus) == 0 {
		return coda == "" && initial != ""
	}
	key := viet.Vowels(nucleus)
	if coda == "" {
		if !partialNuclei[key] {
			return false
		}
	} else if !closedNuclei[key] {
		return false
	}
	if !spellingOK(initial, nucleus[0]) {
		return false
	}
	switch coda {
	case "ch", "nh":
		switch viet.VowelKey(nucleus[len(nucleus)-1]) {
		case 'a', 'e', 'ê', 'i', 'y':
		default:
			return false
		}
	}
	switch coda {
	case "c", "ch", "p", "t":
		if _, tone := viet.ToneOf(nucleus); tone != viet.ToneNone && tone != viet.ToneAcute && tone != viet.ToneDot {
			return false
		}
	}
	return true
}

func spellingOK(initial string, first viet.Char) bool {
	front := first.Base == 'i' || first.Base == 'e' || first.Base == 'y'
	switch initial {
	case "k":
		return front
	case "c":
		return !front
	case "gh", "ngh":
		return first.Base == 'i' || first.Base == 'e'
	case "g":
		return first.Base != 'e'
	case "ng":
		return first.Base != 'i' && first.Base != 'e'
	case "q":
		return first.Base == 'u'
	}
	return true
}
