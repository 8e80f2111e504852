// Package rules maps a key and an input scheme to the edit it asks for.
// Resolution is a pure table lookup; whether the edit can be applied is
// decided later against the word being composed.
package rules

import (
	"goxviet/internal/keys"
	"goxviet/internal/types"
	"goxviet/internal/viet"
)

type OpKind int

const (
	NotApplicable OpKind = iota
	Letter
	ToggleTone
	ToggleMark
	ToggleStroke
	RemoveMarks
)

func (k OpKind) String() string {
	switch k {
	case NotApplicable:
		return "not-applicable"
	case Letter:
		return "letter"
	case ToggleTone:
		return "tone"
	case ToggleMark:
		return "mark"
	case ToggleStroke:
		return "stroke"
	case RemoveMarks:
		return "remove"
	default:
		return "unknown"
	}
}

// MarkKind names the mark a ToggleMark edit asks for. MarkHornOrBreve is the
// Telex w key, which gives ư, ơ or ă depending on the vowels present.
type MarkKind int

const (
	MarkCircumflex MarkKind = iota
	MarkBreve
	MarkHorn
	MarkHornOrBreve
)

// EditOp is the semantic action a key asks for. Literal is the character the
// key types when the action cannot apply; Target restricts a circumflex to
// one base vowel (zero means any of a, e, o).
type EditOp struct {
	Kind    OpKind
	Tone    viet.Tone
	Mark    MarkKind
	Target  rune
	Literal rune
}

type entry struct {
	kind   OpKind
	tone   viet.Tone
	mark   MarkKind
	target rune
}

var telexTable = map[keys.Code]entry{
	keys.S: {kind: ToggleTone, tone: viet.ToneAcute},
	keys.F: {kind: ToggleTone, tone: viet.ToneGrave},
	keys.R: {kind: ToggleTone, tone: viet.ToneHook},
	keys.X: {kind: ToggleTone, tone: viet.ToneTilde},
	keys.J: {kind: ToggleTone, tone: viet.ToneDot},
	keys.Z: {kind: RemoveMarks},
	keys.A: {kind: ToggleMark, mark: MarkCircumflex, target: 'a'},
	keys.E: {kind: ToggleMark, mark: MarkCircumflex, target: 'e'},
	keys.O: {kind: ToggleMark, mark: MarkCircumflex, target: 'o'},
	keys.W: {kind: ToggleMark, mark: MarkHornOrBreve},
	keys.D: {kind: ToggleStroke},
}

var vniTable = map[keys.Code]entry{
	keys.N1: {kind: ToggleTone, tone: viet.ToneAcute},
	keys.N2: {kind: ToggleTone, tone: viet.ToneGrave},
	keys.N3: {kind: ToggleTone, tone: viet.ToneHook},
	keys.N4: {kind: ToggleTone, tone: viet.ToneTilde},
	keys.N5: {kind: ToggleTone, tone: viet.ToneDot},
	keys.N6: {kind: ToggleMark, mark: MarkCircumflex},
	keys.N7: {kind: ToggleMark, mark: MarkHorn},
	keys.N8: {kind: ToggleMark, mark: MarkBreve},
	keys.N9: {kind: ToggleStroke},
	keys.N0: {kind: RemoveMarks},
}

func table(scheme types.Scheme) map[keys.Code]entry {
	if scheme == types.SchemeVNI {
		return vniTable
	}
	return telexTable
}

// Resolve returns the edit a key asks for under scheme. Letters and digits
// without a rule resolve to Letter; everything else is NotApplicable.
func Resolve(code keys.Code, scheme types.Scheme) EditOp {
	literal, printable := keys.Letter(code)
	if !printable {
		literal, printable = keys.Digit(code)
	}
	if !printable {
		return EditOp{Kind: NotApplicable}
	}
	if e, ok := table(scheme)[code]; ok {
		return EditOp{Kind: e.kind, Tone: e.tone, Mark: e.mark, Target: e.target, Literal: literal}
	}
	if keys.IsDigit(code) && scheme == types.SchemeTelex {
		return EditOp{Kind: NotApplicable, Literal: literal}
	}
	return EditOp{Kind: Letter, Literal: literal}
}

// IsModifier reports whether the key carries a rule under scheme.
func IsModifier(code keys.Code, scheme types.Scheme) bool {
	_, ok := table(scheme)[code]
	return ok
}
