// Package composer turns the keys of one word into Vietnamese text and tells
// the host how to reconcile what it already shows with the new text.
//
// A Composer holds the characters of the word in progress, the raw keys
// that produced them and the English-word guard state. Every key yields a
// Result: either PassThrough, meaning the host should let the key through
// untouched, or Applied with the number of characters to erase and the text
// to insert in their place.
package composer

import (
	"github.com/rivo/uniseg"

	"goxviet/internal/guard"
	"goxviet/internal/history"
	"goxviet/internal/keys"
	"goxviet/internal/placement"
	"goxviet/internal/rules"
	"goxviet/internal/types"
	"goxviet/internal/validate"
	"goxviet/internal/viet"
)

// MaxWord is the longest word the composer tracks. A key arriving at a full
// buffer starts a new word.
const MaxWord = history.Capacity

type Options struct {
	Scheme    types.Scheme
	Placement types.PlacementStyle
	// FreeTone accepts a diacritic on any shape that has a vowel.
	FreeTone bool
	// SkipWShortcut keeps a w typed at the start of a word as w.
	SkipWShortcut bool
	// InstantRestore undoes the diacritics of a word as soon as the guard
	// decides it is English.
	InstantRestore bool
}

type Outcome int

const (
	PassThrough Outcome = iota
	Applied
)

func (o Outcome) String() string {
	if o == Applied {
		return "applied"
	}
	return "pass-through"
}

// Result tells the host what to do with a key. Backspace counts grapheme
// clusters on screen.
type Result struct {
	Outcome   Outcome
	Backspace int
	Text      string
}

func (r Result) Consumed() bool { return r.Outcome == Applied }

// Transform records one diacritic edit applied to the word.
type Transform struct {
	Index    int
	Kind     rules.OpKind
	Key      keys.Code
	Reverted bool
}

// Stats reports how often the syllable boundary cache answered a backspace
// and how the validator settled its checks.
type Stats struct {
	BoundaryHits   uint64
	BoundaryMisses uint64
	Validator      validate.Stats
}

// Snapshot is a copy of the word state, used to bring a committed word back.
type Snapshot struct {
	Chars []viet.Char
	Raw   []history.Entry
}

type Composer struct {
	opts      Options
	validator *validate.Validator

	chars      []viet.Char
	next       []viet.Char
	prev       []viet.Char
	trial      []viet.Char
	raw        *history.Raw
	guard      guard.State
	transforms []Transform

	// escaped is the toggle key that last reverted its own edit; pressing it
	// again types it literally.
	escaped    keys.Code
	hasEscaped bool

	boundaryAt    int
	boundaryValid bool
	hits, misses  uint64
}

func New(opts Options) *Composer {
	return &Composer{
		opts:      opts,
		validator: validate.New(validate.Options{FreeTone: opts.FreeTone}),
		chars:     make([]viet.Char, 0, MaxWord),
		next:      make([]viet.Char, 0, MaxWord),
		prev:      make([]viet.Char, 0, MaxWord),
		trial:     make([]viet.Char, 0, MaxWord+1),
		raw:       history.NewRaw(),
	}
}

// SetOptions changes how later keys are handled. The word in progress is
// kept as it is.
func (c *Composer) SetOptions(opts Options) {
	c.opts = opts
	c.validator.SetOptions(validate.Options{FreeTone: opts.FreeTone})
}

func (c *Composer) Options() Options { return c.opts }

func (c *Composer) Len() int { return len(c.chars) }

func (c *Composer) Empty() bool { return len(c.chars) == 0 }

// Text renders the word in progress.
func (c *Composer) Text() string { return viet.Render(c.chars) }

// Chars returns a copy of the word in progress.
func (c *Composer) Chars() []viet.Char {
	out := make([]viet.Char, len(c.chars))
	copy(out, c.chars)
	return out
}

// HasTransforms reports whether any character of the word differs from the
// key that typed it.
func (c *Composer) HasTransforms() bool {
	for _, ch := range c.chars {
		if !ch.Plain() {
			return true
		}
	}
	return false
}

// Foreign reports whether the guard has flagged the word as English.
func (c *Composer) Foreign() bool { return c.guard.Flagged() }

func (c *Composer) Guard() *guard.State { return &c.guard }

func (c *Composer) Transforms() []Transform {
	out := make([]Transform, len(c.transforms))
	copy(out, c.transforms)
	return out
}

func (c *Composer) Stats() Stats {
	return Stats{BoundaryHits: c.hits, BoundaryMisses: c.misses, Validator: c.validator.Stats()}
}

// RawText returns the keys of the word as a plain keyboard types them. When
// the word outgrew the key history, the keys are synthesized from the
// characters instead.
func (c *Composer) RawText() string {
	if !c.raw.Overflowed() {
		return c.raw.Text()
	}
	strokes, ok := rules.Keystrokes(c.chars, c.opts.Scheme)
	if !ok {
		return viet.ASCII(c.chars)
	}
	out := make([]rune, 0, len(strokes))
	for _, s := range strokes {
		if r := keys.ToChar(s.Code, s.Upper, false); r != 0 {
			out = append(out, r)
		}
	}
	return string(out)
}

// Reset drops the word, its key history, the guard state and the boundary
// cache together.
func (c *Composer) Reset() {
	c.chars = c.chars[:0]
	c.raw.Clear()
	c.guard.Reset()
	c.transforms = c.transforms[:0]
	c.hasEscaped = false
	c.invalidate()
}

func (c *Composer) Snapshot() Snapshot {
	return Snapshot{Chars: c.Chars(), Raw: c.raw.Entries()}
}

// Load replaces the word with a snapshot. The guard starts over.
func (c *Composer) Load(s Snapshot) {
	c.Reset()
	chars := s.Chars
	if len(chars) > MaxWord {
		chars = chars[:MaxWord]
	}
	c.chars = append(c.chars, chars...)
	c.raw.Load(s.Raw)
}

func (c *Composer) invalidate() {
	c.boundaryValid = false
	c.boundaryAt = 0
}

// boundary returns where the last syllable starts, rescanning only when a
// key crossed a syllable boundary since the last scan.
func (c *Composer) boundary() int {
	if c.boundaryValid {
		c.hits++
		return c.boundaryAt
	}
	c.misses++
	c.boundaryAt = viet.SyllableStart(c.chars)
	c.boundaryValid = true
	return c.boundaryAt
}

// crossing reports whether next following prev can start a new syllable.
func crossing(prev, next viet.Char) bool {
	return !prev.IsLetter() || !next.IsLetter() || (next.IsVowel() && prev.IsConsonant())
}

func (c *Composer) isToneKey(code keys.Code) bool {
	return rules.Resolve(code, c.opts.Scheme).Kind == rules.ToggleTone
}

func (c *Composer) record(t Transform) {
	if len(c.transforms) == MaxWord {
		copy(c.transforms, c.transforms[1:])
		c.transforms = c.transforms[:MaxWord-1]
	}
	c.transforms = append(c.transforms, t)
}

func (c *Composer) dropTransforms(from int) {
	kept := c.transforms[:0]
	for _, t := range c.transforms {
		if t.Index < from {
			kept = append(kept, t)
		}
	}
	c.transforms = kept
}

type step int

const (
	stepRejected step = iota
	stepApplied
	stepReverted
)

// Type handles a letter or digit key. upper reports whether the key types
// an uppercase letter.
func (c *Composer) Type(code keys.Code, upper bool) Result {
	op := rules.Resolve(code, c.opts.Scheme)
	if op.Kind == rules.NotApplicable {
		return Result{}
	}
	if len(c.chars) >= MaxWord {
		c.Reset()
	}
	if !keys.IsLetter(code) {
		upper = false
	}
	c.prev = append(c.prev[:0], c.chars...)
	c.next = append(c.next[:0], c.chars...)
	candidate := c.next

	typed := keys.ToChar(code, upper, false)
	flipped := c.guard.Observe(c.raw.Text()+string(typed), c.opts.Scheme)
	// the key that flags the word still takes back its own diacritic
	undo := flipped && c.undoes(op, upper)

	owner := len(candidate)
	switch {
	case c.guard.Flagged() && !undo:
		if op.Kind != rules.Letter {
			c.guard.Suppress(code, op.Kind)
		}
		if flipped && c.opts.InstantRestore && c.HasTransforms() {
			candidate = c.literalChars(candidate[:0])
		}
		owner = len(candidate)
		candidate = append(candidate, viet.Lit(op.Literal, upper))
		c.hasEscaped = false

	case op.Kind == rules.Letter || (c.hasEscaped && c.escaped == code):
		candidate, owner = c.appendLetter(candidate, op.Literal, upper)

	default:
		var st step
		var at int
		candidate, st, at = c.applyEdit(candidate, op, upper)
		switch st {
		case stepApplied:
			owner = at
			c.hasEscaped = false
			c.record(Transform{Index: at, Kind: op.Kind, Key: code})
		case stepReverted:
			owner = len(candidate) - 1
			if at != owner {
				c.raw.ReownLast(at, owner, func(k keys.Code) bool { return k == code })
			}
			c.escaped, c.hasEscaped = code, true
			c.record(Transform{Index: at, Kind: op.Kind, Key: code, Reverted: true})
		default:
			c.hasEscaped = false
			candidate = append(candidate[:0], c.chars...)
			candidate, owner = c.appendLetter(candidate, op.Literal, upper)
		}
	}
	if op.Kind == rules.Letter {
		c.hasEscaped = false
	}

	c.commit(candidate)
	c.raw.Push(code, upper, owner)
	return c.result(0, op.Literal, upper)
}

// appendLetter adds a plain letter, letting an earlier u or o pick up the
// horn of ươ and the tone follow the nucleus.
func (c *Composer) appendLetter(cs []viet.Char, r rune, upper bool) ([]viet.Char, int) {
	cs = append(cs, viet.Lit(r, upper))
	normalizeUO(cs)
	placement.Reposition(cs, c.opts.Placement)
	return cs, len(cs) - 1
}

// normalizeUO completes ươ once a letter follows the pair: both ưo and uơ
// become ươ. The u of qu is left alone.
func normalizeUO(cs []viet.Char) {
	n := len(cs)
	if n < 3 {
		return
	}
	u, o := &cs[n-3], &cs[n-2]
	if u.Base != 'u' || o.Base != 'o' {
		return
	}
	switch {
	case u.Mark == viet.MarkHorn && o.Mark == viet.MarkNone:
		o.Mark = viet.MarkHorn
	case u.Mark == viet.MarkNone && o.Mark == viet.MarkHorn:
		if n >= 4 && cs[n-4].Base == 'q' {
			return
		}
		u.Mark = viet.MarkHorn
	}
}

// literalChars rebuilds the word from its raw keys, one plain character per
// key.
func (c *Composer) literalChars(cs []viet.Char) []viet.Char {
	entries := c.raw.Entries()
	for i, e := range entries {
		cs = append(cs, viet.Lit(keys.ToChar(e.Code, false, false), e.Caps))
		entries[i].Owner = i
	}
	c.raw.Load(entries)
	c.transforms = c.transforms[:0]
	return cs
}

// undoes reports whether op would take a diacritic off the word rather than
// add one. The word itself is left as it is.
func (c *Composer) undoes(op rules.EditOp, upper bool) bool {
	if op.Kind == rules.Letter {
		return false
	}
	cs, st, _ := c.applyEdit(append(c.trial[:0], c.chars...), op, upper)
	c.trial = cs[:0]
	return st == stepReverted
}

// applyEdit tries a diacritic edit on cs. On stepApplied, at is the index of
// the edited character; on stepReverted, at is the character whose edit was
// undone and cs already ends with the literal key.
func (c *Composer) applyEdit(cs []viet.Char, op rules.EditOp, upper bool) ([]viet.Char, step, int) {
	var st step
	var at int
	switch op.Kind {
	case rules.ToggleTone:
		st, at = c.toggleTone(cs, op.Tone)
	case rules.ToggleMark:
		cs, st, at = c.toggleMark(cs, op, upper)
	case rules.ToggleStroke:
		st, at = c.toggleStroke(cs)
	case rules.RemoveMarks:
		st, at = removeMarks(cs)
	}
	switch st {
	case stepApplied:
		placement.Reposition(cs, c.opts.Placement)
		if c.validator.Check(cs, c.guard.Uncertain()) != validate.Valid {
			return cs, stepRejected, 0
		}
		if op.Kind == rules.ToggleTone {
			at, _ = viet.ToneOf(cs)
		}
	case stepReverted:
		// ww already turned the ư back into the w
		if cs[at].Base != 'w' {
			cs = append(cs, viet.Lit(op.Literal, upper))
		}
		placement.Reposition(cs, c.opts.Placement)
	}
	return cs, st, at
}

func (c *Composer) toggleTone(cs []viet.Char, tone viet.Tone) (step, int) {
	target := placement.ToneIndex(cs, c.opts.Placement)
	if target < 0 {
		return stepRejected, 0
	}
	at, current := viet.ToneOf(cs)
	if current == tone {
		cs[at].Tone = viet.ToneNone
		return stepReverted, at
	}
	if at >= 0 {
		cs[at].Tone = viet.ToneNone
	}
	cs[target].Tone = tone
	return stepApplied, target
}

func (c *Composer) toggleMark(cs []viet.Char, op rules.EditOp, upper bool) ([]viet.Char, step, int) {
	switch op.Mark {
	case rules.MarkCircumflex:
		st, at := setMark(cs, []int{placement.CircumflexTarget(cs, op.Target)}, viet.MarkCircumflex)
		return cs, st, at
	case rules.MarkBreve:
		st, at := setMark(cs, []int{placement.BreveTarget(cs)}, viet.MarkBreve)
		return cs, st, at
	case rules.MarkHorn:
		st, at := setMark(cs, placement.HornTargets(cs), viet.MarkHorn)
		return cs, st, at
	}
	return c.telexW(cs, upper)
}

// telexW resolves the Telex w key: a horn on u or o, a breve on a, or an ư
// of its own.
func (c *Composer) telexW(cs []viet.Char, upper bool) ([]viet.Char, step, int) {
	if n := len(cs); n > 0 && cs[n-1].FromW {
		// ww gives back a plain w
		cs[n-1] = viet.Lit('w', cs[n-1].Upper)
		return cs, stepReverted, n - 1
	}
	horn := placement.HornTargets(cs)
	switch {
	case len(horn) == 2:
		st, at := setMark(cs, horn, viet.MarkHorn)
		return cs, st, at
	case placement.PrefersBreve(cs):
		st, at := setMark(cs, []int{placement.BreveTarget(cs)}, viet.MarkBreve)
		return cs, st, at
	case len(horn) == 1:
		st, at := setMark(cs, horn, viet.MarkHorn)
		return cs, st, at
	case placement.BreveTarget(cs) >= 0:
		st, at := setMark(cs, []int{placement.BreveTarget(cs)}, viet.MarkBreve)
		return cs, st, at
	}
	if len(cs) == 0 && c.opts.SkipWShortcut {
		return cs, stepRejected, 0
	}
	cs = append(cs, viet.Char{Base: 'u', Upper: upper, Mark: viet.MarkHorn, FromW: true})
	return cs, stepApplied, len(cs) - 1
}

// setMark puts mark on every target, or takes it off when all of them
// already carry it.
func setMark(cs []viet.Char, targets []int, mark viet.Mark) (step, int) {
	if len(targets) == 0 || targets[0] < 0 {
		return stepRejected, 0
	}
	all := true
	for _, i := range targets {
		if cs[i].Mark != mark {
			all = false
		}
	}
	if all {
		for _, i := range targets {
			cs[i].Mark = viet.MarkNone
		}
		return stepReverted, targets[0]
	}
	for _, i := range targets {
		cs[i].Mark = mark
	}
	return stepApplied, targets[0]
}

func (c *Composer) toggleStroke(cs []viet.Char) (step, int) {
	at := -1
	if c.opts.Scheme == types.SchemeTelex {
		// Telex strokes only the d right before the key
		if n := len(cs); n > 0 && cs[n-1].Base == 'd' {
			at = n - 1
		}
	} else {
		for i, ch := range cs {
			if ch.Base == 'd' {
				at = i
				break
			}
		}
	}
	if at < 0 {
		return stepRejected, 0
	}
	if cs[at].Stroke {
		cs[at].Stroke = false
		return stepReverted, at
	}
	cs[at].Stroke = true
	return stepApplied, at
}

// removeMarks takes the tone off first and every other diacritic on a second
// press.
func removeMarks(cs []viet.Char) (step, int) {
	if at, tone := viet.ToneOf(cs); tone != viet.ToneNone {
		cs[at].Tone = viet.ToneNone
		return stepApplied, at
	}
	first := -1
	for i := range cs {
		ch := &cs[i]
		if ch.Mark == viet.MarkNone && !ch.Stroke && !ch.FromW {
			continue
		}
		if first < 0 {
			first = i
		}
		if ch.FromW {
			*ch = viet.Lit('w', ch.Upper)
			continue
		}
		ch.Mark = viet.MarkNone
		ch.Stroke = false
	}
	if first < 0 {
		return stepRejected, 0
	}
	return stepApplied, first
}

// commit makes candidate the word, moving the tone key along with a tone
// that changed places and dropping the boundary cache when the letter
// classes changed.
func (c *Composer) commit(candidate []viet.Char) {
	before, _ := viet.ToneOf(c.prev)
	after, _ := viet.ToneOf(candidate)
	if before >= 0 && after >= 0 && before != after {
		c.raw.ReownLast(before, after, c.isToneKey)
	}
	c.next = c.chars[:0]
	c.chars = candidate

	old := c.prev
	n := min(len(old), len(candidate))
	for i := 0; i < n; i++ {
		if old[i].IsVowel() != candidate[i].IsVowel() || old[i].IsLetter() != candidate[i].IsLetter() {
			c.invalidate()
			return
		}
	}
	for i := n; i < len(candidate); i++ {
		if i == 0 || crossing(candidate[i-1], candidate[i]) {
			c.invalidate()
			return
		}
	}
	if len(candidate) < len(old) {
		c.invalidate()
	}
}

// result diffs c.prev, the word as it was, against the word now from index
// start on. A key whose only effect is to add its own character passes
// through.
func (c *Composer) result(start int, literal rune, upper bool) Result {
	old := c.prev[start:]
	cur := c.chars[start:]
	i := 0
	for i < len(old) && i < len(cur) && old[i] == cur[i] {
		i++
	}
	if i == len(old) && len(cur) == len(old)+1 && literal != 0 && cur[i] == viet.Lit(literal, upper) {
		return Result{}
	}
	if i == len(old) && i == len(cur) {
		return Result{Outcome: Applied}
	}
	return Result{
		Outcome:   Applied,
		Backspace: uniseg.GraphemeClusterCount(viet.Render(old[i:])),
		Text:      viet.Render(cur[i:]),
	}
}

// Backspace deletes the last character of the word. A plain character in a
// toneless word is popped directly; otherwise the last syllable is rebuilt
// and only the part of it that changed is rewritten.
func (c *Composer) Backspace() Result {
	n := len(c.chars)
	if n == 0 {
		return Result{}
	}
	i := n - 1
	last := c.chars[i]
	c.hasEscaped = false

	if at, _ := viet.ToneOf(c.chars); last.Plain() && at < 0 {
		c.chars = c.chars[:i]
		c.raw.DropOwnedFrom(i)
		c.dropTransforms(i)
		if i == 0 {
			c.Reset()
		} else if crossing(c.chars[i-1], last) {
			c.invalidate()
		}
		return Result{Outcome: Applied, Backspace: 1}
	}

	start := min(c.boundary(), i)
	c.prev = append(c.prev[:0], c.chars...)
	before, _ := viet.ToneOf(c.chars)

	c.chars = c.chars[:i]
	c.raw.DropOwnedFrom(i)
	c.dropTransforms(i)
	if i == 0 || crossing(c.chars[i-1], last) {
		c.invalidate()
	}
	if placement.Reposition(c.chars, c.opts.Placement) {
		after, _ := viet.ToneOf(c.chars)
		c.raw.ReownLast(before, after, c.isToneKey)
	}
	// a repositioned tone can change a character before the syllable start
	for j := 0; j < start; j++ {
		if c.prev[j] != c.chars[j] {
			start = j
			break
		}
	}

	res := c.result(start, 0, false)
	if len(c.chars) == 0 {
		c.Reset()
	}
	return res
}

// Reverted reports whether the word shows no diacritics but took more keys
// than it has characters, as "ass" typed for "as" does.
func (c *Composer) Reverted() bool {
	return !c.raw.Overflowed() && c.raw.Len() > len(c.chars) && !c.HasTransforms()
}

// DeleteWord erases the whole word.
func (c *Composer) DeleteWord() Result {
	if len(c.chars) == 0 {
		return Result{}
	}
	res := Result{Outcome: Applied, Backspace: uniseg.GraphemeClusterCount(viet.Render(c.chars))}
	c.Reset()
	return res
}

// Restore replaces the word on screen with the keys that typed it and
// starts a new word. It does nothing when the word on screen already equals
// its keys.
func (c *Composer) Restore() (Result, bool) {
	if !c.HasTransforms() && !c.Reverted() {
		return Result{}, false
	}
	res := Result{
		Outcome:   Applied,
		Backspace: uniseg.GraphemeClusterCount(viet.Render(c.chars)),
		Text:      c.RawText(),
	}
	c.Reset()
	return res, true
}
