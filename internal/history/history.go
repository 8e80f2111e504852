// Package history keeps the raw keystrokes of the word being composed so the
// word can be restored to exactly what was typed.
package history

import (
	"goxviet/internal/keys"
)

// Capacity bounds the number of keystrokes one word can remember.
const Capacity = 64

// Entry is one raw keystroke. Owner is the index of the composed character
// the keystroke currently contributes to.
type Entry struct {
	Code  keys.Code
	Caps  bool
	Owner int
}

// Raw is a fixed-size ring of keystrokes. When full, the oldest entry is
// overwritten and Overflowed reports true until the next Clear.
type Raw struct {
	entries    [Capacity]Entry
	head       int
	size       int
	overflowed bool
}

func NewRaw() *Raw {
	return &Raw{}
}

func (r *Raw) Len() int { return r.size }

func (r *Raw) Overflowed() bool { return r.overflowed }

func (r *Raw) index(i int) int { return (r.head + i) % Capacity }

func (r *Raw) Push(code keys.Code, caps bool, owner int) {
	if r.size == Capacity {
		r.head = (r.head + 1) % Capacity
		r.size--
		r.overflowed = true
	}
	r.entries[r.index(r.size)] = Entry{Code: code, Caps: caps, Owner: owner}
	r.size++
}

// At returns the i-th oldest entry.
func (r *Raw) At(i int) Entry {
	return r.entries[r.index(i)]
}

// Last returns the newest entry.
func (r *Raw) Last() (Entry, bool) {
	if r.size == 0 {
		return Entry{}, false
	}
	return r.At(r.size - 1), true
}

// ReownLast gives the newest entry owned by from whose key satisfies match
// to owner to. It reports whether such an entry exists.
func (r *Raw) ReownLast(from, to int, match func(keys.Code) bool) bool {
	for i := r.size - 1; i >= 0; i-- {
		e := &r.entries[r.index(i)]
		if e.Owner == from && match(e.Code) {
			e.Owner = to
			return true
		}
	}
	return false
}

// DropOwnedFrom removes every entry owned by index owner or later, keeping
// the order of the rest.
func (r *Raw) DropOwnedFrom(owner int) {
	// common case: only the newest entries belong to the removed character
	for r.size > 0 && r.At(r.size-1).Owner >= owner {
		r.size--
	}
	kept := 0
	for i := 0; i < r.size; i++ {
		e := r.At(i)
		if e.Owner >= owner {
			continue
		}
		r.entries[r.index(kept)] = e
		kept++
	}
	r.size = kept
}

// Entries returns a copy of the stored keystrokes, oldest first.
func (r *Raw) Entries() []Entry {
	out := make([]Entry, r.size)
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}

// Load replaces the contents with entries, keeping the newest Capacity.
func (r *Raw) Load(entries []Entry) {
	r.Clear()
	for _, e := range entries {
		r.Push(e.Code, e.Caps, e.Owner)
	}
}

// Text renders the keystrokes as the characters a plain keyboard would type.
func (r *Raw) Text() string {
	out := make([]rune, 0, r.size)
	for i := 0; i < r.size; i++ {
		e := r.At(i)
		if ch := keys.ToChar(e.Code, e.Caps, false); ch != 0 {
			out = append(out, ch)
		}
	}
	return string(out)
}

func (r *Raw) Clear() {
	r.head = 0
	r.size = 0
	r.overflowed = false
}
