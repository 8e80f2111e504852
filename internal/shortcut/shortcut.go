// Package shortcut holds the abbreviation table expanded when a word is
// committed with a space.
package shortcut

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"goxviet/internal/types"
)

const (
	// Capacity is the most entries a table holds.
	Capacity = 200
	// MaxTrigger bounds the length of a trigger in runes.
	MaxTrigger = 32
	// MaxExpansion bounds the length of an expansion in runes. Longer
	// expansions are cut at a character boundary.
	MaxExpansion = 63
)

var (
	ErrCapacity       = errors.New("shortcut table is full")
	ErrExists         = errors.New("shortcut already exists")
	ErrNotFound       = errors.New("shortcut not found")
	ErrInvalidTrigger = errors.New("invalid shortcut trigger")
)

// Scope limits an entry to one input scheme.
type Scope int

const (
	ScopeAny Scope = iota
	ScopeTelex
	ScopeVNI
)

func (s Scope) String() string {
	switch s {
	case ScopeTelex:
		return "telex"
	case ScopeVNI:
		return "vni"
	default:
		return "any"
	}
}

// ParseScope accepts the names written by String; an empty name is ScopeAny.
func ParseScope(name string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "any", "all":
		return ScopeAny, nil
	case "telex":
		return ScopeTelex, nil
	case "vni":
		return ScopeVNI, nil
	default:
		return ScopeAny, fmt.Errorf("unknown shortcut scope %q", name)
	}
}

func (s Scope) matches(scheme types.Scheme) bool {
	switch s {
	case ScopeTelex:
		return scheme == types.SchemeTelex
	case ScopeVNI:
		return scheme == types.SchemeVNI
	default:
		return true
	}
}

type Entry struct {
	Trigger   string
	Expansion string
	Scope     Scope
}

// Table maps lowercase triggers to expansions. It is not safe for concurrent
// use; it belongs to one engine.
type Table struct {
	entries map[string]Entry
}

func New() *Table {
	return &Table{entries: make(map[string]Entry)}
}

func normalizeTrigger(trigger string) (string, error) {
	trigger = strings.TrimSpace(trigger)
	n := utf8.RuneCountInString(trigger)
	if n == 0 || n > MaxTrigger {
		return "", fmt.Errorf("%w: %q", ErrInvalidTrigger, trigger)
	}
	if strings.IndexFunc(trigger, unicode.IsSpace) >= 0 {
		return "", fmt.Errorf("%w: %q contains whitespace", ErrInvalidTrigger, trigger)
	}
	return strings.ToLower(trigger), nil
}

// truncate cuts s to at most MaxExpansion runes without splitting a
// grapheme cluster.
func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxExpansion {
		return s
	}
	var b strings.Builder
	runes := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cluster := gr.Runes()
		if runes+len(cluster) > MaxExpansion {
			break
		}
		runes += len(cluster)
		b.WriteString(gr.Str())
	}
	return b.String()
}

// Add stores an entry usable with every scheme. An existing trigger is
// replaced in place and does not count against the capacity.
func (t *Table) Add(trigger, expansion string) error {
	return t.AddScoped(trigger, expansion, ScopeAny)
}

func (t *Table) AddScoped(trigger, expansion string, scope Scope) error {
	key, err := normalizeTrigger(trigger)
	if err != nil {
		return err
	}
	if _, ok := t.entries[key]; !ok && len(t.entries) >= Capacity {
		return ErrCapacity
	}
	t.entries[key] = Entry{Trigger: key, Expansion: truncate(expansion), Scope: scope}
	return nil
}

// Create is Add without replacement.
func (t *Table) Create(trigger, expansion string) error {
	key, err := normalizeTrigger(trigger)
	if err != nil {
		return err
	}
	if _, ok := t.entries[key]; ok {
		return fmt.Errorf("%w: %q", ErrExists, key)
	}
	return t.Add(key, expansion)
}

func (t *Table) Remove(trigger string) error {
	key, err := normalizeTrigger(trigger)
	if err != nil {
		return err
	}
	if _, ok := t.entries[key]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	delete(t.entries, key)
	return nil
}

func (t *Table) Clear() {
	clear(t.entries)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Lookup finds the expansion for a typed word and adapts its case: an all
// caps word gives an all caps expansion, a capitalized word a capitalized
// one.
func (t *Table) Lookup(word string, scheme types.Scheme) (string, bool) {
	if t == nil || len(t.entries) == 0 || word == "" {
		return "", false
	}
	e, ok := t.entries[strings.ToLower(word)]
	if !ok || !e.Scope.matches(scheme) {
		return "", false
	}
	return adaptCase(word, e.Expansion), true
}

func adaptCase(word, expansion string) string {
	first, _ := utf8.DecodeRuneInString(word)
	if !unicode.IsUpper(first) {
		return expansion
	}
	if utf8.RuneCountInString(word) > 1 && isAllUpper(word) {
		return strings.ToUpper(expansion)
	}
	r, size := utf8.DecodeRuneInString(expansion)
	return string(unicode.ToUpper(r)) + expansion[size:]
}

func isAllUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// Entries returns the table sorted by trigger.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Trigger < out[j].Trigger })
	return out
}

// Export writes the table as tab-separated lines. Scoped entries carry the
// scope in a third column.
func (t *Table) Export(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range t.Entries() {
		line := e.Trigger + "\t" + e.Expansion
		if e.Scope != ScopeAny {
			line += "\t" + e.Scope.String()
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Import reads tab-separated trigger and expansion lines, the format Export
// writes. Blank lines and lines starting with # or ; are skipped. Import
// stops at the first entry the table rejects and returns how many entries
// it stored before that.
func (t *Table) Import(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	added := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";") {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 2 {
			return added, fmt.Errorf("line %d: expected trigger<TAB>expansion", lineNo)
		}
		scope := ScopeAny
		if len(parts) == 3 {
			s, err := ParseScope(parts[2])
			if err != nil {
				return added, fmt.Errorf("line %d: %w", lineNo, err)
			}
			scope = s
		}
		if err := t.AddScoped(parts[0], strings.TrimSpace(parts[1]), scope); err != nil {
			return added, fmt.Errorf("line %d: %w", lineNo, err)
		}
		added++
	}
	if err := scanner.Err(); err != nil {
		return added, err
	}
	return added, nil
}
