// Package engine wraps a composer, a shortcut table and the committed-word
// history behind one instance that turns key events into edit instructions.
//
// An Engine is not safe for concurrent use. Hosts deliver keys from a single
// dispatch thread; separate engines share nothing and may run side by side.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rivo/uniseg"

	"goxviet/internal/composer"
	"goxviet/internal/dictionary"
	"goxviet/internal/history"
	"goxviet/internal/keys"
	"goxviet/internal/logging"
	"goxviet/internal/rules"
	"goxviet/internal/shortcut"
	"goxviet/internal/types"
	"goxviet/internal/viet"
)

// ErrInvalidState is returned by operations on a closed engine.
var ErrInvalidState = errors.New("engine is not in a usable state")

// WordHistory is how many committed words backspace can bring back.
const WordHistory = 10

type Config struct {
	Scheme    types.Scheme
	Placement types.PlacementStyle
	// SmartMode undoes diacritics at a space when the keys spell a known
	// English word that is not a Vietnamese syllable.
	SmartMode bool
	// EscRestore makes Esc give back the keys of the word.
	EscRestore         bool
	FreeToneValidation bool
	SkipWShortcut      bool
	ShortcutsEnabled   bool
	InstantRestore     bool
}

func DefaultConfig() Config {
	return Config{
		Scheme:           types.SchemeTelex,
		Placement:        types.PlacementModern,
		SmartMode:        true,
		EscRestore:       true,
		ShortcutsEnabled: true,
		InstantRestore:   true,
	}
}

func (c Config) composerOptions() composer.Options {
	return composer.Options{
		Scheme:         c.Scheme,
		Placement:      c.Placement,
		FreeTone:       c.FreeToneValidation,
		SkipWShortcut:  c.SkipWShortcut,
		InstantRestore: c.InstantRestore,
	}
}

// KeyEvent is one key press as the host saw it.
type KeyEvent struct {
	Code  keys.Code
	Caps  bool
	Ctrl  bool
	Shift bool
}

// Result tells the host to let the key through, or to erase Backspace
// characters before the caret and insert Text.
type Result struct {
	Consumed  bool
	Backspace int
	Text      string
}

func fromComposer(r composer.Result) Result {
	return Result{Consumed: r.Consumed(), Backspace: r.Backspace, Text: r.Text}
}

type Stats struct {
	composer.Stats
	Shortcuts      int
	CommittedWords int
}

type Engine struct {
	cfg       Config
	composer  *composer.Composer
	shortcuts *shortcut.Table
	dict      *dictionary.Dictionary
	logger    *slog.Logger

	words           []composer.Snapshot
	spacesAfter     int
	nonLetterPrefix bool
	closed          bool
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithDictionary(dict *dictionary.Dictionary) Option {
	return func(e *Engine) { e.dict = dict }
}

func WithShortcuts(table *shortcut.Table) Option {
	return func(e *Engine) {
		if table != nil {
			e.shortcuts = table
		}
	}
}

func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:       cfg,
		composer:  composer.New(cfg.composerOptions()),
		shortcuts: shortcut.New(),
		logger:    logging.Discard(),
		words:     make([]composer.Snapshot, 0, WordHistory),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.dict == nil {
		e.dict = dictionary.Default()
	}
	return e
}

func (e *Engine) debug(msg string, args ...any) {
	if e.logger.Enabled(context.Background(), slog.LevelDebug) {
		e.logger.Debug(msg, args...)
	}
}

// ProcessKey handles one key press.
func (e *Engine) ProcessKey(ev KeyEvent) Result {
	if e == nil || e.closed {
		return Result{}
	}
	switch {
	case ev.Ctrl:
		e.commit(false)
		e.dropWords()
		return Result{}
	case ev.Code == keys.Delete:
		return e.backspace(ev.Shift)
	case ev.Code == keys.Esc:
		return e.escape()
	case ev.Code == keys.Space:
		return e.space()
	}

	op := rules.Resolve(ev.Code, e.cfg.Scheme)
	if op.Kind == rules.NotApplicable || (ev.Shift && keys.IsDigit(ev.Code)) {
		return e.breakWord(ev)
	}

	if e.composer.Empty() {
		e.spacesAfter = 0
	}
	upper := ev.Caps != ev.Shift
	flagged := e.composer.Foreign()
	res := e.composer.Type(ev.Code, upper)
	if !flagged && e.composer.Foreign() {
		e.debug("word flagged as foreign", "raw", e.composer.RawText(), "score", e.composer.Guard().Score())
	}
	return fromComposer(res)
}

func (e *Engine) backspace(word bool) Result {
	if word {
		return fromComposer(e.composer.DeleteWord())
	}
	if !e.composer.Empty() {
		return fromComposer(e.composer.Backspace())
	}
	if e.spacesAfter > 0 {
		e.spacesAfter--
		if e.spacesAfter == 0 && len(e.words) > 0 {
			last := e.words[len(e.words)-1]
			e.words = e.words[:len(e.words)-1]
			e.composer.Load(last)
			e.nonLetterPrefix = false
			e.debug("restored committed word", "text", e.composer.Text())
		}
		return Result{}
	}
	// erasing text the engine never saw
	e.nonLetterPrefix = true
	return Result{}
}

func (e *Engine) escape() Result {
	if e.cfg.EscRestore {
		if res, ok := e.composer.Restore(); ok {
			e.dropWords()
			return fromComposer(res)
		}
	}
	e.commit(false)
	return Result{}
}

func (e *Engine) space() Result {
	if e.composer.Empty() {
		if e.spacesAfter > 0 {
			e.spacesAfter++
		}
		return Result{}
	}
	if res, ok := e.expandShortcut(); ok {
		return res
	}
	if res, ok := e.autoRestore(" "); ok {
		return res
	}
	e.commit(true)
	return Result{}
}

func (e *Engine) breakWord(ev KeyEvent) Result {
	if ch := keys.ToChar(ev.Code, false, ev.Shift); ch != 0 && ch != '\n' && ch != '\t' {
		if res, ok := e.autoRestore(string(ch)); ok {
			return res
		}
	}
	e.commit(false)
	e.dropWords()
	return Result{}
}

func (e *Engine) expandShortcut() (Result, bool) {
	if !e.cfg.ShortcutsEnabled || e.nonLetterPrefix || e.shortcuts.Len() == 0 {
		return Result{}, false
	}
	word := e.composer.Text()
	expansion, ok := e.shortcuts.Lookup(word, e.cfg.Scheme)
	if !ok {
		return Result{}, false
	}
	e.debug("expanded shortcut", "trigger", word)
	res := Result{
		Consumed:  true,
		Backspace: uniseg.GraphemeClusterCount(word),
		Text:      expansion + " ",
	}
	e.commit(false)
	e.dropWords()
	return res, true
}

// autoRestore gives back the keys of a word that differs from them when the
// guard flagged it, or in smart mode when the keys spell a dictionary word,
// followed by tail.
func (e *Engine) autoRestore(tail string) (Result, bool) {
	c := e.composer
	if !c.HasTransforms() && !c.Reverted() {
		return Result{}, false
	}
	foreign := c.Foreign()
	if !foreign && e.cfg.SmartMode {
		foreign = e.dict.Contains(c.RawText())
	}
	if !foreign {
		return Result{}, false
	}
	res, _ := c.Restore()
	e.debug("restored foreign word", "raw", res.Text)
	res.Text += tail
	e.nonLetterPrefix = false
	e.dropWords()
	return fromComposer(res), true
}

// commit ends the word. A word ended by a space is remembered so that
// deleting the space brings it back.
func (e *Engine) commit(remember bool) {
	if remember && !e.composer.Empty() {
		if len(e.words) == WordHistory {
			copy(e.words, e.words[1:])
			e.words = e.words[:WordHistory-1]
		}
		e.words = append(e.words, e.composer.Snapshot())
		e.spacesAfter = 1
	} else {
		e.spacesAfter = 0
	}
	e.composer.Reset()
	e.nonLetterPrefix = false
}

func (e *Engine) dropWords() {
	e.words = e.words[:0]
	e.spacesAfter = 0
}

// Restore gives back the keys of the word in progress, as Esc does.
func (e *Engine) Restore() (Result, bool) {
	if e == nil || e.closed {
		return Result{}, false
	}
	res, ok := e.composer.Restore()
	return fromComposer(res), ok
}

// RestoreWord reseeds the word in progress from Vietnamese text already on
// screen, so later keys edit it as if it had just been typed.
func (e *Engine) RestoreWord(text string) error {
	if e == nil || e.closed {
		return ErrInvalidState
	}
	chars, ok := viet.Parse(text)
	if !ok || len(chars) == 0 {
		return fmt.Errorf("restore word %q: not a Vietnamese word", text)
	}
	if len(chars) > composer.MaxWord {
		return fmt.Errorf("restore word %q: longer than %d characters", text, composer.MaxWord)
	}
	strokes, ok := rules.Keystrokes(chars, e.cfg.Scheme)
	if !ok {
		return fmt.Errorf("restore word %q: no %s keys type it", text, e.cfg.Scheme)
	}
	raw := make([]history.Entry, len(strokes))
	for i, s := range strokes {
		raw[i] = history.Entry{Code: s.Code, Caps: s.Upper, Owner: s.Owner}
	}
	e.composer.Load(composer.Snapshot{Chars: chars, Raw: raw})
	e.spacesAfter = 0
	e.nonLetterPrefix = false
	return nil
}

// ResetBuffer drops the word in progress. It is safe to call repeatedly.
func (e *Engine) ResetBuffer() error {
	if e == nil || e.closed {
		return ErrInvalidState
	}
	e.composer.Reset()
	e.nonLetterPrefix = false
	return nil
}

// ResetAll drops the word in progress and the committed words.
func (e *Engine) ResetAll() error {
	if err := e.ResetBuffer(); err != nil {
		return err
	}
	e.dropWords()
	e.debug("engine reset")
	return nil
}

// Close marks the engine unusable. Later calls report ErrInvalidState.
func (e *Engine) Close() error {
	if e == nil || e.closed {
		return ErrInvalidState
	}
	e.composer.Reset()
	e.dropWords()
	e.closed = true
	return nil
}

func (e *Engine) Closed() bool { return e == nil || e.closed }

// SetConfig applies cfg to the keys that follow. The word in progress is
// kept.
func (e *Engine) SetConfig(cfg Config) error {
	if e == nil || e.closed {
		return ErrInvalidState
	}
	e.cfg = cfg
	e.composer.SetOptions(cfg.composerOptions())
	return nil
}

func (e *Engine) Config() Config { return e.cfg }

// Text is the word in progress as shown on screen.
func (e *Engine) Text() string { return e.composer.Text() }

func (e *Engine) RawText() string { return e.composer.RawText() }

func (e *Engine) Shortcuts() *shortcut.Table { return e.shortcuts }

func (e *Engine) AddShortcut(trigger, expansion string) error {
	if e == nil || e.closed {
		return ErrInvalidState
	}
	return e.shortcuts.Add(trigger, expansion)
}

func (e *Engine) RemoveShortcut(trigger string) error {
	if e == nil || e.closed {
		return ErrInvalidState
	}
	return e.shortcuts.Remove(trigger)
}

func (e *Engine) ClearShortcuts() error {
	if e == nil || e.closed {
		return ErrInvalidState
	}
	e.shortcuts.Clear()
	return nil
}

func (e *Engine) ShortcutCount() int { return e.shortcuts.Len() }

func (e *Engine) SetShortcutsEnabled(enabled bool) error {
	if e == nil || e.closed {
		return ErrInvalidState
	}
	e.cfg.ShortcutsEnabled = enabled
	return nil
}

func (e *Engine) Stats() Stats {
	return Stats{
		Stats:          e.composer.Stats(),
		Shortcuts:      e.shortcuts.Len(),
		CommittedWords: len(e.words),
	}
}
