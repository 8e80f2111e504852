package api

import (
	"goxviet/internal/engine"
	"goxviet/internal/keys"
	"goxviet/internal/types"
)

// The structs below cross the language boundary. Field order, widths and
// padding are fixed and mirrored by goxviet.h; the offsets are published as
// constants and checked by the tests.

const ptrSize = 4 << (^uintptr(0) >> 63)

// KeyEvent is one key press. Booleans are 0 or 1.
type KeyEvent struct {
	KeyCode uint16
	Caps    uint8
	Ctrl    uint8
	Shift   uint8
	_       [3]byte
}

const (
	KeyEventSize          = 8
	KeyEventOffsetKeyCode = 0
	KeyEventOffsetCaps    = 2
	KeyEventOffsetCtrl    = 3
	KeyEventOffsetShift   = 4
)

// ProcessResult is written by ProcessKey and Restore. Text points at a
// NUL-terminated UTF-8 string owned by the caller once written; release it
// with FreeString. Text is 0 when there is nothing to insert.
type ProcessResult struct {
	Text           uintptr
	BackspaceCount uint32
	Consumed       uint8
	_              [3]byte
}

const (
	ProcessResultSize                 = ptrSize + 8
	ProcessResultOffsetText           = 0
	ProcessResultOffsetBackspaceCount = ptrSize
	ProcessResultOffsetConsumed       = ptrSize + 4
)

type Config struct {
	Scheme             uint32
	Placement          uint32
	SmartMode          uint8
	EscRestore         uint8
	FreeToneValidation uint8
	SkipWShortcut      uint8
	ShortcutsEnabled   uint8
	InstantRestore     uint8
	_                  [2]byte
}

const (
	ConfigSize                     = 16
	ConfigOffsetScheme             = 0
	ConfigOffsetPlacement          = 4
	ConfigOffsetSmartMode          = 8
	ConfigOffsetEscRestore         = 9
	ConfigOffsetFreeToneValidation = 10
	ConfigOffsetSkipWShortcut      = 11
	ConfigOffsetShortcutsEnabled   = 12
	ConfigOffsetInstantRestore     = 13
)

type VersionInfo struct {
	Major      uint32
	Minor      uint32
	Patch      uint32
	APIVersion uint32
}

const VersionInfoSize = 16

const (
	VersionMajor = 1
	VersionMinor = 2
	VersionPatch = 0
	// APIVersion changes whenever a struct above changes shape.
	APIVersion = 2
)

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (ev *KeyEvent) toEngine() engine.KeyEvent {
	return engine.KeyEvent{
		Code:  keys.Code(ev.KeyCode),
		Caps:  ev.Caps != 0,
		Ctrl:  ev.Ctrl != 0,
		Shift: ev.Shift != 0,
	}
}

// DefaultConfig returns the engine defaults in boundary form.
func DefaultConfig() Config {
	return ConfigFrom(engine.DefaultConfig())
}

// ConfigFrom converts engine settings to boundary form.
func ConfigFrom(c engine.Config) Config {
	return Config{
		Scheme:             uint32(c.Scheme),
		Placement:          uint32(c.Placement),
		SmartMode:          flag(c.SmartMode),
		EscRestore:         flag(c.EscRestore),
		FreeToneValidation: flag(c.FreeToneValidation),
		SkipWShortcut:      flag(c.SkipWShortcut),
		ShortcutsEnabled:   flag(c.ShortcutsEnabled),
		InstantRestore:     flag(c.InstantRestore),
	}
}

// toEngine rejects scheme and placement values no engine knows.
func (c *Config) toEngine() (engine.Config, bool) {
	if c.Scheme > uint32(types.SchemeVNI) || c.Placement > uint32(types.PlacementTraditional) {
		return engine.Config{}, false
	}
	return engine.Config{
		Scheme:             types.Scheme(c.Scheme),
		Placement:          types.PlacementStyle(c.Placement),
		SmartMode:          c.SmartMode != 0,
		EscRestore:         c.EscRestore != 0,
		FreeToneValidation: c.FreeToneValidation != 0,
		SkipWShortcut:      c.SkipWShortcut != 0,
		ShortcutsEnabled:   c.ShortcutsEnabled != 0,
		InstantRestore:     c.InstantRestore != 0,
	}, true
}
