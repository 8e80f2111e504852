package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goxviet/internal/cli"
	"goxviet/internal/config"
	"goxviet/internal/emitter"
	"goxviet/internal/keys"
	"goxviet/internal/logging"
	"goxviet/internal/types"
	"goxviet/pkg/api"
)

func keyEvents(input string) []keyboard.KeyEvent {
	events := make([]keyboard.KeyEvent, 0, len(input))
	for _, r := range input {
		switch r {
		case ' ':
			events = append(events, keyboard.KeyEvent{Key: keyboard.KeySpace})
		case '\b':
			events = append(events, keyboard.KeyEvent{Key: keyboard.KeyBackspace2})
		case '\x1b':
			events = append(events, keyboard.KeyEvent{Key: keyboard.KeyEsc})
		default:
			events = append(events, keyboard.KeyEvent{Rune: r})
		}
	}
	return events
}

func newSession(t *testing.T, cfg api.Config) (*Session, *emitter.Terminal, api.Handle) {
	t.Helper()
	var h api.Handle
	require.Equal(t, api.Success, api.CreateEngine(&cfg, &h))
	t.Cleanup(func() { api.DestroyEngine(h) })
	term := emitter.NewTerminal(&bytes.Buffer{})
	return NewSession(h, term, logging.Discard()), term, h
}

func typeInto(t *testing.T, s *Session, input string) {
	t.Helper()
	for _, ev := range keyEvents(input) {
		require.NoError(t, s.HandleKey(ev))
	}
}

func TestTranslate(t *testing.T) {
	ev, typed, ok := Translate(keyboard.KeyEvent{Rune: 'V'})
	require.True(t, ok)
	assert.Equal(t, uint16(keys.V), ev.KeyCode)
	assert.Equal(t, uint8(1), ev.Shift)
	assert.Equal(t, "V", typed)

	ev, typed, ok = Translate(keyboard.KeyEvent{Rune: '!'})
	require.True(t, ok)
	assert.Equal(t, uint16(keys.N1), ev.KeyCode)
	assert.Equal(t, uint8(1), ev.Shift)
	assert.Equal(t, "!", typed)

	ev, typed, ok = Translate(keyboard.KeyEvent{Key: keyboard.KeyBackspace2})
	require.True(t, ok)
	assert.Equal(t, uint16(keys.Delete), ev.KeyCode)
	assert.Equal(t, "\b", typed)

	ev, _, ok = Translate(keyboard.KeyEvent{Key: keyboard.KeyCtrlA})
	require.True(t, ok)
	assert.Equal(t, uint16(keys.A), ev.KeyCode)
	assert.Equal(t, uint8(1), ev.Ctrl)

	_, typed, ok = Translate(keyboard.KeyEvent{Rune: 'é'})
	assert.False(t, ok)
	assert.Equal(t, "é", typed)

	_, _, ok = Translate(keyboard.KeyEvent{Key: keyboard.KeyF5})
	assert.False(t, ok)
}

func TestSessionTypesVietnamese(t *testing.T) {
	s, term, _ := newSession(t, api.DefaultConfig())
	typeInto(t, s, "Vieetj Nam ")
	assert.Equal(t, "Việt Nam ", term.Line())

	typeInto(t, s, "coo\b")
	assert.Equal(t, "Việt Nam c", term.Line())
}

func TestSessionPassesUnknownRunes(t *testing.T) {
	s, term, _ := newSession(t, api.DefaultConfig())
	typeInto(t, s, "é as")
	assert.Equal(t, "é á", term.Line())
}

func TestSessionEscRestores(t *testing.T) {
	s, term, _ := newSession(t, api.DefaultConfig())
	typeInto(t, s, "vieetj\x1b")
	assert.Equal(t, "vieetj", term.Line())
}

func TestSessionFallsBackOnDeadHandle(t *testing.T) {
	s, term, h := newSession(t, api.DefaultConfig())
	require.Equal(t, api.Success, api.DestroyEngine(h))
	typeInto(t, s, "as")
	assert.Equal(t, "as", term.Line())
}

func TestApplyOptions(t *testing.T) {
	dir := t.TempDir()
	tsv := filepath.Join(dir, "extra.tsv")
	require.NoError(t, os.WriteFile(tsv, []byte("ko\tkhông\n"), 0o600))

	s := config.Defaults()
	err := ApplyOptions(&s, cli.Options{
		Scheme:        "vni",
		Placement:     "traditional",
		Enable:        []string{"free-tone", "smart"},
		Disable:       []string{"smart"},
		ShortcutsPath: tsv,
		LogLevel:      "debug",
		LogPath:       filepath.Join(dir, "goxviet.log"),
	})
	require.NoError(t, err)
	assert.Equal(t, types.SchemeVNI, s.Engine.Scheme)
	assert.Equal(t, types.PlacementTraditional, s.Engine.Placement)
	assert.True(t, s.Engine.FreeToneValidation)
	assert.False(t, s.Engine.SmartMode, "disable wins over enable")
	assert.Equal(t, 1, s.Shortcuts.Len())
	assert.Equal(t, logging.LevelDebug, s.Logging.Level)

	assert.Error(t, ApplyOptions(&s, cli.Options{Scheme: "qwerty"}))
	assert.Error(t, ApplyOptions(&s, cli.Options{ShortcutsPath: filepath.Join(dir, "missing.tsv")}))
}

func TestReloadKeepsOverridesAndReplacesShortcuts(t *testing.T) {
	s, term, h := newSession(t, api.DefaultConfig())
	require.Equal(t, api.Success, api.AddShortcut(h, "old", "stale"))

	rt := &Runtime{opts: cli.Options{Disable: []string{"smart"}}, logger: logging.Discard(), handle: h}
	settings := config.Defaults()
	settings.Engine.Scheme = types.SchemeVNI
	require.NoError(t, settings.Shortcuts.Add("vn", "Việt Nam"))

	require.NoError(t, rt.reload(s, settings))

	var cfg api.Config
	require.Equal(t, api.Success, api.GetConfig(h, &cfg))
	assert.Equal(t, uint32(types.SchemeVNI), cfg.Scheme)
	assert.Equal(t, uint8(0), cfg.SmartMode)

	var n uint32
	require.Equal(t, api.Success, api.CountShortcuts(h, &n))
	assert.Equal(t, uint32(1), n)

	typeInto(t, s, "vn ")
	assert.Equal(t, "Việt Nam ", term.Line())
}
