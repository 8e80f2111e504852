package app

import (
	"fmt"
	"log/slog"

	"github.com/eiannone/keyboard"

	"goxviet/internal/emitter"
	"goxviet/pkg/api"
)

// Session feeds terminal keys to one engine handle and echoes the edits.
type Session struct {
	handle api.Handle
	out    emitter.Output
	logger *slog.Logger
}

func NewSession(handle api.Handle, out emitter.Output, logger *slog.Logger) *Session {
	return &Session{handle: handle, out: out, logger: logger}
}

// HandleKey processes one key. A failing engine call leaves the key to be
// typed as it is.
func (s *Session) HandleKey(ev keyboard.KeyEvent) error {
	key, typed, ok := Translate(ev)
	if !ok {
		return emitter.Apply(s.out, emitter.Edit{}, typed)
	}
	var res api.ProcessResult
	if status := api.ProcessKey(s.handle, &key, &res); !status.OK() {
		s.logger.Warn("process key failed", "status", status.String(), "key", key.KeyCode)
		return emitter.Apply(s.out, emitter.Edit{}, typed)
	}
	text := api.GoString(res.Text)
	if status := api.FreeString(res.Text); !status.OK() {
		return fmt.Errorf("free result: %s", status)
	}
	edit := emitter.Edit{
		Consumed:  res.Consumed != 0,
		Backspace: int(res.BackspaceCount),
		Text:      text,
	}
	return emitter.Apply(s.out, edit, typed)
}

// Apply switches the engine to cfg. The word in progress is kept.
func (s *Session) Apply(cfg api.Config) error {
	if status := api.SetConfig(s.handle, &cfg); !status.OK() {
		return fmt.Errorf("set config: %s", status)
	}
	return nil
}
