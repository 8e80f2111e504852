package app

import (
	"github.com/eiannone/keyboard"

	"goxviet/internal/keys"
	"goxviet/pkg/api"
)

// Translate turns a terminal key into the event the engine expects and the
// text the key types when the engine lets it through. ok is false for keys
// the engine has no code for; those are echoed as they are.
func Translate(ev keyboard.KeyEvent) (out api.KeyEvent, typed string, ok bool) {
	if ev.Rune != 0 {
		if ev.Rune > 0x7f {
			return api.KeyEvent{}, string(ev.Rune), false
		}
		code, _, shift, found := keys.FromASCII(byte(ev.Rune))
		if !found {
			return api.KeyEvent{}, string(ev.Rune), false
		}
		// a terminal cannot tell caps lock from shift
		return event(code, false, shift), string(ev.Rune), true
	}

	switch ev.Key {
	case keyboard.KeySpace:
		return event(keys.Space, false, false), " ", true
	case keyboard.KeyBackspace, keyboard.KeyBackspace2:
		return event(keys.Delete, false, false), "\b", true
	case keyboard.KeyEnter:
		return event(keys.Return, false, false), "\n", true
	case keyboard.KeyTab:
		return event(keys.Tab, false, false), "\t", true
	case keyboard.KeyEsc:
		return event(keys.Esc, false, false), "", true
	case keyboard.KeyArrowLeft:
		return event(keys.Left, false, false), "", true
	case keyboard.KeyArrowRight:
		return event(keys.Right, false, false), "", true
	case keyboard.KeyArrowUp:
		return event(keys.Up, false, false), "", true
	case keyboard.KeyArrowDown:
		return event(keys.Down, false, false), "", true
	}
	if ev.Key >= keyboard.KeyCtrlA && ev.Key <= keyboard.KeyCtrlZ {
		code, _, _, found := keys.FromASCII(byte('a' + ev.Key - keyboard.KeyCtrlA))
		if found {
			return event(code, true, false), "", true
		}
	}
	return api.KeyEvent{}, "", false
}

func event(code keys.Code, ctrl, shift bool) api.KeyEvent {
	ev := api.KeyEvent{KeyCode: uint16(code)}
	if ctrl {
		ev.Ctrl = 1
	}
	if shift {
		ev.Shift = 1
	}
	return ev
}
