// Package api is the boundary a host in another language calls through.
//
// Engines live behind opaque handles. Every call returns a Status and
// writes composite results into memory the caller owns; strings handed out
// must be released with FreeString. A panic inside the engine is recovered
// here and reported as ErrorPanic, and the key is treated as not consumed.
//
// Calls on one handle must not overlap in time; the host delivers keys from
// one dispatch thread. Distinct handles share no state.
package api

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"goxviet/internal/engine"
	"goxviet/internal/logging"
)

// Handle names a live engine. 0 is never valid.
type Handle uintptr

type slot struct {
	mu     sync.Mutex
	engine *engine.Engine
}

var (
	mu      sync.Mutex
	next    Handle
	engines = make(map[Handle]*slot)

	allocator Allocator = newGoAllocator()
	logger    atomic.Pointer[slog.Logger]

	// beforeProcess runs at the start of ProcessKey when set.
	beforeProcess func()
)

func init() {
	logger.Store(logging.Discard())
}

// SetLogger sets where recovered panics are reported.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = logging.Discard()
	}
	logger.Store(l)
}

// SetAllocator replaces the string allocator. It must be called before the
// first engine is created; strings from the old allocator cannot be freed
// by the new one.
func SetAllocator(a Allocator) {
	mu.Lock()
	defer mu.Unlock()
	if a != nil {
		allocator = a
	}
}

func currentAllocator() Allocator {
	mu.Lock()
	defer mu.Unlock()
	return allocator
}

func lookup(h Handle) (*slot, Status) {
	if h == 0 {
		return nil, ErrorNullPointer
	}
	mu.Lock()
	defer mu.Unlock()
	s, ok := engines[h]
	if !ok {
		return nil, ErrorInvalidEngine
	}
	return s, Success
}

// with runs fn on the engine behind h, converting a panic into ErrorPanic.
// After a panic the engine is reset; if even that fails the handle is
// retired so later calls report ErrorInvalidEngine.
func with(name string, h Handle, fn func(e *engine.Engine) Status) (status Status) {
	s, status := lookup(h)
	if status != Success {
		return status
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return ErrorInvalidEngine
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Load().Error("recovered panic", "call", name, "handle", uint64(h), "panic", fmt.Sprint(r))
			if !resetAfterPanic(s.engine) {
				s.engine = nil
			}
			status = ErrorPanic
		}
	}()
	return fn(s.engine)
}

func resetAfterPanic(e *engine.Engine) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return e.ResetAll() == nil
}

// CreateEngine builds an engine and writes its handle to out. A nil cfg
// selects the defaults. opts are for Go hosts only.
func CreateEngine(cfg *Config, out *Handle, opts ...engine.Option) (status Status) {
	if out == nil {
		return ErrorNullPointer
	}
	*out = 0
	engineCfg := engine.DefaultConfig()
	if cfg != nil {
		c, ok := cfg.toEngine()
		if !ok {
			return ErrorProcessing
		}
		engineCfg = c
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Load().Error("recovered panic", "call", "create_engine", "panic", fmt.Sprint(r))
			status = ErrorPanic
		}
	}()
	e := engine.New(engineCfg, opts...)

	mu.Lock()
	defer mu.Unlock()
	next++
	h := next
	engines[h] = &slot{engine: e}
	*out = h
	return Success
}

func DestroyEngine(h Handle) Status {
	s, status := lookup(h)
	if status != Success {
		return status
	}
	mu.Lock()
	delete(engines, h)
	mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine != nil {
		_ = s.engine.Close()
		s.engine = nil
	}
	return Success
}

func writeResult(out *ProcessResult, res engine.Result) {
	*out = ProcessResult{
		BackspaceCount: uint32(res.Backspace),
		Consumed:       flag(res.Consumed),
	}
	if res.Consumed {
		out.Text = currentAllocator().Alloc(res.Text)
	}
}

// ProcessKey feeds one key press to the engine. out is cleared first, so
// on any failure it tells the host to let the key through.
func ProcessKey(h Handle, ev *KeyEvent, out *ProcessResult) Status {
	if ev == nil || out == nil {
		return ErrorNullPointer
	}
	*out = ProcessResult{}
	return with("process_key", h, func(e *engine.Engine) Status {
		if beforeProcess != nil {
			beforeProcess()
		}
		res := e.ProcessKey(ev.toEngine())
		writeResult(out, res)
		return Success
	})
}

// Restore gives back the keys of the word in progress. out is left
// unconsumed when the word carries no diacritics.
func Restore(h Handle, out *ProcessResult) Status {
	if out == nil {
		return ErrorNullPointer
	}
	*out = ProcessResult{}
	return with("restore", h, func(e *engine.Engine) Status {
		if res, ok := e.Restore(); ok {
			writeResult(out, res)
		}
		return Success
	})
}

func GetConfig(h Handle, out *Config) Status {
	if out == nil {
		return ErrorNullPointer
	}
	return with("get_config", h, func(e *engine.Engine) Status {
		*out = ConfigFrom(e.Config())
		return Success
	})
}

// SetConfig applies cfg without touching the word in progress.
func SetConfig(h Handle, cfg *Config) Status {
	if cfg == nil {
		return ErrorNullPointer
	}
	c, ok := cfg.toEngine()
	if !ok {
		return ErrorProcessing
	}
	return with("set_config", h, func(e *engine.Engine) Status {
		return statusOf(e.SetConfig(c))
	})
}

func AddShortcut(h Handle, trigger, expansion string) Status {
	return with("add_shortcut", h, func(e *engine.Engine) Status {
		return statusOf(e.AddShortcut(trigger, expansion))
	})
}

func RemoveShortcut(h Handle, trigger string) Status {
	return with("remove_shortcut", h, func(e *engine.Engine) Status {
		return statusOf(e.RemoveShortcut(trigger))
	})
}

func ClearShortcuts(h Handle) Status {
	return with("clear_shortcuts", h, func(e *engine.Engine) Status {
		return statusOf(e.ClearShortcuts())
	})
}

func CountShortcuts(h Handle, out *uint32) Status {
	if out == nil {
		return ErrorNullPointer
	}
	return with("count_shortcuts", h, func(e *engine.Engine) Status {
		*out = uint32(e.ShortcutCount())
		return Success
	})
}

func SetShortcutsEnabled(h Handle, enabled bool) Status {
	return with("set_shortcuts_enabled", h, func(e *engine.Engine) Status {
		return statusOf(e.SetShortcutsEnabled(enabled))
	})
}

// ImportShortcuts reads tab-separated trigger and expansion lines and
// writes the number stored to out.
func ImportShortcuts(h Handle, data string, out *uint32) Status {
	if out == nil {
		return ErrorNullPointer
	}
	*out = 0
	return with("import_shortcuts", h, func(e *engine.Engine) Status {
		n, err := e.Shortcuts().Import(strings.NewReader(data))
		*out = uint32(n)
		return statusOf(err)
	})
}

// ExportShortcuts writes the table as tab-separated lines into a string the
// caller frees.
func ExportShortcuts(h Handle, out *uintptr) Status {
	if out == nil {
		return ErrorNullPointer
	}
	*out = 0
	return with("export_shortcuts", h, func(e *engine.Engine) Status {
		var b strings.Builder
		if err := e.Shortcuts().Export(&b); err != nil {
			return statusOf(err)
		}
		*out = currentAllocator().Alloc(b.String())
		return Success
	})
}

// RestoreWord reseeds the word in progress from text already on screen.
func RestoreWord(h Handle, text string) Status {
	return with("restore_word", h, func(e *engine.Engine) Status {
		return statusOf(e.RestoreWord(text))
	})
}

// ResetBuffer drops the word in progress. It may be called any number of
// times.
func ResetBuffer(h Handle) Status {
	return with("reset_buffer", h, func(e *engine.Engine) Status {
		return statusOf(e.ResetBuffer())
	})
}

// ResetAll drops the word in progress and the remembered words.
func ResetAll(h Handle) Status {
	return with("reset_all", h, func(e *engine.Engine) Status {
		return statusOf(e.ResetAll())
	})
}

func GetVersion(out *VersionInfo) Status {
	if out == nil {
		return ErrorNullPointer
	}
	*out = VersionInfo{Major: VersionMajor, Minor: VersionMinor, Patch: VersionPatch, APIVersion: APIVersion}
	return Success
}

// FreeString releases a string written by this package. Freeing 0 is a
// no-op; freeing anything else twice reports ErrorNullPointer.
func FreeString(p uintptr) Status {
	if p == 0 {
		return Success
	}
	if !currentAllocator().Free(p) {
		return ErrorNullPointer
	}
	return Success
}

// GoString reads a string written by this package without freeing it.
func GoString(p uintptr) string {
	if p == 0 {
		return ""
	}
	s, _ := currentAllocator().String(p)
	return s
}
