package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/eiannone/keyboard"

	"goxviet/internal/cli"
	"goxviet/internal/config"
	"goxviet/internal/dictionary"
	"goxviet/internal/emitter"
	"goxviet/internal/engine"
	"goxviet/internal/logging"
	"goxviet/pkg/api"
)

// Runtime runs the terminal front end: it reads keys in raw mode, feeds
// them to an engine through the api boundary and echoes the result.
type Runtime struct {
	opts     cli.Options
	settings config.Settings
	logger   *slog.Logger
	dict     *dictionary.Dictionary
	handle   api.Handle
	output   emitter.Output
	watcher  *config.Watcher
	cleanups []func()
}

func NewRuntime(opts cli.Options) *Runtime {
	return &Runtime{opts: opts}
}

func (rt *Runtime) Run() error {
	defer rt.cleanup()

	if err := rt.prepareSettings(); err != nil {
		return err
	}
	if err := rt.prepareLogging(); err != nil {
		return err
	}
	if err := rt.prepareDictionary(); err != nil {
		return err
	}
	if err := rt.buildEngine(); err != nil {
		return err
	}
	rt.buildEmitter(os.Stdout)
	if err := rt.prepareWatcher(); err != nil {
		return err
	}

	events, err := keyboard.GetKeys(16)
	if err != nil {
		return fmt.Errorf("open keyboard: %w", err)
	}
	rt.registerCleanup(func() { _ = keyboard.Close() })

	rt.logger.Info("goxviet started",
		"scheme", rt.settings.Engine.Scheme.String(),
		"placement", rt.settings.Engine.Placement.String(),
		"config", rt.settings.Path)
	fmt.Fprint(os.Stdout, "goxviet: type away, ctrl+c or ctrl+d to quit\r\n")
	return rt.runEventLoop(events)
}

func (rt *Runtime) prepareSettings() error {
	settings, err := config.Resolve(rt.opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := ApplyOptions(&settings, rt.opts); err != nil {
		return err
	}
	rt.settings = settings
	return nil
}

func (rt *Runtime) prepareLogging() error {
	logger, closeLog, err := logging.New(rt.settings.Logging)
	if err != nil {
		return err
	}
	rt.logger = logger
	rt.registerCleanup(func() { _ = closeLog() })
	api.SetLogger(logger)
	return nil
}

func (rt *Runtime) prepareDictionary() error {
	rt.dict = dictionary.Default()
	path := strings.TrimSpace(rt.settings.DictionaryPath)
	if path == "" {
		return nil
	}
	extra, err := dictionary.Load(path)
	if err != nil {
		return err
	}
	rt.dict.Merge(extra)
	rt.logger.Debug("loaded dictionary", "path", path, "words", rt.dict.Len())
	return nil
}

func (rt *Runtime) buildEngine() error {
	cfg := api.ConfigFrom(rt.settings.Engine)
	var h api.Handle
	status := api.CreateEngine(&cfg, &h,
		engine.WithLogger(rt.logger),
		engine.WithDictionary(rt.dict),
		engine.WithShortcuts(rt.settings.Shortcuts),
	)
	if !status.OK() {
		return fmt.Errorf("create engine: %s", status)
	}
	rt.handle = h
	rt.registerCleanup(func() { api.DestroyEngine(h) })
	return nil
}

func (rt *Runtime) buildEmitter(w io.Writer) {
	out := emitter.NewTerminal(w)
	rt.output = out
	rt.registerCleanup(func() { _ = out.Close() })
}

func (rt *Runtime) prepareWatcher() error {
	if !rt.opts.Watch || rt.settings.Path == "" {
		return nil
	}
	w, err := config.Watch(rt.settings.Path)
	if err != nil {
		return err
	}
	rt.watcher = w
	rt.registerCleanup(func() { _ = w.Close() })
	return nil
}

// reload applies settings read back from the config file. Command-line
// overrides still win. The dictionary stays as loaded at startup.
func (rt *Runtime) reload(session *Session, settings config.Settings) error {
	if err := ApplyOptions(&settings, rt.opts); err != nil {
		return err
	}
	if err := session.Apply(api.ConfigFrom(settings.Engine)); err != nil {
		return err
	}
	var b strings.Builder
	if err := settings.Shortcuts.Export(&b); err != nil {
		return err
	}
	if status := api.ClearShortcuts(rt.handle); !status.OK() {
		return fmt.Errorf("clear shortcuts: %s", status)
	}
	var n uint32
	if status := api.ImportShortcuts(rt.handle, b.String(), &n); !status.OK() {
		return fmt.Errorf("import shortcuts: %s", status)
	}
	rt.settings = settings
	rt.logger.Info("config reloaded", "path", settings.Path, "shortcuts", n)
	return nil
}

func (rt *Runtime) runEventLoop(events <-chan keyboard.KeyEvent) error {
	session := NewSession(rt.handle, rt.output, rt.logger)

	var updates <-chan config.Settings
	var watchErrs <-chan error
	if rt.watcher != nil {
		updates = rt.watcher.Updates()
		watchErrs = rt.watcher.Errors()
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigs)

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Err != nil {
				return fmt.Errorf("read key: %w", ev.Err)
			}
			if ev.Key == keyboard.KeyCtrlC || ev.Key == keyboard.KeyCtrlD {
				fmt.Fprint(os.Stdout, "\r\n")
				return nil
			}
			if err := session.HandleKey(ev); err != nil {
				if errors.Is(err, emitter.ErrClosed) {
					return nil
				}
				return err
			}
		case settings := <-updates:
			if err := rt.reload(session, settings); err != nil {
				rt.logger.Warn("config reload rejected", "error", err)
			}
		case err := <-watchErrs:
			rt.logger.Warn("config watch", "error", err)
		case <-sigs:
			return nil
		}
	}
}

func (rt *Runtime) registerCleanup(fn func()) {
	if fn == nil {
		return
	}
	rt.cleanups = append([]func(){fn}, rt.cleanups...)
}

func (rt *Runtime) cleanup() {
	for _, fn := range rt.cleanups {
		fn()
	}
	rt.cleanups = nil
}
