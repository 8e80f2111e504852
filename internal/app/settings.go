package app

import (
	"fmt"
	"os"

	"goxviet/internal/cli"
	"goxviet/internal/config"
	"goxviet/internal/engine"
	"goxviet/internal/logging"
	"goxviet/internal/types"
)

// ApplyOptions lays command-line overrides over settings loaded from a file.
// Features are enabled first, then disabled, so --disable wins a conflict.
func ApplyOptions(s *config.Settings, opts cli.Options) error {
	if opts.Scheme != "" {
		scheme, err := types.ParseScheme(opts.Scheme)
		if err != nil {
			return err
		}
		s.Engine.Scheme = scheme
	}
	if opts.Placement != "" {
		placement, err := types.ParsePlacementStyle(opts.Placement)
		if err != nil {
			return err
		}
		s.Engine.Placement = placement
	}
	for _, name := range opts.Enable {
		setFeature(&s.Engine, name, true)
	}
	for _, name := range opts.Disable {
		setFeature(&s.Engine, name, false)
	}
	if opts.ShortcutsPath != "" {
		file, err := os.Open(opts.ShortcutsPath)
		if err != nil {
			return fmt.Errorf("open shortcuts: %w", err)
		}
		defer file.Close()
		if _, err := s.Shortcuts.Import(file); err != nil {
			return fmt.Errorf("shortcuts %s: %w", opts.ShortcutsPath, err)
		}
	}
	if opts.DictionaryPath != "" {
		s.DictionaryPath = opts.DictionaryPath
	}
	if opts.LogLevel != "" {
		level, err := logging.ParseLevel(opts.LogLevel)
		if err != nil {
			return err
		}
		s.Logging.Level = level
	}
	if opts.LogPath != "" {
		s.Logging.Output = opts.LogPath
	}
	return nil
}

func setFeature(cfg *engine.Config, name string, on bool) {
	switch name {
	case "smart":
		cfg.SmartMode = on
	case "esc-restore":
		cfg.EscRestore = on
	case "free-tone":
		cfg.FreeToneValidation = on
	case "skip-w":
		cfg.SkipWShortcut = on
	case "shortcuts":
		cfg.ShortcutsEnabled = on
	case "instant-restore":
		cfg.InstantRestore = on
	}
}
