// Package config loads engine settings from INI, TOML or YAML files and
// watches them for changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	ini "github.com/go-ini/ini"
	"gopkg.in/yaml.v3"

	"goxviet/internal/engine"
	"goxviet/internal/logging"
	"goxviet/internal/shortcut"
	"goxviet/internal/types"
)

// DefaultNames are looked up in the working directory, in order, when no
// path is given.
var DefaultNames = []string{"goxviet.ini", "goxviet.toml", "goxviet.yaml", "goxviet.yml"}

type ConfigError struct {
	msg string
}

func (e ConfigError) Error() string { return e.msg }

// Settings is a loaded configuration, ready to hand to an engine.
type Settings struct {
	Engine    engine.Config
	Shortcuts *shortcut.Table
	// DictionaryPath names an extra English word list; empty means the
	// built-in list only.
	DictionaryPath string
	Logging        logging.Config
	// Path is the file the settings came from, empty for defaults.
	Path string
}

func Defaults() Settings {
	return Settings{
		Engine:    engine.DefaultConfig(),
		Shortcuts: shortcut.New(),
		Logging:   logging.DefaultConfig(),
	}
}

type document struct {
	Input     inputSection      `toml:"input" yaml:"input"`
	Features  featureSection    `toml:"features" yaml:"features"`
	Files     fileSection       `toml:"files" yaml:"files"`
	Logging   loggingSection    `toml:"logging" yaml:"logging"`
	Shortcuts map[string]string `toml:"shortcuts" yaml:"shortcuts"`
}

type inputSection struct {
	Scheme    string `toml:"scheme" yaml:"scheme"`
	Placement string `toml:"placement" yaml:"placement"`
}

type featureSection struct {
	SmartMode          bool `toml:"smart_mode" yaml:"smart_mode"`
	EscRestore         bool `toml:"esc_restore" yaml:"esc_restore"`
	FreeToneValidation bool `toml:"free_tone" yaml:"free_tone"`
	SkipWShortcut      bool `toml:"skip_w_shortcut" yaml:"skip_w_shortcut"`
	Shortcuts          bool `toml:"shortcuts" yaml:"shortcuts"`
	InstantRestore     bool `toml:"instant_restore" yaml:"instant_restore"`
}

type fileSection struct {
	Dictionary string `toml:"dictionary" yaml:"dictionary"`
	Shortcuts  string `toml:"shortcuts" yaml:"shortcuts"`
}

type loggingSection struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	Output string `toml:"output" yaml:"output"`
}

func defaultDocument() document {
	cfg := engine.DefaultConfig()
	log := logging.DefaultConfig()
	return document{
		Input: inputSection{Scheme: cfg.Scheme.String(), Placement: cfg.Placement.String()},
		Features: featureSection{
			SmartMode:          cfg.SmartMode,
			EscRestore:         cfg.EscRestore,
			FreeToneValidation: cfg.FreeToneValidation,
			SkipWShortcut:      cfg.SkipWShortcut,
			Shortcuts:          cfg.ShortcutsEnabled,
			InstantRestore:     cfg.InstantRestore,
		},
		Logging: loggingSection{Level: log.Level.String(), Format: log.Format.String(), Output: log.Output},
	}
}

// Load reads the file at path. The format follows the extension: .toml,
// .yaml and .yml are decoded as such and anything else as INI.
func Load(path string) (Settings, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Settings{}, ConfigError{msg: fmt.Sprintf("failed to open config: %v", err)}
	}
	if info.IsDir() {
		return Settings{}, ConfigError{msg: fmt.Sprintf("config %s is a directory", path)}
	}

	doc := defaultDocument()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &doc); err != nil {
			return Settings{}, ConfigError{msg: fmt.Sprintf("failed to decode %s: %v", path, err)}
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, ConfigError{msg: fmt.Sprintf("failed to read %s: %v", path, err)}
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Settings{}, ConfigError{msg: fmt.Sprintf("failed to decode %s: %v", path, err)}
		}
	default:
		if err := decodeINI(path, &doc); err != nil {
			return Settings{}, err
		}
	}

	settings, err := doc.settings(filepath.Dir(path))
	if err != nil {
		return Settings{}, ConfigError{msg: fmt.Sprintf("invalid config %s: %v", path, err)}
	}
	settings.Path = path
	return settings, nil
}

func decodeINI(path string, doc *document) error {
	file, err := ini.Load(filepath.Clean(path))
	if err != nil {
		return ConfigError{msg: fmt.Sprintf("failed to parse %s: %v", path, err)}
	}

	input := file.Section("input")
	doc.Input.Scheme = input.Key("scheme").MustString(doc.Input.Scheme)
	doc.Input.Placement = input.Key("placement").MustString(doc.Input.Placement)

	features := file.Section("features")
	f := &doc.Features
	f.SmartMode = features.Key("smart_mode").MustBool(f.SmartMode)
	f.EscRestore = features.Key("esc_restore").MustBool(f.EscRestore)
	f.FreeToneValidation = features.Key("free_tone").MustBool(f.FreeToneValidation)
	f.SkipWShortcut = features.Key("skip_w_shortcut").MustBool(f.SkipWShortcut)
	f.Shortcuts = features.Key("shortcuts").MustBool(f.Shortcuts)
	f.InstantRestore = features.Key("instant_restore").MustBool(f.InstantRestore)

	files := file.Section("files")
	doc.Files.Dictionary = files.Key("dictionary").MustString(doc.Files.Dictionary)
	doc.Files.Shortcuts = files.Key("shortcuts").MustString(doc.Files.Shortcuts)

	logs := file.Section("logging")
	doc.Logging.Level = logs.Key("level").MustString(doc.Logging.Level)
	doc.Logging.Format = logs.Key("format").MustString(doc.Logging.Format)
	doc.Logging.Output = logs.Key("output").MustString(doc.Logging.Output)

	if keys := file.Section("shortcuts").Keys(); len(keys) > 0 {
		doc.Shortcuts = make(map[string]string, len(keys))
		for _, key := range keys {
			doc.Shortcuts[key.Name()] = key.String()
		}
	}
	return nil
}

func (d document) settings(dir string) (Settings, error) {
	s := Defaults()
	scheme, err := types.ParseScheme(d.Input.Scheme)
	if err != nil {
		return Settings{}, err
	}
	placement, err := types.ParsePlacementStyle(d.Input.Placement)
	if err != nil {
		return Settings{}, err
	}
	s.Engine = engine.Config{
		Scheme:             scheme,
		Placement:          placement,
		SmartMode:          d.Features.SmartMode,
		EscRestore:         d.Features.EscRestore,
		FreeToneValidation: d.Features.FreeToneValidation,
		SkipWShortcut:      d.Features.SkipWShortcut,
		ShortcutsEnabled:   d.Features.Shortcuts,
		InstantRestore:     d.Features.InstantRestore,
	}

	if s.Logging.Level, err = logging.ParseLevel(d.Logging.Level); err != nil {
		return Settings{}, err
	}
	if s.Logging.Format, err = logging.ParseFormat(d.Logging.Format); err != nil {
		return Settings{}, err
	}
	if d.Logging.Output != "" {
		s.Logging.Output = relative(dir, d.Logging.Output)
	}

	triggers := make([]string, 0, len(d.Shortcuts))
	for trigger := range d.Shortcuts {
		triggers = append(triggers, trigger)
	}
	sort.Strings(triggers)
	for _, trigger := range triggers {
		if err := s.Shortcuts.Add(trigger, d.Shortcuts[trigger]); err != nil {
			return Settings{}, fmt.Errorf("shortcut %q: %w", trigger, err)
		}
	}
	if d.Files.Shortcuts != "" {
		if err := importShortcuts(s.Shortcuts, relative(dir, d.Files.Shortcuts)); err != nil {
			return Settings{}, err
		}
	}
	if d.Files.Dictionary != "" {
		s.DictionaryPath = relative(dir, d.Files.Dictionary)
	}
	return s, nil
}

// relative resolves a path named in a config file against the file's
// directory. stderr and stdout are kept as they are.
func relative(dir, path string) string {
	switch path {
	case "stderr", "stdout":
		return path
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func importShortcuts(table *shortcut.Table, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open shortcuts: %w", err)
	}
	defer file.Close()
	if _, err := table.Import(file); err != nil {
		return fmt.Errorf("shortcuts %s: %w", path, err)
	}
	return nil
}

// Resolve loads cliPath when it is set, else the first of DefaultNames found
// in the working directory, else the defaults.
func Resolve(cliPath string) (Settings, error) {
	if cliPath != "" {
		return Load(cliPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return Defaults(), nil
	}
	for _, name := range DefaultNames {
		path := filepath.Join(cwd, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return Settings{}, ConfigError{msg: fmt.Sprintf("failed to stat %s: %v", path, err)}
		}
	}
	return Defaults(), nil
}
