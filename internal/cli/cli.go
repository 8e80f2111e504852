package cli

import (
	"fmt"
	"strings"
)

type Options struct {
	ShowHelp       bool
	ShowVersion    bool
	ConfigPath     string
	Scheme         string
	Placement      string
	ShortcutsPath  string
	DictionaryPath string
	LogLevel       string
	LogPath        string
	Enable         []string
	Disable        []string
	Watch          bool
}

// Features lists the names accepted by --enable and --disable.
var Features = []string{"smart", "esc-restore", "free-tone", "skip-w", "shortcuts", "instant-restore"}

// Parse reads args, the program name first. Value options accept both
// "--name value" and "--name=value".
func Parse(args []string) (Options, error) {
	opts := Options{Watch: true}
	values := map[string]*string{
		"--config":     &opts.ConfigPath,
		"--scheme":     &opts.Scheme,
		"--placement":  &opts.Placement,
		"--shortcuts":  &opts.ShortcutsPath,
		"--dictionary": &opts.DictionaryPath,
		"--log-level":  &opts.LogLevel,
		"--log-file":   &opts.LogPath,
	}
	lists := map[string]*[]string{
		"--enable":  &opts.Enable,
		"--disable": &opts.Disable,
	}

	for i := 1; i < len(args); i++ {
		arg := args[i]
		name := arg
		if eq := strings.IndexRune(arg, '='); eq >= 0 {
			name = arg[:eq]
		}
		switch name {
		case "--help", "-h":
			opts.ShowHelp = true
			continue
		case "--version":
			opts.ShowVersion = true
			continue
		case "--no-watch":
			opts.Watch = false
			continue
		}

		target, isValue := values[name]
		list, isList := lists[name]
		if !isValue && !isList {
			return Options{}, fmt.Errorf("unknown option: %s", arg)
		}
		value, next, err := extractValue(arg, i, args)
		if err != nil {
			return Options{}, err
		}
		i = next
		if isValue {
			*target = value
			continue
		}
		features, err := featureList(value)
		if err != nil {
			return Options{}, err
		}
		*list = append(*list, features...)
	}
	return opts, nil
}

func extractValue(current string, index int, args []string) (string, int, error) {
	if eq := strings.IndexRune(current, '='); eq >= 0 {
		return current[eq+1:], index, nil
	}
	if index+1 >= len(args) {
		return "", index, fmt.Errorf("option %s requires a value", current)
	}
	return args[index+1], index + 1, nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func featureList(value string) ([]string, error) {
	names := splitList(strings.ToLower(value))
	for _, name := range names {
		known := false
		for _, f := range Features {
			if f == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown feature %q (known: %s)", name, strings.Join(Features, ", "))
		}
	}
	return names, nil
}

func Usage() string {
	return `goxviet - Vietnamese input in the terminal
Usage: goxviet [options]

Options:
  --config PATH           Config file (.ini, .toml or .yaml; default: ./goxviet.ini if present)
  --scheme NAME           Input scheme: telex or vni
  --placement NAME        Tone placement: modern or traditional
  --shortcuts PATH        Tab-separated shortcut file to load
  --dictionary PATH       Extra English word list
  --enable LIST           Comma-separated features to turn on
  --disable LIST          Comma-separated features to turn off
                          (smart, esc-restore, free-tone, skip-w, shortcuts, instant-restore)
  --log-level LEVEL       debug, info, warn or error
  --log-file PATH         Write logs to PATH instead of stderr
  --no-watch              Do not reload the config file when it changes
  --version               Print the engine version
  -h, --help              Show this help message`
}
