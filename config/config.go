package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Hotkey   HotkeyConfig   `toml:"hotkey"`
	Terminal TerminalConfig `toml:"terminal"`
	Editor   EditorConfig   `toml:"editor"`
	Web      WebConfig      `toml:"web"`
}

// HotkeyConfig is the persisted form of a global hotkey: any subset of
// modifiers plus exactly one key identifier. Treated as an immutable value;
// updates replace the whole struct.
type HotkeyConfig struct {
	Modifiers []string `toml:"modifiers"`
	Key       string   `toml:"key"`
}

type TerminalConfig struct {
	Name    string `toml:"name"`
	Columns int    `toml:"columns"`
	Rows    int    `toml:"rows"`
}

type EditorConfig struct {
	Command string `toml:"command"`
}

type WebConfig struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

// DefaultHotkey is the combination the hotkey reverts to on reset.
func DefaultHotkey() HotkeyConfig {
	return HotkeyConfig{
		Modifiers: []string{"command", "shift"},
		Key:       "semicolon",
	}
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		Hotkey: DefaultHotkey(),
		Terminal: TerminalConfig{
			Name:    "ghostty",
			Columns: 100,
			Rows:    30,
		},
		Editor: EditorConfig{
			Command: "hx",
		},
		Web: WebConfig{
			Enabled: true,
			Port:    8741,
		},
	}
}

// ConfigDir returns the directory holding the config file and database,
// creating it if needed.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}

	dir := filepath.Join(home, "Library", "Application Support", "hxanywhere")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return dir, nil
}

// ConfigPath returns the path to the configuration file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the TOML file.
// If the file doesn't exist, it creates it with default values.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := defaultConfig()
		if err := save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Hotkey.Validate(); err != nil {
		return nil, fmt.Errorf("invalid hotkey in config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to its well-known path.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return save(path, c)
}

// save writes the configuration to the TOML file
func save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Validate checks that the hotkey has a key identifier and only known
// modifier names. An empty modifier set is legal but conflicts with
// ordinary typing, so callers warn about it rather than reject it.
func (h HotkeyConfig) Validate() error {
	if strings.TrimSpace(h.Key) == "" {
		return fmt.Errorf("hotkey has no key")
	}
	for _, m := range h.Modifiers {
		switch strings.ToLower(m) {
		case "cmd", "command", "shift", "alt", "option", "ctrl", "control":
		default:
			return fmt.Errorf("unknown modifier: %s", m)
		}
	}
	return nil
}

// Equal reports whether two hotkeys denote the same combination, ignoring
// modifier order and name aliases.
func (h HotkeyConfig) Equal(other HotkeyConfig) bool {
	if normalizeKey(h.Key) != normalizeKey(other.Key) {
		return false
	}
	return slices.Equal(canonicalModifiers(h.Modifiers), canonicalModifiers(other.Modifiers))
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func canonicalModifiers(mods []string) []string {
	set := map[string]bool{}
	for _, m := range mods {
		switch strings.ToLower(m) {
		case "cmd", "command":
			set["command"] = true
		case "shift":
			set["shift"] = true
		case "alt", "option":
			set["option"] = true
		case "ctrl", "control":
			set["control"] = true
		}
	}
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// ReservedHotkeys is the fixed set of system-critical combinations the
// recorder refuses to adopt.
func ReservedHotkeys() []HotkeyConfig {
	return []HotkeyConfig{
		{Modifiers: []string{"command"}, Key: "q"},
		{Modifiers: []string{"command"}, Key: "w"},
		{Modifiers: []string{"command"}, Key: "h"},
		{Modifiers: []string{"command"}, Key: "m"},
		{Modifiers: []string{"command"}, Key: "tab"},
		{Modifiers: []string{"command"}, Key: "space"},
	}
}

// IsReserved reports whether the combination collides with a protected
// system shortcut.
func IsReserved(h HotkeyConfig) bool {
	for _, r := range ReservedHotkeys() {
		if h.Equal(r) {
			return true
		}
	}
	return false
}
