package hotkey

import (
	"testing"

	"hxanywhere/config"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.HotkeyConfig
		want string
	}{
		{"default", config.DefaultHotkey(), "⌘⇧;"},
		{"control option k", config.HotkeyConfig{Modifiers: []string{"control", "option"}, Key: "k"}, "⌃⌥K"},
		{"all modifiers", config.HotkeyConfig{Modifiers: []string{"command", "shift", "option", "control"}, Key: "a"}, "⌃⌥⇧⌘A"},
		{"no modifiers", config.HotkeyConfig{Key: "f"}, "F"},
		{"digit", config.HotkeyConfig{Modifiers: []string{"command"}, Key: "1"}, "⌘1"},
		{"space", config.HotkeyConfig{Modifiers: []string{"command"}, Key: "space"}, "⌘Space"},
		{"return", config.HotkeyConfig{Modifiers: []string{"control"}, Key: "return"}, "⌃↩"},
		{"alias modifier names", config.HotkeyConfig{Modifiers: []string{"cmd", "alt"}, Key: ";"}, "⌥⌘;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.cfg); got != tt.want {
				t.Errorf("Format(%+v) = %q, want %q", tt.cfg, got, tt.want)
			}
		})
	}
}

// Format must be injective: no two distinct combinations may render to the
// same display string.
func TestFormatInjective(t *testing.T) {
	modifierSets := [][]string{
		nil,
		{"command"},
		{"shift"},
		{"option"},
		{"control"},
		{"command", "shift"},
		{"control", "option"},
		{"command", "option"},
		{"control", "shift"},
		{"command", "shift", "option"},
		{"command", "shift", "option", "control"},
	}

	seen := make(map[string]config.HotkeyConfig)
	for key := range keyCodes {
		for _, mods := range modifierSets {
			cfg := config.HotkeyConfig{Modifiers: mods, Key: key}
			display := Format(cfg)
			if prev, dup := seen[display]; dup {
				t.Fatalf("Format collision: %+v and %+v both render %q", prev, cfg, display)
			}
			seen[display] = cfg
		}
	}
}
