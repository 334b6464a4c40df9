package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if !cfg.Hotkey.Equal(DefaultHotkey()) {
		t.Errorf("default hotkey = %+v, want %+v", cfg.Hotkey, DefaultHotkey())
	}
	if cfg.Terminal.Name != "ghostty" || cfg.Terminal.Columns != 100 || cfg.Terminal.Rows != 30 {
		t.Errorf("unexpected default terminal: %+v", cfg.Terminal)
	}
	if cfg.Editor.Command != "hx" {
		t.Errorf("default editor = %q, want hx", cfg.Editor.Command)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file was not written: %v", err)
	}
}

func TestLoadFromRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	original := defaultConfig()
	original.Hotkey = HotkeyConfig{Modifiers: []string{"control", "option"}, Key: "k"}
	original.Terminal.Name = "wezterm"
	if err := save(path, original); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !loaded.Hotkey.Equal(original.Hotkey) {
		t.Errorf("hotkey = %+v, want %+v", loaded.Hotkey, original.Hotkey)
	}
	if loaded.Terminal.Name != "wezterm" {
		t.Errorf("terminal = %q, want wezterm", loaded.Terminal.Name)
	}
}

func TestLoadFromRejectsBadHotkey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[hotkey]\nmodifiers = [\"command\"]\nkey = \"\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for hotkey without key")
	}
}

func TestHotkeyValidate(t *testing.T) {
	tests := []struct {
		name    string
		hotkey  HotkeyConfig
		wantErr bool
	}{
		{"default", DefaultHotkey(), false},
		{"aliases", HotkeyConfig{Modifiers: []string{"cmd", "ctrl", "alt"}, Key: "x"}, false},
		{"no modifiers is legal", HotkeyConfig{Key: "f"}, false},
		{"missing key", HotkeyConfig{Modifiers: []string{"command"}}, true},
		{"unknown modifier", HotkeyConfig{Modifiers: []string{"hyper"}, Key: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.hotkey.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHotkeyEqual(t *testing.T) {
	a := HotkeyConfig{Modifiers: []string{"command", "shift"}, Key: "semicolon"}
	b := HotkeyConfig{Modifiers: []string{"shift", "cmd"}, Key: "Semicolon"}
	if !a.Equal(b) {
		t.Error("expected modifier order and aliases to be ignored")
	}

	c := HotkeyConfig{Modifiers: []string{"command"}, Key: "semicolon"}
	if a.Equal(c) {
		t.Error("different modifier sets must not compare equal")
	}

	d := HotkeyConfig{Modifiers: []string{"command", "shift"}, Key: "k"}
	if a.Equal(d) {
		t.Error("different keys must not compare equal")
	}
}

func TestIsReserved(t *testing.T) {
	reserved := []HotkeyConfig{
		{Modifiers: []string{"command"}, Key: "q"},
		{Modifiers: []string{"cmd"}, Key: "tab"},
		{Modifiers: []string{"command"}, Key: "space"},
	}
	for _, h := range reserved {
		if !IsReserved(h) {
			t.Errorf("%+v should be reserved", h)
		}
	}

	allowed := []HotkeyConfig{
		DefaultHotkey(),
		{Modifiers: []string{"command", "shift"}, Key: "q"},
		{Modifiers: []string{"control"}, Key: "q"},
	}
	for _, h := range allowed {
		if IsReserved(h) {
			t.Errorf("%+v should not be reserved", h)
		}
	}
}
