package terminal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hxanywhere/config"
)

func TestFromName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ghostty", "ghostty"},
		{"Ghostty", "ghostty"},
		{" wezterm ", "wezterm"},
		{"kitty", "kitty"},
		{"alacritty", "alacritty"},
		{"iterm", "iterm"},
		{"iterm2", "iterm"},
		{"terminal", "terminal"},
		{"terminal.app", "terminal"},
	}
	for _, tt := range tests {
		p, err := FromName(tt.in)
		if err != nil {
			t.Errorf("FromName(%q): %v", tt.in, err)
			continue
		}
		if p.Name != tt.want {
			t.Errorf("FromName(%q) = %s, want %s", tt.in, p.Name, tt.want)
		}
	}

	if _, err := FromName("eterm"); err == nil {
		t.Error("FromName accepted an unknown terminal")
	}
}

func TestNeedsPolling(t *testing.T) {
	want := map[string]bool{
		"ghostty":   true,
		"wezterm":   false,
		"kitty":     false,
		"alacritty": false,
		"iterm":     true,
		"terminal":  true,
	}
	for _, p := range All() {
		if p.NeedsPolling() != want[p.Name] {
			t.Errorf("%s: NeedsPolling = %v, want %v", p.Name, p.NeedsPolling(), want[p.Name])
		}
	}
}

func TestLaunchMissingTerminal(t *testing.T) {
	p := &Program{
		Name:        "ghostty",
		DisplayName: "Ghostty",
		AppPath:     filepath.Join(t.TempDir(), "Ghostty.app"),
		buildCmd:    buildGhostty,
	}

	_, err := p.Launch(filepath.Join(t.TempDir(), "f.txt"), config.TerminalConfig{}, "hx")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFindEditorExplicitPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "hx")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindEditor(bin)
	if err != nil {
		t.Fatalf("FindEditor: %v", err)
	}
	if got != bin {
		t.Errorf("FindEditor = %s, want %s", got, bin)
	}

	if _, err := FindEditor(filepath.Join(dir, "missing")); err == nil {
		t.Error("FindEditor accepted a nonexistent explicit path")
	}
}

func TestFindEditorUnknownCommand(t *testing.T) {
	if _, err := FindEditor("definitely-not-an-installed-editor"); err == nil {
		t.Error("FindEditor resolved a command that exists nowhere")
	}
}
