// Package terminal launches an external terminal program on a file and
// reports when the user's edit activity on that file has finished, either by
// waiting on the spawned process or by watching the file itself for
// terminals that hand off to an already-running instance.
package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"hxanywhere/config"
)

// ErrNotFound is returned when the configured terminal is not installed.
var ErrNotFound = errors.New("terminal not installed")

// Program describes one supported terminal: how to probe for it, how to
// start it on a file, and which completion strategy applies. Adding a
// terminal means adding one entry to the registry below.
type Program struct {
	Name        string
	DisplayName string
	AppPath     string
	pollWait    bool
	buildCmd    func(p *Program, editorPath, filePath string, tcfg config.TerminalConfig) (*exec.Cmd, error)
}

var registry = []*Program{
	{
		Name:        "ghostty",
		DisplayName: "Ghostty",
		AppPath:     "/Applications/Ghostty.app",
		pollWait:    true,
		buildCmd:    buildGhostty,
	},
	{
		Name:        "wezterm",
		DisplayName: "WezTerm",
		AppPath:     "/Applications/WezTerm.app",
		buildCmd:    buildWezTerm,
	},
	{
		Name:        "kitty",
		DisplayName: "Kitty",
		AppPath:     "/Applications/kitty.app",
		buildCmd:    buildKitty,
	},
	{
		Name:        "alacritty",
		DisplayName: "Alacritty",
		AppPath:     "/Applications/Alacritty.app",
		buildCmd:    buildAlacritty,
	},
	{
		Name:        "iterm",
		DisplayName: "iTerm2",
		AppPath:     "/Applications/iTerm.app",
		pollWait:    true,
		buildCmd:    buildITerm,
	},
	{
		Name:        "terminal",
		DisplayName: "Terminal.app",
		AppPath:     "/System/Applications/Utilities/Terminal.app",
		pollWait:    true,
		buildCmd:    buildTerminalApp,
	},
}

// FromName resolves a config terminal name.
func FromName(name string) (*Program, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "iterm2" {
		key = "iterm"
	}
	if key == "terminal.app" {
		key = "terminal"
	}
	for _, p := range registry {
		if p.Name == key {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown terminal: %s", name)
}

// All returns the supported terminals in menu order.
func All() []*Program {
	return registry
}

// IsInstalled probes for the terminal's application bundle.
func (p *Program) IsInstalled() bool {
	_, err := os.Stat(p.AppPath)
	return err == nil
}

// NeedsPolling reports whether edit completion is detected by watching the
// file rather than waiting on the spawned process.
func (p *Program) NeedsPolling() bool {
	return p.pollWait
}

// Launch starts the terminal with the editor on filePath and returns a
// handle that blocks until the edit concludes. Fails with ErrNotFound when
// the program is missing and a wrapped spawn error otherwise; the underlying
// OS error is preserved for diagnostics.
func (p *Program) Launch(filePath string, tcfg config.TerminalConfig, editorCmd string) (WaitHandle, error) {
	if !p.IsInstalled() {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotFound, p.DisplayName, p.AppPath)
	}

	editorPath, err := FindEditor(editorCmd)
	if err != nil {
		return nil, err
	}

	cmd, err := p.buildCmd(p, editorPath, filePath, tcfg)
	if err != nil {
		return nil, err
	}

	// Baseline mtime is taken before the terminal starts so a save that
	// happens immediately after launch still registers as a change.
	baseline := time.Now()
	if fi, err := os.Stat(filePath); err == nil {
		baseline = fi.ModTime()
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", p.DisplayName, err)
	}

	if p.pollWait {
		// The spawned process hands off and exits; reap it in the background
		// and infer completion from the file.
		go cmd.Wait()
		return &filePoll{path: filePath, baseline: baseline}, nil
	}
	return &processWait{cmd: cmd, name: p.DisplayName}, nil
}

func buildGhostty(p *Program, editorPath, filePath string, _ config.TerminalConfig) (*exec.Cmd, error) {
	// Ghostty ignores -e when passed through `open --args`, so hand it a
	// wrapper script instead.
	script := fmt.Sprintf("#!/bin/bash\n%q %q\n", editorPath, filePath)
	scriptPath := filePath + ".sh"
	if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create launch script: %w", err)
	}
	return exec.Command("open", "-na", p.AppPath, "--args", "-e", scriptPath), nil
}

func buildWezTerm(p *Program, editorPath, filePath string, _ config.TerminalConfig) (*exec.Cmd, error) {
	cli := p.AppPath + "/Contents/MacOS/wezterm"
	// --always-new-process keeps the process waitable
	return exec.Command(cli, "start", "--always-new-process", "--", editorPath, filePath), nil
}

func buildKitty(p *Program, editorPath, filePath string, tcfg config.TerminalConfig) (*exec.Cmd, error) {
	cli := p.AppPath + "/Contents/MacOS/kitty"
	return exec.Command(cli,
		"--override", fmt.Sprintf("initial_window_width=%dc", tcfg.Columns),
		"--override", fmt.Sprintf("initial_window_height=%dc", tcfg.Rows),
		editorPath, filePath,
	), nil
}

func buildAlacritty(p *Program, editorPath, filePath string, tcfg config.TerminalConfig) (*exec.Cmd, error) {
	cli := p.AppPath + "/Contents/MacOS/alacritty"
	return exec.Command(cli,
		"-o", fmt.Sprintf("window.dimensions.columns=%d", tcfg.Columns),
		"-o", fmt.Sprintf("window.dimensions.lines=%d", tcfg.Rows),
		"-e", editorPath, filePath,
	), nil
}

func buildITerm(_ *Program, editorPath, filePath string, _ config.TerminalConfig) (*exec.Cmd, error) {
	script := fmt.Sprintf(`tell application "iTerm"
	activate
	create window with default profile command "%s %s"
end tell`, escapeAppleScript(editorPath), escapeAppleScript(filePath))
	return exec.Command("osascript", "-e", script), nil
}

func buildTerminalApp(_ *Program, editorPath, filePath string, _ config.TerminalConfig) (*exec.Cmd, error) {
	script := fmt.Sprintf(`tell application "Terminal"
	activate
	do script "%s %s; exit"
end tell`, escapeAppleScript(editorPath), escapeAppleScript(filePath))
	return exec.Command("osascript", "-e", script), nil
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
