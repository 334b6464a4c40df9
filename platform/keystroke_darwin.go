//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
	"time"
)

// DarwinKeystroker implements the Keystroker interface by asking System
// Events to synthesize the copy/paste chords in the frontmost application.
type DarwinKeystroker struct{}

// NewKeystroker creates a new macOS keystroke injector
func NewKeystroker() Keystroker {
	return &DarwinKeystroker{}
}

// Copy simulates Cmd+C and waits briefly for the clipboard to update.
func (k *DarwinKeystroker) Copy() error {
	if err := keystroke("c"); err != nil {
		return err
	}
	// Give the system time to process the copy
	time.Sleep(100 * time.Millisecond)
	return nil
}

// Paste simulates Cmd+V.
func (k *DarwinKeystroker) Paste() error {
	return keystroke("v")
}

func keystroke(key string) error {
	script := fmt.Sprintf(`tell application "System Events" to keystroke %q using command down`, key)
	if out, err := exec.Command("osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("%w: osascript keystroke %s: %v (%s)", ErrInjection, key, err, out)
	}
	return nil
}
