//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DarwinFocus implements the Focus interface via System Events.
type DarwinFocus struct{}

// NewFocus creates a new macOS focus tracker
func NewFocus() Focus {
	return &DarwinFocus{}
}

// Frontmost returns the bundle identifier of the frontmost application.
func (f *DarwinFocus) Frontmost() (string, error) {
	const script = `tell application "System Events" to get bundle identifier of first application process whose frontmost is true`

	out, err := exec.Command("osascript", "-e", script).Output()
	if err != nil {
		return "", fmt.Errorf("failed to query frontmost app: %w", err)
	}

	bundleID := strings.TrimSpace(string(out))
	if bundleID == "" {
		return "", fmt.Errorf("frontmost app has no bundle identifier")
	}
	return bundleID, nil
}

// Activate brings the application with the given bundle identifier to the
// front and waits briefly for the switch to land.
func (f *DarwinFocus) Activate(appID string) error {
	script := fmt.Sprintf(`tell application id %q to activate`, appID)
	if _, err := exec.Command("osascript", "-e", script).Output(); err != nil {
		return fmt.Errorf("failed to activate app %s: %w", appID, err)
	}

	// Give the app time to come to front
	time.Sleep(100 * time.Millisecond)
	return nil
}
