//go:build darwin

package platform

import (
	"fmt"
	"log/slog"
	"os/exec"
)

// DarwinNotifier implements the Notifier interface via Notification Center.
type DarwinNotifier struct{}

// NewNotifier creates a new macOS notifier
func NewNotifier() Notifier {
	return &DarwinNotifier{}
}

// Notify shows a notification. Fire-and-forget; failures are only logged.
func (n *DarwinNotifier) Notify(title, message string) {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		slog.Warn("Failed to show notification", "title", title, "error", err)
	}
}
