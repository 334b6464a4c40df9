//go:build darwin

package platform

import (
	"bytes"
	"fmt"
	"os/exec"
)

// DarwinClipboard implements the Clipboard interface via pbcopy/pbpaste.
type DarwinClipboard struct{}

// NewClipboard creates a new macOS clipboard instance
func NewClipboard() Clipboard {
	return &DarwinClipboard{}
}

// Get retrieves text from the clipboard
func (c *DarwinClipboard) Get() (string, error) {
	out, err := exec.Command("pbpaste").Output()
	if err != nil {
		return "", fmt.Errorf("pbpaste failed: %w", err)
	}
	return string(out), nil
}

// Set sets text to the clipboard
func (c *DarwinClipboard) Set(text string) error {
	cmd := exec.Command("pbcopy")
	cmd.Stdin = bytes.NewBufferString(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pbcopy failed: %w", err)
	}
	return nil
}
