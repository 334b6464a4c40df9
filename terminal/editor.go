package terminal

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FindEditor resolves the configured editor command to an absolute path.
// A command containing a path separator is used as-is; otherwise the common
// install locations are probed before falling back to PATH. The probe list
// matters because the agent does not inherit a login shell's PATH when
// started from the Dock or at login.
func FindEditor(command string) (string, error) {
	if strings.ContainsRune(command, os.PathSeparator) {
		if _, err := os.Stat(command); err != nil {
			return "", fmt.Errorf("editor not found at %s: %w", command, err)
		}
		return command, nil
	}

	home, _ := os.UserHomeDir()
	candidates := []string{
		filepath.Join("/opt/homebrew/bin", command),
		filepath.Join("/usr/local/bin", command),
		filepath.Join(home, ".cargo", "bin", command),
		filepath.Join("/usr/bin", command),
	}
	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && !fi.IsDir() {
			return c, nil
		}
	}

	if path, err := exec.LookPath(command); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("editor %q not found; install it or set editor.command in the config", command)
}
