//go:build darwin

package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Lock is a held single-instance file lock. Released by Release or
// automatically when the process exits.
type Lock struct {
	f *os.File
}

// AcquireLock takes an exclusive flock on a lock file inside dir, ensuring
// only one instance runs per user. Returns an error if another instance
// already holds it.
func AcquireLock(dir string) (*Lock, error) {
	path := filepath.Join(dir, "hxanywhere.lock")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("another instance is already running (lock %s held): %w", path, err)
	}

	return &Lock{f: f}, nil
}

// Release drops the lock.
func (l *Lock) Release() {
	if l.f == nil {
		return
	}
	unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	l.f.Close()
	l.f = nil
}
