package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// ErrWaitTimeout is returned when the file-poll cap elapses before any edit
// activity is observed, typically because the user abandoned the session.
var ErrWaitTimeout = errors.New("timed out waiting for edit to finish")

// File-poll strategy tuning. The settle delay gives the terminal time to
// open before polling starts; the cap bounds an abandoned session.
const (
	pollInterval = 100 * time.Millisecond
	pollCap      = time.Hour
	pollSettle   = 500 * time.Millisecond
)

// WaitHandle blocks its caller until the edit concludes. It must be waited
// on from a worker, never from the thread delivering hotkey or UI events.
type WaitHandle interface {
	Wait() error
}

// processWait resolves when the terminal process exits. Any exit status
// counts as completion; the decision about the edit is made from the file
// content, not the exit code.
type processWait struct {
	cmd  *exec.Cmd
	name string
}

func (w *processWait) Wait() error {
	err := w.cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("failed to wait for %s: %w", w.name, err)
	}
	return nil
}

// filePoll resolves when the target file's modification time moves past the
// pre-launch baseline, or when the file disappears (the user quit without
// saving, or removed it deliberately).
type filePoll struct {
	path     string
	baseline time.Time
}

func (w *filePoll) Wait() error {
	time.Sleep(pollSettle)

	deadline := time.Now().Add(pollCap)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for range ticker.C {
		if time.Now().After(deadline) {
			return ErrWaitTimeout
		}

		fi, err := os.Stat(w.path)
		if err != nil {
			// File gone; the session decision layer treats that as a discard.
			return nil
		}
		if fi.ModTime().After(w.baseline) {
			return nil
		}
	}
	return nil
}
