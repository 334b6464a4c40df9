package terminal

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func stageFile(t *testing.T) (string, time.Time) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return path, fi.ModTime()
}

func TestFilePollResolvesOnModification(t *testing.T) {
	path, baseline := stageFile(t)

	go func() {
		time.Sleep(200 * time.Millisecond)
		// Chtimes instead of a rewrite so the mtime move is unambiguous
		// regardless of filesystem timestamp granularity.
		later := baseline.Add(2 * time.Second)
		os.Chtimes(path, later, later)
	}()

	w := &filePoll{path: path, baseline: baseline}
	done := make(chan error, 1)
	go func() { done <- w.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait never resolved after the file was touched")
	}
}

func TestFilePollResolvesOnDeletion(t *testing.T) {
	path, baseline := stageFile(t)

	go func() {
		time.Sleep(200 * time.Millisecond)
		os.Remove(path)
	}()

	w := &filePoll{path: path, baseline: baseline}
	done := make(chan error, 1)
	go func() { done <- w.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait never resolved after the file was removed")
	}
}

func TestProcessWaitCleanExit(t *testing.T) {
	cmd := exec.Command("sh", "-c", "exit 0")
	if err := cmd.Start(); err != nil {
		t.Fatal(err)
	}
	w := &processWait{cmd: cmd, name: "sh"}
	if err := w.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

// A nonzero exit status is still edit completion; the commit decision comes
// from the file, never the exit code.
func TestProcessWaitNonzeroExit(t *testing.T) {
	cmd := exec.Command("sh", "-c", "exit 3")
	if err := cmd.Start(); err != nil {
		t.Fatal(err)
	}
	w := &processWait{cmd: cmd, name: "sh"}
	if err := w.Wait(); err != nil {
		t.Fatalf("Wait: %v, want nil for a nonzero exit", err)
	}
}
