// Package session drives the edit workflow: capture the current selection,
// stage it to a temp file, hand the file to a terminal editor, and decide
// from the file content alone whether to paste the result back.
package session

import (
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"hxanywhere/config"
	"hxanywhere/platform"
	"hxanywhere/terminal"
)

// ErrNoSelection is returned when the copy capability produced no text.
var ErrNoSelection = errors.New("no text selected")

// State is the workflow position of the active session.
type State int

const (
	Idle State = iota
	CaptureSelection
	StageFile
	Launch
	AwaitCompletion
	Decide
	Commit
	Discard
	Cleanup
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case CaptureSelection:
		return "capture_selection"
	case StageFile:
		return "stage_file"
	case Launch:
		return "launch"
	case AwaitCompletion:
		return "await_completion"
	case Decide:
		return "decide"
	case Commit:
		return "commit"
	case Discard:
		return "discard"
	case Cleanup:
		return "cleanup"
	}
	return "unknown"
}

// Session outcomes as recorded in history.
const (
	OutcomeCommitted = "committed"
	OutcomeDiscarded = "discarded"
	OutcomeFailed    = "failed"
)

// Record summarizes one finished session.
type Record struct {
	StartedAt time.Time
	Duration  time.Duration
	App       string
	Terminal  string
	Outcome   string
	CharsIn   int
	CharsOut  int
	Error     string
}

// Sink receives session lifecycle events. Implementations must not block.
type Sink interface {
	StateChanged(State)
	SessionFinished(Record)
}

// LaunchFunc starts a terminal editor on the staged file and returns the
// completion handle. Injected so tests can substitute the real launcher.
type LaunchFunc func(filePath string, cfg config.Config) (terminal.WaitHandle, error)

// DefaultLaunch resolves the configured terminal program and launches it.
func DefaultLaunch(filePath string, cfg config.Config) (terminal.WaitHandle, error) {
	prog, err := terminal.FromName(cfg.Terminal.Name)
	if err != nil {
		return nil, err
	}
	return prog.Launch(filePath, cfg.Terminal, cfg.Editor.Command)
}

// Options wires a Manager's collaborators.
type Options struct {
	Config     func() config.Config
	Clipboard  platform.Clipboard
	Keystroker platform.Keystroker
	Focus      platform.Focus
	Notifier   platform.Notifier
	Launch     LaunchFunc
	Sink       Sink
}

// Manager owns the one-at-a-time edit session. The busy flag is the single
// mutual-exclusion point in the system; a trigger arriving while a session
// is active is rejected, never queued.
type Manager struct {
	opts Options
	busy atomic.Bool
}

// NewManager creates a session manager.
func NewManager(opts Options) *Manager {
	if opts.Launch == nil {
		opts.Launch = DefaultLaunch
	}
	return &Manager{opts: opts}
}

// Busy reports whether a session is currently active.
func (m *Manager) Busy() bool {
	return m.busy.Load()
}

// TryTrigger starts a session unless one is already running. The workflow
// runs on its own goroutine so the caller (the hotkey listener callback)
// returns immediately. Reports whether the trigger was accepted.
func (m *Manager) TryTrigger() bool {
	if !m.busy.CompareAndSwap(false, true) {
		slog.Warn("Edit session already active, ignoring trigger")
		return false
	}
	go m.run()
	return true
}

func (m *Manager) setState(s State) {
	slog.Debug("Session state", "state", s.String())
	if m.opts.Sink != nil {
		m.opts.Sink.StateChanged(s)
	}
}

// run executes one full session. Cleanup is deferred so the temp file is
// removed and the busy flag released on every path, including failures.
func (m *Manager) run() {
	slog.Info("Starting edit session")
	cfg := m.opts.Config()

	rec := Record{
		StartedAt: time.Now(),
		Terminal:  cfg.Terminal.Name,
		Outcome:   OutcomeFailed,
	}
	var tmpPath string

	defer func() {
		m.setState(Cleanup)
		if tmpPath != "" {
			if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
				slog.Warn("Failed to remove temp file", "path", tmpPath, "error", err)
			}
			// launch helper script, if the terminal needed one
			os.Remove(tmpPath + ".sh")
		}
		rec.Duration = time.Since(rec.StartedAt)
		m.busy.Store(false)
		m.setState(Idle)
		if m.opts.Sink != nil {
			m.opts.Sink.SessionFinished(rec)
		}
	}()

	fail := func(kind string, err error) {
		rec.Error = err.Error()
		slog.Error("Edit session failed", "kind", kind, "error", err)
		m.opts.Notifier.Notify("hxanywhere", kind)
	}

	// CaptureSelection
	m.setState(CaptureSelection)

	originalClip, err := m.opts.Clipboard.Get()
	if err != nil {
		slog.Warn("Failed to read clipboard, continuing anyway", "error", err)
		originalClip = ""
	}

	if appID, err := m.opts.Focus.Frontmost(); err != nil {
		slog.Warn("Failed to identify frontmost app", "error", err)
	} else {
		rec.App = appID
	}

	if err := m.opts.Keystroker.Copy(); err != nil {
		fail("Copy simulation failed", err)
		return
	}

	selected, err := m.opts.Clipboard.Get()
	if err != nil {
		fail("Failed to read selection", fmt.Errorf("clipboard read: %w", err))
		return
	}
	if selected == "" {
		rec.Error = ErrNoSelection.Error()
		slog.Warn("No text selected, aborting edit session")
		m.opts.Notifier.Notify("hxanywhere", "No text selected")
		m.restoreClipboard(originalClip)
		return
	}
	rec.CharsIn = len(selected)
	slog.Info("Captured selection", "chars", len(selected))

	// StageFile
	m.setState(StageFile)

	tmpPath = filepath.Join(os.TempDir(), fmt.Sprintf("hxanywhere-%s.txt", uuid.NewString()))
	if err := os.WriteFile(tmpPath, []byte(selected), 0o600); err != nil {
		fail("Failed to stage selection", fmt.Errorf("write temp file: %w", err))
		return
	}
	baseline := fingerprint(selected)
	slog.Info("Staged selection", "path", tmpPath)

	// Launch
	m.setState(Launch)

	handle, err := m.opts.Launch(tmpPath, cfg)
	if err != nil {
		if errors.Is(err, terminal.ErrNotFound) {
			fail("Terminal not installed", err)
		} else {
			fail("Failed to launch terminal", err)
		}
		return
	}

	// AwaitCompletion: this is where the session spends its wall-clock time.
	// We are already on a worker goroutine, so blocking here never stalls
	// hotkey delivery.
	m.setState(AwaitCompletion)

	if err := handle.Wait(); err != nil {
		fail("Edit wait failed", err)
		return
	}

	// Decide: the file content is the sole authority on commit vs discard.
	m.setState(Decide)

	raw, err := os.ReadFile(tmpPath)
	if err != nil {
		if os.IsNotExist(err) {
			m.discard(&rec, originalClip)
			return
		}
		fail("Failed to read edited file", err)
		return
	}

	// The editor appends a trailing newline on save; strip it so saving
	// without changes still counts as a discard.
	edited := strings.TrimRight(string(raw), "\n")

	if fingerprint(edited) == baseline {
		m.discard(&rec, originalClip)
		return
	}

	// Commit
	m.setState(Commit)
	rec.CharsOut = len(edited)
	slog.Info("Content changed, pasting back", "chars", len(edited))

	if err := m.opts.Clipboard.Set(edited); err != nil {
		fail("Failed to set clipboard", err)
		return
	}

	if rec.App != "" {
		if err := m.opts.Focus.Activate(rec.App); err != nil {
			// Non-fatal: the original app may be gone. Still attempt the
			// paste wherever focus landed.
			slog.Warn("Failed to restore focus", "app", rec.App, "error", err)
			m.opts.Notifier.Notify("hxanywhere", "Could not refocus original app")
		}
	}

	if err := m.opts.Keystroker.Paste(); err != nil {
		// The edited text stays on the clipboard; the user can paste by hand.
		fail("Paste failed (edited text is on the clipboard)", err)
		return
	}

	rec.Outcome = OutcomeCommitted
	slog.Info("Edit session completed", "chars", len(edited))
	m.opts.Notifier.Notify("hxanywhere", fmt.Sprintf("Pasted edited text (%d chars)", len(edited)))
}

// discard leaves the original application untouched and puts the pre-session
// clipboard back.
func (m *Manager) discard(rec *Record, originalClip string) {
	m.setState(Discard)
	rec.Outcome = OutcomeDiscarded
	slog.Info("Content unchanged, not pasting back")
	m.restoreClipboard(originalClip)
}

func (m *Manager) restoreClipboard(text string) {
	if text == "" {
		return
	}
	if err := m.opts.Clipboard.Set(text); err != nil {
		slog.Warn("Failed to restore clipboard", "error", err)
	}
}

// fingerprint digests content for the changed-or-not decision.
func fingerprint(content string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(content))
	return h.Sum64()
}
