package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"hxanywhere/config"
	"hxanywhere/hotkey"
	"hxanywhere/platform"
	"hxanywhere/session"
	"hxanywhere/storage"
	"hxanywhere/systray"
	"hxanywhere/web"
)

// Agent is the one supervisor owning every long-lived component: the hotkey
// controller, the session manager, the tray menu, the history store and the
// dashboard. Nothing reaches for ambient globals; reconfiguration flows
// through here.
type Agent struct {
	mu  sync.Mutex
	cfg *config.Config

	source   platform.KeySource
	notifier platform.Notifier
	sessions *session.Manager
	tray     *systray.Manager
	db       *storage.DB
	web      *web.Server

	controller *hotkey.Controller
	recording  atomic.Bool
}

// NewAgent creates a new agent instance
func NewAgent(cfg *config.Config) (*Agent, error) {
	a := &Agent{
		cfg:      cfg,
		source:   platform.NewKeySource(),
		notifier: platform.NewNotifier(),
	}

	a.sessions = session.NewManager(session.Options{
		Config:     a.snapshot,
		Clipboard:  platform.NewClipboard(),
		Keystroker: platform.NewKeystroker(),
		Focus:      platform.NewFocus(),
		Notifier:   a.notifier,
		Launch:     session.DefaultLaunch,
		Sink:       a,
	})

	configDir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	a.db = db

	if cfg.Web.Enabled {
		a.web = web.NewServer(db, cfg, cfg.Web.Port)
	}

	a.tray = systray.NewManager(cfg.Web.Port, hotkey.Format(cfg.Hotkey), cfg.Terminal.Name)
	return a, nil
}

// snapshot returns a copy of the current config, so a running session never
// sees a half-applied update.
func (a *Agent) snapshot() config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return *a.cfg
}

// Run starts every component and blocks until shutdown. The tray event loop
// owns the calling goroutine (required on macOS); everything else runs on
// workers.
func (a *Agent) Run(ctx context.Context) error {
	if a.web != nil {
		go func() {
			if err := a.web.Start(); err != nil {
				slog.Error("Web server stopped", "error", err)
			}
		}()
	}

	controller, err := hotkey.Start(a.source, a.snapshot().Hotkey, func() {
		a.sessions.TryTrigger()
	})
	if err != nil {
		if errors.Is(err, platform.ErrPermissionDenied) {
			// Keep running so the menu and notifications can prompt the user;
			// the hotkey stays dead until the permission is granted and the
			// app restarted.
			slog.Error("Cannot install key tap", "error", err)
			a.notifier.Notify("hxanywhere", "Grant Accessibility permission in System Settings, then restart")
		} else {
			return fmt.Errorf("failed to start hotkey listener: %w", err)
		}
	}
	a.controller = controller

	if configPath, err := config.ConfigPath(); err == nil {
		if err := config.Watch(ctx, configPath, a.applyConfig); err != nil {
			slog.Warn("Config watcher unavailable", "error", err)
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- a.loop(ctx)
	}()

	a.tray.Run(nil)
	return <-done
}

// loop consumes tray actions until quit or context cancellation.
func (a *Agent) loop(ctx context.Context) error {
	defer func() {
		if a.controller != nil {
			a.controller.Stop()
		}
		a.db.Close()
		a.tray.Stop()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-a.tray.WaitForQuit():
			return nil

		case <-a.tray.RecordRequests():
			go a.recordHotkey(ctx)

		case <-a.tray.ResetRequests():
			a.setHotkey(config.DefaultHotkey())
			a.notifier.Notify("hxanywhere", fmt.Sprintf("Hotkey reset to %s", hotkey.Format(config.DefaultHotkey())))

		case name := <-a.tray.TerminalSelections():
			a.setTerminal(name)
		}
	}
}

// recordHotkey runs one recording attempt. The permanent listener is
// suspended for the duration so a press of the current combination cannot
// start a session mid-recording.
func (a *Agent) recordHotkey(ctx context.Context) {
	if !a.recording.CompareAndSwap(false, true) {
		slog.Warn("Hotkey recording already in progress")
		return
	}
	defer a.recording.Store(false)

	if a.controller != nil {
		a.controller.Suspend()
		defer a.controller.Resume()
	}

	a.notifier.Notify("hxanywhere", "Press the new hotkey (10s)…")

	result, err := hotkey.Record(ctx, a.source, hotkey.RecordTimeout)
	if err != nil {
		slog.Error("Hotkey recording failed", "error", err)
		a.notifier.Notify("hxanywhere", "Could not record hotkey")
		return
	}

	switch result.Outcome {
	case hotkey.Recorded:
		a.setHotkey(result.Config)
		a.notifier.Notify("hxanywhere", fmt.Sprintf("Hotkey set to %s", hotkey.Format(result.Config)))
	case hotkey.Reserved:
		a.notifier.Notify("hxanywhere", fmt.Sprintf("%s is reserved by the system", hotkey.Format(result.Config)))
	case hotkey.TimedOut:
		a.notifier.Notify("hxanywhere", "Hotkey recording timed out")
	case hotkey.Cancelled:
		slog.Info("Hotkey recording cancelled")
	}
}

// setHotkey applies and persists a new combination.
func (a *Agent) setHotkey(h config.HotkeyConfig) {
	a.mu.Lock()
	a.cfg.Hotkey = h
	cfg := *a.cfg
	a.mu.Unlock()

	if a.controller != nil {
		a.controller.Update(h)
	}
	a.tray.SetHotkeyDisplay(hotkey.Format(h))
	if a.web != nil {
		a.web.UpdateConfig(&cfg)
	}

	if err := cfg.Save(); err != nil {
		slog.Error("Failed to save config", "error", err)
	}
}

// setTerminal applies and persists a terminal selection from the menu.
func (a *Agent) setTerminal(name string) {
	slog.Info("Selected terminal", "terminal", name)

	a.mu.Lock()
	a.cfg.Terminal.Name = name
	cfg := *a.cfg
	a.mu.Unlock()

	a.tray.SetTerminal(name)
	if a.web != nil {
		a.web.UpdateConfig(&cfg)
	}

	if err := cfg.Save(); err != nil {
		slog.Error("Failed to save config", "error", err)
	}
}

// applyConfig adopts a config reloaded from disk (external edit).
func (a *Agent) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	changedHotkey := !a.cfg.Hotkey.Equal(cfg.Hotkey)
	a.cfg = cfg
	a.mu.Unlock()

	if changedHotkey && a.controller != nil {
		a.controller.Update(cfg.Hotkey)
	}
	a.tray.SetHotkeyDisplay(hotkey.Format(cfg.Hotkey))
	a.tray.SetTerminal(cfg.Terminal.Name)
	if a.web != nil {
		a.web.UpdateConfig(cfg)
	}
}

// StateChanged implements session.Sink.
func (a *Agent) StateChanged(s session.State) {
	if a.web != nil {
		a.web.SetStatus(s.String())
	}
}

// SessionFinished implements session.Sink.
func (a *Agent) SessionFinished(rec session.Record) {
	row := &storage.Session{
		Timestamp:  rec.StartedAt,
		App:        rec.App,
		Terminal:   rec.Terminal,
		Outcome:    rec.Outcome,
		CharsIn:    rec.CharsIn,
		CharsOut:   rec.CharsOut,
		DurationMs: rec.Duration.Milliseconds(),
		Error:      rec.Error,
	}
	if err := a.db.SaveSession(row); err != nil {
		slog.Warn("Failed to record session history", "error", err)
		return
	}
	if a.web != nil {
		a.web.BroadcastSession(row)
	}
}
