// Package hotkey matches system-wide key events against a configurable
// modifier+key combination and fires a callback on each match. The active
// combination can be swapped at runtime and the listener suspended while a
// recording is in progress.
package hotkey

import (
	"fmt"
	"log/slog"
	"sync"

	"hxanywhere/config"
	"hxanywhere/platform"
)

type commandKind int

const (
	cmdUpdate commandKind = iota
	cmdSuspend
	cmdResume
	cmdStop
)

type command struct {
	kind    commandKind
	cfg     config.HotkeyConfig
	applied chan struct{}
}

// Controller supervises a running listener loop. All methods are safe from
// any goroutine; commands are processed strictly in the order sent.
type Controller struct {
	cmds     chan command
	done     chan struct{}
	stopOnce sync.Once
}

// Start compiles the initial combination, opens a tap on the key source and
// begins matching immediately. If the tap cannot be created (accessibility
// permission withheld) it returns platform.ErrPermissionDenied and the
// caller decides whether and when to retry.
func Start(src platform.KeySource, cfg config.HotkeyConfig, onTrigger func()) (*Controller, error) {
	chord, err := CompileChord(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to compile hotkey: %w", err)
	}

	tap, err := src.Tap()
	if err != nil {
		return nil, err
	}

	c := &Controller{
		cmds: make(chan command, 8),
		done: make(chan struct{}),
	}

	go c.loop(src, tap, chord, onTrigger)

	slog.Info("Hotkey listener started", "hotkey", Format(cfg))
	return c, nil
}

// Update atomically swaps the active combination: when it returns, events
// are matched against the new rule. Key events already delivered under the
// old rule complete their callback regardless. A no-op after Stop.
func (c *Controller) Update(cfg config.HotkeyConfig) {
	c.send(command{kind: cmdUpdate, cfg: cfg})
}

// Suspend pauses matching without releasing the tap, so a concurrently
// recording tap takes precedence for incoming events. Synchronous: once it
// returns, no further trigger fires until Resume.
func (c *Controller) Suspend() {
	c.send(command{kind: cmdSuspend})
}

// Resume re-enables matching after Suspend.
func (c *Controller) Resume() {
	c.send(command{kind: cmdResume})
}

// Stop tears down the tap and ends the loop. Idempotent.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		c.send(command{kind: cmdStop})
	})
}

// Done is closed once the loop has exited and the tap is released.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// send queues a command and waits until the loop has applied it, so every
// method is synchronous with respect to subsequent key events. Commands are
// processed strictly in the order sent.
func (c *Controller) send(cmd command) {
	cmd.applied = make(chan struct{})
	select {
	case <-c.done:
		return
	case c.cmds <- cmd:
	}
	select {
	case <-c.done:
	case <-cmd.applied:
	}
}

// loop alternates between the command channel and the tap, so neither a
// reconfiguration nor a key event is ever missed. The trigger callback runs
// on its own goroutine and cannot stall either.
func (c *Controller) loop(src platform.KeySource, tap platform.KeyTap, chord Chord, onTrigger func()) {
	suspended := false

	handle := func(ev platform.KeyEvent) {
		if suspended {
			return
		}
		if ev.Code == chord.Code && ev.Mods == chord.Mods {
			go onTrigger()
		}
	}

	for {
		select {
		case cmd := <-c.cmds:
			// Events already queued were observed under the current rule;
			// evaluate them before the command takes effect.
		drain:
			for {
				select {
				case ev, ok := <-tap.Events():
					if !ok {
						break drain
					}
					handle(ev)
				default:
					break drain
				}
			}

			switch cmd.kind {
			case cmdStop:
				tap.Close()
				close(c.done)
				close(cmd.applied)
				return

			case cmdSuspend:
				suspended = true

			case cmdResume:
				suspended = false

			case cmdUpdate:
				if next, err := CompileChord(cmd.cfg); err != nil {
					slog.Error("Rejecting hotkey update", "error", err)
				} else if newTap, err := src.Tap(); err != nil {
					slog.Error("Failed to re-establish tap, keeping old hotkey", "error", err)
				} else {
					// The replacement tap opens before the old one closes so
					// no event falls between the two.
					tap.Close()
					tap = newTap
					chord = next
					slog.Info("Hotkey updated", "hotkey", Format(cmd.cfg))
				}
			}
			close(cmd.applied)

		case ev, ok := <-tap.Events():
			if !ok {
				// Source went away underneath us; nothing left to listen to.
				close(c.done)
				return
			}
			handle(ev)
		}
	}
}
