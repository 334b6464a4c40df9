package hotkey

import (
	"context"
	"log/slog"
	"time"

	"hxanywhere/config"
	"hxanywhere/platform"
)

// RecordTimeout bounds one recording attempt.
const RecordTimeout = 10 * time.Second

// Outcome classifies the single result of a recording attempt.
type Outcome int

const (
	// Recorded means a usable combination was captured.
	Recorded Outcome = iota
	// Reserved means the captured combination collides with a protected
	// system shortcut and was not adopted.
	Reserved
	// TimedOut means no qualifying key event arrived in time.
	TimedOut
	// Cancelled means the caller dismissed the recording.
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Recorded:
		return "recorded"
	case Reserved:
		return "reserved"
	case TimedOut:
		return "timed out"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Result is the one value a recording attempt delivers. Config is set for
// Recorded and Reserved outcomes.
type Result struct {
	Outcome Outcome
	Config  config.HotkeyConfig
}

// Record captures the next key event that carries at least one modifier and
// a real (non-modifier) key, within the timeout. It opens its own tap,
// independent of the permanent listener, and is guaranteed to release it on
// every return path. Exactly one Result is returned per call; cancel via ctx.
//
// The error return is non-nil only when the tap itself cannot be opened.
func Record(ctx context.Context, src platform.KeySource, timeout time.Duration) (Result, error) {
	tap, err := src.Tap()
	if err != nil {
		return Result{}, err
	}
	defer tap.Close()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	slog.Info("Hotkey recording started, waiting for key press", "timeout", timeout)

	for {
		select {
		case <-ctx.Done():
			return Result{Outcome: Cancelled}, nil

		case <-deadline.C:
			return Result{Outcome: TimedOut}, nil

		case ev, ok := <-tap.Events():
			if !ok {
				return Result{Outcome: Cancelled}, nil
			}
			if ev.Mods == 0 {
				// Unmodified keystrokes are ordinary typing, not candidates.
				continue
			}
			if isModifierKey(ev.Code) {
				continue
			}
			name, known := KeyName(ev.Code)
			if !known {
				continue
			}

			candidate := config.HotkeyConfig{
				Modifiers: ModifierNames(ev.Mods),
				Key:       name,
			}
			if config.IsReserved(candidate) {
				slog.Warn("Recorded combination is reserved", "hotkey", Format(candidate))
				return Result{Outcome: Reserved, Config: candidate}, nil
			}

			slog.Info("Hotkey recorded", "hotkey", Format(candidate))
			return Result{Outcome: Recorded, Config: candidate}, nil
		}
	}
}
