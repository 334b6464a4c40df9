//go:build darwin

package platform

import (
	"sync"
	"time"

	hook "github.com/robotn/gohook"
)

// libuiohook modifier mask bits carried on each event
const (
	maskShiftL = 1 << 0
	maskCtrlL  = 1 << 1
	maskMetaL  = 1 << 2
	maskAltL   = 1 << 3
	maskShiftR = 1 << 4
	maskCtrlR  = 1 << 5
	maskMetaR  = 1 << 6
	maskAltR   = 1 << 7
)

// enableTimeout bounds how long we wait for the OS to confirm the hook.
// Without accessibility permission the confirmation never arrives.
const enableTimeout = 2 * time.Second

const tapBuffer = 16

// hookSource implements KeySource over a single global keyboard hook.
// The underlying hook is process-wide, so one pump goroutine owns it and
// fans key-down events out to however many taps are open. The hook is
// installed when the first tap opens and removed when the last one closes.
type hookSource struct {
	mu   sync.Mutex
	taps map[*sourceTap]struct{}
	stop chan struct{}
}

// NewKeySource creates the shared macOS key event source.
func NewKeySource() KeySource {
	return &hookSource{taps: make(map[*sourceTap]struct{})}
}

type sourceTap struct {
	src    *hookSource
	events chan KeyEvent
	once   sync.Once
}

func (t *sourceTap) Events() <-chan KeyEvent {
	return t.events
}

func (t *sourceTap) Close() {
	t.once.Do(func() {
		t.src.release(t)
	})
}

// Tap opens a subscription on the global key stream, installing the
// hook if this is the first open tap. Returns ErrPermissionDenied when the
// OS never confirms the hook (accessibility permission withheld).
func (s *hookSource) Tap() (KeyTap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop == nil {
		if err := s.startPump(); err != nil {
			return nil, err
		}
	}

	tap := &sourceTap{src: s, events: make(chan KeyEvent, tapBuffer)}
	s.taps[tap] = struct{}{}
	return tap, nil
}

// startPump installs the hook and waits for the enable confirmation.
// Caller holds s.mu.
func (s *hookSource) startPump() error {
	evCh := hook.Start()

	deadline := time.NewTimer(enableTimeout)
	defer deadline.Stop()

	for {
		select {
		case ev, ok := <-evCh:
			if !ok {
				return ErrPermissionDenied
			}
			if ev.Kind == hook.HookEnabled {
				stop := make(chan struct{})
				s.stop = stop
				go s.pump(evCh, stop)
				return nil
			}
		case <-deadline.C:
			hook.End()
			return ErrPermissionDenied
		}
	}
}

func (s *hookSource) pump(evCh chan hook.Event, stop chan struct{}) {
	for {
		select {
		case <-stop:
			hook.End()
			return
		case ev, ok := <-evCh:
			if !ok {
				return
			}
			if ev.Kind != hook.KeyDown {
				continue
			}
			s.broadcast(KeyEvent{Code: ev.Rawcode, Mods: modsFromMask(ev.Mask)})
		}
	}
}

// broadcast delivers an event to every open tap without blocking the pump;
// a tap that has fallen behind drops events rather than stalling delivery.
func (s *hookSource) broadcast(ev KeyEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for tap := range s.taps {
		select {
		case tap.events <- ev:
		default:
		}
	}
}

func (s *hookSource) release(tap *sourceTap) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.taps[tap]; !ok {
		return
	}
	delete(s.taps, tap)
	close(tap.events)

	if len(s.taps) == 0 && s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

func modsFromMask(mask uint16) Modifiers {
	var mods Modifiers
	if mask&(maskMetaL|maskMetaR) != 0 {
		mods |= ModCommand
	}
	if mask&(maskShiftL|maskShiftR) != 0 {
		mods |= ModShift
	}
	if mask&(maskAltL|maskAltR) != 0 {
		mods |= ModOption
	}
	if mask&(maskCtrlL|maskCtrlR) != 0 {
		mods |= ModControl
	}
	return mods
}
