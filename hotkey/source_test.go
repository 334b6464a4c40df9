package hotkey

import (
	"sync"

	"hxanywhere/platform"
)

// fakeSource is an in-memory KeySource for tests: events pushed via emit are
// fanned out to every open tap, mirroring the production source.
type fakeSource struct {
	mu   sync.Mutex
	taps map[*fakeTap]struct{}
	fail bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{taps: make(map[*fakeTap]struct{})}
}

func (s *fakeSource) Tap() (platform.KeyTap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, platform.ErrPermissionDenied
	}
	tap := &fakeTap{src: s, ch: make(chan platform.KeyEvent, 16)}
	s.taps[tap] = struct{}{}
	return tap, nil
}

func (s *fakeSource) emit(ev platform.KeyEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tap := range s.taps {
		select {
		case tap.ch <- ev:
		default:
		}
	}
}

func (s *fakeSource) tapCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.taps)
}

type fakeTap struct {
	src  *fakeSource
	ch   chan platform.KeyEvent
	once sync.Once
}

func (t *fakeTap) Events() <-chan platform.KeyEvent { return t.ch }

func (t *fakeTap) Close() {
	t.once.Do(func() {
		t.src.mu.Lock()
		delete(t.src.taps, t)
		close(t.ch)
		t.src.mu.Unlock()
	})
}
