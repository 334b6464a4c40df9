package platform

import "errors"

// ErrPermissionDenied is returned when the OS refuses to install a global
// key tap, typically because accessibility permission has not been granted.
var ErrPermissionDenied = errors.New("permission denied for global key events")

// ErrInjection is returned when synthetic keystroke injection fails.
var ErrInjection = errors.New("keystroke injection failed")

// Modifiers is a bitset of hotkey modifier flags.
type Modifiers uint8

const (
	ModCommand Modifiers = 1 << iota
	ModShift
	ModOption
	ModControl
)

// Has reports whether all flags in m are set.
func (mods Modifiers) Has(m Modifiers) bool {
	return mods&m == m
}

// KeyEvent is one observed key-down event: the platform virtual key code
// plus the exact modifier set held at the time.
type KeyEvent struct {
	Code uint16
	Mods Modifiers
}

// KeyTap is one subscription to the system-wide key event stream. Taps
// observe and forward; they never hold up the system event queue. Multiple
// taps may coexist (the permanent listener and a one-shot recorder).
type KeyTap interface {
	Events() <-chan KeyEvent
	Close()
}

// KeySource hands out taps on the global key event stream.
type KeySource interface {
	Tap() (KeyTap, error)
}

// Clipboard provides clipboard access
type Clipboard interface {
	Get() (string, error)
	Set(text string) error
}

// Keystroker simulates the copy and paste key chords in the frontmost app.
type Keystroker interface {
	Copy() error
	Paste() error
}

// Focus queries and restores the frontmost application.
// Application identities are opaque handles (bundle identifiers on macOS).
type Focus interface {
	Frontmost() (string, error)
	Activate(appID string) error
}

// Notifier shows a system notification. Fire-and-forget; failures are
// logged by implementations, never returned.
type Notifier interface {
	Notify(title, message string)
}
