package hotkey

import (
	"fmt"
	"strings"

	"hxanywhere/config"
	"hxanywhere/platform"
)

// Chord is a hotkey compiled to its wire form: a macOS virtual key code and
// an exact modifier set.
type Chord struct {
	Code uint16
	Mods platform.Modifiers
}

// macOS virtual key codes for the supported keys
var keyCodes = map[string]uint16{
	"a": 0x00, "s": 0x01, "d": 0x02, "f": 0x03, "h": 0x04,
	"g": 0x05, "z": 0x06, "x": 0x07, "c": 0x08, "v": 0x09,
	"b": 0x0B, "q": 0x0C, "w": 0x0D, "e": 0x0E, "r": 0x0F,
	"y": 0x10, "t": 0x11,
	"1": 0x12, "2": 0x13, "3": 0x14, "4": 0x15, "6": 0x16,
	"5": 0x17, "9": 0x19, "7": 0x1A, "8": 0x1C, "0": 0x1D,
	"equal": 0x18, "minus": 0x1B,
	"rightbracket": 0x1E, "leftbracket": 0x21,
	"o": 0x1F, "u": 0x20, "i": 0x22, "p": 0x23,
	"l": 0x25, "j": 0x26, "k": 0x28,
	"quote": 0x27, "semicolon": 0x29, "backslash": 0x2A,
	"comma": 0x2B, "slash": 0x2C, "period": 0x2F,
	"n": 0x2D, "m": 0x2E,
	"grave": 0x32, "space": 0x31,
	"return": 0x24, "tab": 0x30, "delete": 0x33, "escape": 0x35,
}

// spellings accepted in config files beyond the canonical names
var keyAliases = map[string]string{
	"=": "equal", "-": "minus",
	"]": "rightbracket", "[": "leftbracket",
	"'": "quote", ";": "semicolon", "\\": "backslash",
	",": "comma", "/": "slash", ".": "period",
	"`": "grave", "backtick": "grave",
	"enter": "return", "backspace": "delete", "esc": "escape",
}

// keyNames maps virtual key codes back to canonical config names.
var keyNames = func() map[uint16]string {
	names := make(map[uint16]string, len(keyCodes))
	for name, code := range keyCodes {
		names[code] = name
	}
	return names
}()

// virtual key codes of the bare modifier keys themselves
var modifierKeyCodes = map[uint16]bool{
	54: true, 55: true, 56: true, 57: true, 58: true,
	59: true, 60: true, 61: true, 62: true, 63: true,
}

// KeyCode resolves a config key name to its virtual key code.
func KeyCode(key string) (uint16, error) {
	name := strings.ToLower(strings.TrimSpace(key))
	if canonical, ok := keyAliases[name]; ok {
		name = canonical
	}
	code, ok := keyCodes[name]
	if !ok {
		return 0, fmt.Errorf("unknown key: %s", key)
	}
	return code, nil
}

// KeyName resolves a virtual key code back to its canonical config name.
func KeyName(code uint16) (string, bool) {
	name, ok := keyNames[code]
	return name, ok
}

// isModifierKey reports whether the code is a bare modifier key press.
func isModifierKey(code uint16) bool {
	return modifierKeyCodes[code]
}

// ModifiersFromNames converts config modifier strings to flag bits.
// Unknown names are ignored with a warning by Validate upstream.
func ModifiersFromNames(names []string) platform.Modifiers {
	var mods platform.Modifiers
	for _, name := range names {
		switch strings.ToLower(name) {
		case "cmd", "command":
			mods |= platform.ModCommand
		case "shift":
			mods |= platform.ModShift
		case "alt", "option":
			mods |= platform.ModOption
		case "ctrl", "control":
			mods |= platform.ModControl
		}
	}
	return mods
}

// ModifierNames converts flag bits back to canonical config strings, in
// the fixed control, option, shift, command order.
func ModifierNames(mods platform.Modifiers) []string {
	var names []string
	if mods.Has(platform.ModControl) {
		names = append(names, "control")
	}
	if mods.Has(platform.ModOption) {
		names = append(names, "option")
	}
	if mods.Has(platform.ModShift) {
		names = append(names, "shift")
	}
	if mods.Has(platform.ModCommand) {
		names = append(names, "command")
	}
	return names
}

// CompileChord resolves a HotkeyConfig to its matchable form.
func CompileChord(cfg config.HotkeyConfig) (Chord, error) {
	code, err := KeyCode(cfg.Key)
	if err != nil {
		return Chord{}, err
	}
	return Chord{Code: code, Mods: ModifiersFromNames(cfg.Modifiers)}, nil
}
