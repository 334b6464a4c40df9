package hotkey

import (
	"strings"

	"hxanywhere/config"
	"hxanywhere/platform"
)

// display glyphs for named keys; letters are uppercased, digits kept as-is
var keyGlyphs = map[string]string{
	"semicolon":    ";",
	"comma":        ",",
	"period":       ".",
	"slash":        "/",
	"backslash":    "\\",
	"quote":        "'",
	"grave":        "`",
	"minus":        "-",
	"equal":        "=",
	"leftbracket":  "[",
	"rightbracket": "]",
	"space":        "Space",
	"return":       "↩",
	"tab":          "⇥",
	"delete":       "⌫",
	"escape":       "⎋",
}

// Format renders a hotkey as its symbolic display string: one glyph per
// modifier in the fixed ⌃⌥⇧⌘ order, then the key glyph. Distinct
// combinations always render distinctly.
func Format(cfg config.HotkeyConfig) string {
	mods := ModifiersFromNames(cfg.Modifiers)

	var b strings.Builder
	if mods.Has(platform.ModControl) {
		b.WriteString("⌃")
	}
	if mods.Has(platform.ModOption) {
		b.WriteString("⌥")
	}
	if mods.Has(platform.ModShift) {
		b.WriteString("⇧")
	}
	if mods.Has(platform.ModCommand) {
		b.WriteString("⌘")
	}

	key := strings.ToLower(strings.TrimSpace(cfg.Key))
	if canonical, ok := keyAliases[key]; ok {
		key = canonical
	}
	if glyph, ok := keyGlyphs[key]; ok {
		b.WriteString(glyph)
	} else {
		b.WriteString(strings.ToUpper(key))
	}

	return b.String()
}
