package inputcore

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	// Modifiers is the set of modifier keys held down with a key.
	Modifiers uint8

	// KeyBinding is one trigger for an action: a key identifier plus the
	// exact set of modifiers that must be held.
	KeyBinding struct {
		Key       string
		Modifiers Modifiers
	}

	// KeyPress is a key pressed during a frame.
	KeyPress struct {
		Key       string
		Modifiers Modifiers
	}
)

const (
	ModCtrl Modifiers = 1 << iota
	ModShift
	ModAlt
	ModMeta
)

// Names of the non-printable keys understood in the shortcut configuration.
// Printable keys are identified by their (upper case) character.
const (
	KeyEscape    = "Escape"
	KeyReturn    = "Return"
	KeyTab       = "Tab"
	KeySpace     = "Space"
	KeyBackspace = "Backspace"
	KeyDelete    = "Delete"
	KeyUp        = "Up"
	KeyDown      = "Down"
	KeyLeft      = "Left"
	KeyRight     = "Right"
	KeyHome      = "Home"
	KeyEnd       = "End"
	KeyPageUp    = "PageUp"
	KeyPageDown  = "PageDown"
)

// NormalizeKey returns the canonical form of a key identifier: single
// character keys are upper cased so that "d" and "D" name the same key,
// named keys are kept as they are.
func NormalizeKey(k string) string {
	k = strings.TrimSpace(k)
	if utf8.RuneCountInString(k) == 1 {
		return cases.Upper(language.Und).String(k)
	}
	return k
}

func (m Modifiers) Contain(m2 Modifiers) bool {
	return m&m2 == m2
}

func (m Modifiers) String() string {
	var parts []string
	if m.Contain(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Contain(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Contain(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Contain(ModMeta) {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// Matches reports whether the binding is triggered by the key press. The
// modifier sets must be equal; holding extra modifiers, or fewer, never
// matches.
func (b KeyBinding) Matches(p KeyPress) bool {
	return b.Key == NormalizeKey(p.Key) && b.Modifiers == p.Modifiers
}

func (b KeyBinding) String() string {
	if b.Modifiers == 0 {
		return b.Key
	}
	return b.Modifiers.String() + "+" + b.Key
}
