package gioui

import (
	"gioui.org/io/key"
	"github.com/vsariola/inputcore"
)

var keyNames = map[key.Name]string{
	key.NameEscape:         inputcore.KeyEscape,
	key.NameReturn:         inputcore.KeyReturn,
	key.NameEnter:          inputcore.KeyReturn,
	key.NameTab:            inputcore.KeyTab,
	key.NameSpace:          inputcore.KeySpace,
	key.NameDeleteBackward: inputcore.KeyBackspace,
	key.NameDeleteForward:  inputcore.KeyDelete,
	key.NameUpArrow:        inputcore.KeyUp,
	key.NameDownArrow:      inputcore.KeyDown,
	key.NameLeftArrow:      inputcore.KeyLeft,
	key.NameRightArrow:     inputcore.KeyRight,
	key.NameHome:           inputcore.KeyHome,
	key.NameEnd:            inputcore.KeyEnd,
	key.NamePageUp:         inputcore.KeyPageUp,
	key.NamePageDown:       inputcore.KeyPageDown,
}

// KeyName converts a gio key name to the identifier used in the shortcut
// configuration. Printable keys are passed through.
func KeyName(n key.Name) string {
	if s, ok := keyNames[n]; ok {
		return s
	}
	return inputcore.NormalizeKey(string(n))
}

// Modifiers converts gio modifiers. Super and Command both map to ModMeta.
func Modifiers(m key.Modifiers) inputcore.Modifiers {
	var ret inputcore.Modifiers
	if m.Contain(key.ModCtrl) {
		ret |= inputcore.ModCtrl
	}
	if m.Contain(key.ModShift) {
		ret |= inputcore.ModShift
	}
	if m.Contain(key.ModAlt) {
		ret |= inputcore.ModAlt
	}
	if m.Contain(key.ModSuper) || m.Contain(key.ModCommand) {
		ret |= inputcore.ModMeta
	}
	return ret
}

// isModifierKey reports whether the key is itself a modifier; pressing one
// alone never triggers a shortcut.
func isModifierKey(n key.Name) bool {
	switch n {
	case key.NameCtrl, key.NameShift, key.NameAlt, key.NameSuper, key.NameCommand:
		return true
	}
	return false
}
