package gioui

import (
	"fmt"

	"github.com/vsariola/inputcore"
)

// focusActions are the actions that move the focus to each context; Global
// has none.
var focusActions = [...]inputcore.ActionID{
	inputcore.TimelineContext:  inputcore.FocusTimeline,
	inputcore.PianoRollContext: inputcore.FocusPianoRoll,
	inputcore.MixerContext:     inputcore.FocusMixer,
}

// MakeHint appends the first binding of id to hint, formatted with format,
// e.g. "Mixer" + " (%s)" gives "Mixer (Alt+3)". Unbound actions leave hint as
// it is.
func MakeHint(bindings *inputcore.BindingStore, hint, format string, id inputcore.ActionID) string {
	if k := bindings.Hint(id); k != "" {
		return hint + fmt.Sprintf(format, k)
	}
	return hint
}

func contextHint(bindings *inputcore.BindingStore, ctx inputcore.ActionContext) string {
	if int(ctx) >= len(focusActions) || focusActions[ctx] == "" {
		return ""
	}
	return MakeHint(bindings, "Focus "+ctx.String(), " (%s)", focusActions[ctx])
}
