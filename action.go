package inputcore

import (
	"fmt"
	"slices"
)

type (
	// ActionContext tells which region of the UI currently owns the focus.
	// Shortcuts scoped to a context fire only when that context is active;
	// shortcuts scoped to GlobalContext fire everywhere.
	ActionContext int

	// ActionID is the stable identifier of a logical user intent, used as the
	// key in the shortcut configuration file.
	ActionID string

	// AppAction is one emitted user intent. Payload is optional; gesture
	// derived actions carry the gesture position (f32.Point) in it.
	AppAction struct {
		ID      ActionID
		Payload any
	}

	// ActionCatalog lists the known actions and the contexts in which each of
	// them is allowed to fire. The catalog is an explicit object owned by the
	// application; there is no process-wide registry.
	ActionCatalog struct {
		order    []ActionID
		contexts map[ActionID][]ActionContext
	}
)

const (
	GlobalContext ActionContext = iota
	TimelineContext
	PianoRollContext
	MixerContext
)

const (
	Undo           ActionID = "Undo"
	Redo           ActionID = "Redo"
	Copy           ActionID = "Copy"
	Paste          ActionID = "Paste"
	Delete         ActionID = "Delete"
	Duplicate      ActionID = "Duplicate"
	Escape         ActionID = "Escape"
	SaveProject    ActionID = "SaveProject"
	PlayingToggle  ActionID = "PlayingToggle"
	RecordToggle   ActionID = "RecordToggle"
	SplitClip      ActionID = "SplitClip"
	Quantize       ActionID = "Quantize"
	TransposeUp    ActionID = "TransposeUp"
	TransposeDown  ActionID = "TransposeDown"
	MuteToggle     ActionID = "MuteToggle"
	SoloToggle     ActionID = "SoloToggle"
	FocusTimeline  ActionID = "FocusTimeline"
	FocusPianoRoll ActionID = "FocusPianoRoll"
	FocusMixer     ActionID = "FocusMixer"
)

var contextNames = [...]string{
	GlobalContext:    "Global",
	TimelineContext:  "Timeline",
	PianoRollContext: "PianoRoll",
	MixerContext:     "Mixer",
}

func (c ActionContext) String() string {
	if c < 0 || int(c) >= len(contextNames) {
		return fmt.Sprintf("ActionContext(%d)", int(c))
	}
	return contextNames[c]
}

// ParseActionContext is the inverse of ActionContext.String.
func ParseActionContext(s string) (ActionContext, error) {
	for i, n := range contextNames {
		if n == s {
			return ActionContext(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action context %q", s)
}

// NewActionCatalog returns an empty catalog.
func NewActionCatalog() *ActionCatalog {
	return &ActionCatalog{contexts: make(map[ActionID][]ActionContext)}
}

// DefaultActionCatalog returns the catalog of the actions the application
// ships with.
func DefaultActionCatalog() *ActionCatalog {
	c := NewActionCatalog()
	c.Register(Undo, GlobalContext)
	c.Register(Redo, GlobalContext)
	c.Register(Copy, GlobalContext)
	c.Register(Paste, GlobalContext)
	c.Register(Delete, GlobalContext)
	c.Register(Escape, GlobalContext)
	c.Register(SaveProject, GlobalContext)
	c.Register(PlayingToggle, GlobalContext)
	c.Register(RecordToggle, GlobalContext)
	c.Register(FocusTimeline, GlobalContext)
	c.Register(FocusPianoRoll, GlobalContext)
	c.Register(FocusMixer, GlobalContext)
	c.Register(Duplicate, TimelineContext, PianoRollContext)
	c.Register(SplitClip, TimelineContext)
	c.Register(Quantize, PianoRollContext)
	c.Register(TransposeUp, PianoRollContext)
	c.Register(TransposeDown, PianoRollContext)
	c.Register(MuteToggle, MixerContext)
	c.Register(SoloToggle, MixerContext)
	return c
}

// Register adds an action to the catalog, or replaces the contexts of an
// already registered one. Registering with no contexts means GlobalContext.
func (c *ActionCatalog) Register(id ActionID, contexts ...ActionContext) {
	if len(contexts) == 0 {
		contexts = []ActionContext{GlobalContext}
	}
	if _, ok := c.contexts[id]; !ok {
		c.order = append(c.order, id)
	}
	c.contexts[id] = slices.Clone(contexts)
}

// Known reports whether the action has been registered.
func (c *ActionCatalog) Known(id ActionID) bool {
	_, ok := c.contexts[id]
	return ok
}

// Contexts returns the contexts in which the action may fire.
func (c *ActionCatalog) Contexts(id ActionID) []ActionContext {
	return c.contexts[id]
}

// Actions iterates the registered actions in registration order.
func (c *ActionCatalog) Actions(yield func(ActionID) bool) {
	for _, id := range c.order {
		if !yield(id) {
			return
		}
	}
}

// Allowed reports whether the action may fire while ctx is active, i.e.
// whether its context set intersects {ctx, GlobalContext}.
func (c *ActionCatalog) Allowed(id ActionID, ctx ActionContext) bool {
	for _, a := range c.contexts[id] {
		if a == ctx || a == GlobalContext {
			return true
		}
	}
	return false
}

// specific reports whether the action is scoped to ctx itself rather than
// only through GlobalContext.
func (c *ActionCatalog) specific(id ActionID, ctx ActionContext) bool {
	return ctx != GlobalContext && slices.Contains(c.contexts[id], ctx)
}
