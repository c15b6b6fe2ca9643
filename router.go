package inputcore

import (
	"fmt"
	"slices"
	"time"
)

type (
	// Frame is the raw input of one rendered frame, as collected from the UI
	// toolkit.
	Frame struct {
		Time      time.Duration
		Keys      []KeyPress // keys pressed this frame, in arrival order
		Pointers  []Pointer  // pointers down at the end of the frame
		TextFocus bool       // a text input widget owns the keyboard focus
	}

	// Router turns the input of each frame into a list of actions. It owns
	// the gesture recognizer and reads the binding store; like them, it is
	// driven from the UI thread only.
	Router struct {
		bindings   *BindingStore
		catalog    *ActionCatalog
		recognizer *GestureRecognizer
		context    ActionContext
		gestures   map[gestureKey]ActionID
	}

	gestureKey struct {
		Context ActionContext
		Kind    GestureKind
	}
)

func NewRouter(bindings *BindingStore, recognizer *GestureRecognizer) *Router {
	r := &Router{
		bindings:   bindings,
		catalog:    bindings.catalog,
		recognizer: recognizer,
		gestures:   map[gestureKey]ActionID{},
	}
	r.gestures[gestureKey{TimelineContext, DoubleTap}] = Duplicate
	return r
}

// SetContext is called by the UI layer when the focus moves to another
// region. Changing the context cancels any gesture in progress.
func (r *Router) SetContext(ctx ActionContext) {
	if ctx == r.context {
		return
	}
	r.context = ctx
	r.recognizer.Reset()
}

func (r *Router) Context() ActionContext { return r.context }

// Bindings returns the binding store used for resolving keys. The store may be
// edited between frames.
func (r *Router) Bindings() *BindingStore { return r.bindings }

// SetGestureAction makes a gesture recognized in ctx emit an action. Pan and
// Pinch are continuous and consumed by the viewports directly, so they cannot
// be mapped to actions. The action must be allowed to fire in ctx. An empty id
// removes the mapping.
func (r *Router) SetGestureAction(ctx ActionContext, kind GestureKind, id ActionID) error {
	if kind == Pan || kind == Pinch {
		return fmt.Errorf("%v cannot be mapped to an action", kind)
	}
	k := gestureKey{ctx, kind}
	if id == "" {
		delete(r.gestures, k)
		return nil
	}
	if !r.catalog.Known(id) {
		return fmt.Errorf("unknown action %q", id)
	}
	if !r.catalog.Allowed(id, ctx) {
		return fmt.Errorf("action %q cannot fire in %v", id, ctx)
	}
	r.gestures[k] = id
	return nil
}

// PollActions is called exactly once per frame and returns the actions
// emitted in that frame.
//
// While a text input has focus, shortcuts and gestures are suppressed: the
// result is [Escape] if Escape was pressed and empty otherwise. Otherwise
// every pressed key is resolved against the current context, followed by the
// actions of the recognized gestures. Each action is emitted at most once per
// frame.
func (r *Router) PollActions(f Frame) []AppAction {
	if f.TextFocus {
		r.recognizer.Suspend(PointerFrame{Time: f.Time, Pointers: f.Pointers})
		for _, k := range f.Keys {
			if NormalizeKey(k.Key) == KeyEscape {
				return []AppAction{{ID: Escape}}
			}
		}
		return nil
	}
	var ret []AppAction
	for _, k := range f.Keys {
		for _, id := range r.bindings.Resolve(r.context, k.Key, k.Modifiers) {
			if !emitted(ret, id) {
				ret = append(ret, AppAction{ID: id})
			}
		}
	}
	for _, g := range r.recognizer.Update(PointerFrame{Time: f.Time, Pointers: f.Pointers}) {
		id, ok := r.gestures[gestureKey{r.context, g.Kind}]
		if !ok || !r.catalog.Allowed(id, r.context) || emitted(ret, id) {
			continue
		}
		ret = append(ret, AppAction{ID: id, Payload: g.Position})
	}
	return ret
}

func emitted(actions []AppAction, id ActionID) bool {
	return slices.ContainsFunc(actions, func(a AppAction) bool { return a.ID == id })
}
