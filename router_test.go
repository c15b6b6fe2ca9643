package inputcore_test

import (
	"slices"
	"testing"
	"time"

	"gioui.org/f32"
	"github.com/vsariola/inputcore"
)

func newRouter() *inputcore.Router {
	bindings := inputcore.DefaultBindings(inputcore.DefaultActionCatalog())
	return inputcore.NewRouter(bindings, inputcore.NewGestureRecognizer(inputcore.DefaultGestureConfig()))
}

func ids(actions []inputcore.AppAction) []inputcore.ActionID {
	ret := make([]inputcore.ActionID, len(actions))
	for i, a := range actions {
		ret[i] = a.ID
	}
	return ret
}

func press(key string, mods inputcore.Modifiers) inputcore.KeyPress {
	return inputcore.KeyPress{Key: key, Modifiers: mods}
}

func TestTextFocusSuppressesShortcuts(t *testing.T) {
	tests := []struct {
		name     string
		keys     []inputcore.KeyPress
		expected []inputcore.ActionID
	}{
		{"Escape", []inputcore.KeyPress{press(inputcore.KeyEscape, 0)}, []inputcore.ActionID{inputcore.Escape}},
		{"EscapeWithModifier", []inputcore.KeyPress{press(inputcore.KeyEscape, inputcore.ModShift)}, []inputcore.ActionID{inputcore.Escape}},
		{"EscapeAmongOthers", []inputcore.KeyPress{press("Z", inputcore.ModCtrl), press(inputcore.KeyEscape, 0)}, []inputcore.ActionID{inputcore.Escape}},
		{"Shortcut", []inputcore.KeyPress{press("Z", inputcore.ModCtrl)}, nil},
		{"Typing", []inputcore.KeyPress{press("S", 0), press(inputcore.KeySpace, 0)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter()
			r.SetContext(inputcore.TimelineContext)
			got := ids(r.PollActions(inputcore.Frame{Keys: tt.keys, TextFocus: true}))
			if !slices.Equal(got, tt.expected) {
				t.Errorf("got %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestTextFocusSuppressesGestures(t *testing.T) {
	r := newRouter()
	r.SetContext(inputcore.TimelineContext)
	frames := []inputcore.Frame{
		{Time: 0, Pointers: []inputcore.Pointer{at(1, 10, 10)}, TextFocus: true},
		{Time: 50 * ms, TextFocus: true},
		{Time: 100 * ms, Pointers: []inputcore.Pointer{at(1, 10, 10)}, TextFocus: true},
		{Time: 150 * ms, TextFocus: true},
	}
	for _, f := range frames {
		if got := r.PollActions(f); len(got) != 0 {
			t.Errorf("got %v, expected nothing while text has focus", ids(got))
		}
	}
}

func TestPollActionsKeys(t *testing.T) {
	r := newRouter()
	r.SetContext(inputcore.TimelineContext)
	got := ids(r.PollActions(inputcore.Frame{Keys: []inputcore.KeyPress{
		press("Z", inputcore.ModCtrl),
		press("S", 0),
		press("Y", inputcore.ModCtrl),
		press("Z", inputcore.ModCtrl | inputcore.ModShift),
		press("M", 0),
	}}))
	expected := []inputcore.ActionID{inputcore.Undo, inputcore.SplitClip, inputcore.Redo}
	if !slices.Equal(got, expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}
}

func TestPollActionsSharedBinding(t *testing.T) {
	bindings := inputcore.DefaultBindings(inputcore.DefaultActionCatalog())
	bindings.Add(inputcore.PlayingToggle, inputcore.KeyBinding{Key: "S"})
	r := inputcore.NewRouter(bindings, inputcore.NewGestureRecognizer(inputcore.DefaultGestureConfig()))
	r.SetContext(inputcore.TimelineContext)
	got := ids(r.PollActions(inputcore.Frame{Keys: []inputcore.KeyPress{press("s", 0)}}))
	expected := []inputcore.ActionID{inputcore.SplitClip, inputcore.PlayingToggle}
	if !slices.Equal(got, expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}
}

func doubleTapFrames(x, y float32) []inputcore.Frame {
	return []inputcore.Frame{
		{Time: 0, Pointers: []inputcore.Pointer{at(1, x, y)}},
		{Time: 50 * ms},
		{Time: 150 * ms, Pointers: []inputcore.Pointer{at(1, x, y)}},
		{Time: 200 * ms},
	}
}

func TestDoubleTapDuplicatesInTimeline(t *testing.T) {
	r := newRouter()
	r.SetContext(inputcore.TimelineContext)
	var got []inputcore.AppAction
	for _, f := range doubleTapFrames(40, 30) {
		got = append(got, r.PollActions(f)...)
	}
	if len(got) != 1 || got[0].ID != inputcore.Duplicate {
		t.Fatalf("got %v, expected [Duplicate]", ids(got))
	}
	if got[0].Payload != f32.Pt(40, 30) {
		t.Errorf("got payload %v, expected the tap position", got[0].Payload)
	}
}

func TestDoubleTapIgnoredElsewhere(t *testing.T) {
	for _, ctx := range []inputcore.ActionContext{inputcore.GlobalContext, inputcore.PianoRollContext, inputcore.MixerContext} {
		r := newRouter()
		r.SetContext(ctx)
		for _, f := range doubleTapFrames(40, 30) {
			if got := r.PollActions(f); len(got) != 0 {
				t.Errorf("%v: got %v, expected nothing", ctx, ids(got))
			}
		}
	}
}

func TestContextSwitchCancelsGesture(t *testing.T) {
	r := newRouter()
	r.SetContext(inputcore.TimelineContext)
	frames := doubleTapFrames(40, 30)
	r.PollActions(frames[0])
	r.PollActions(frames[1])
	r.SetContext(inputcore.MixerContext)
	r.SetContext(inputcore.TimelineContext)
	for _, f := range frames[2:] {
		if got := r.PollActions(f); len(got) != 0 {
			t.Errorf("got %v, expected the context switch to cancel the double tap", ids(got))
		}
	}
}

func TestSetGestureAction(t *testing.T) {
	r := newRouter()
	for _, kind := range []inputcore.GestureKind{inputcore.Pan, inputcore.Pinch} {
		if err := r.SetGestureAction(inputcore.TimelineContext, kind, inputcore.Duplicate); err == nil {
			t.Errorf("expected %v to be rejected", kind)
		}
	}
	if err := r.SetGestureAction(inputcore.MixerContext, inputcore.LongPress, "Frobnicate"); err == nil {
		t.Errorf("expected an unknown action to be rejected")
	}
	if err := r.SetGestureAction(inputcore.MixerContext, inputcore.LongPress, inputcore.MuteToggle); err != nil {
		t.Fatalf("SetGestureAction failed: %v", err)
	}
	if err := r.SetGestureAction(inputcore.TimelineContext, inputcore.DoubleTap, ""); err != nil {
		t.Fatalf("SetGestureAction failed: %v", err)
	}
	r.SetContext(inputcore.MixerContext)
	var got []inputcore.AppAction
	for _, f := range []inputcore.Frame{
		{Time: 0, Pointers: []inputcore.Pointer{at(1, 5, 5)}},
		{Time: 600 * ms, Pointers: []inputcore.Pointer{at(1, 5, 5)}},
		{Time: 650 * ms},
	} {
		got = append(got, r.PollActions(f)...)
	}
	if g := ids(got); !slices.Equal(g, []inputcore.ActionID{inputcore.MuteToggle}) {
		t.Errorf("got %v, expected [MuteToggle]", g)
	}
	r.SetContext(inputcore.TimelineContext)
	for _, f := range doubleTapFrames(40, 30) {
		if got := r.PollActions(f); len(got) != 0 {
			t.Errorf("got %v, expected the removed mapping to emit nothing", ids(got))
		}
	}
}

func TestPanAndPinchNeverEmitActions(t *testing.T) {
	r := newRouter()
	r.SetContext(inputcore.TimelineContext)
	frames := []inputcore.Frame{
		{Time: 0, Pointers: []inputcore.Pointer{at(1, 0, 0)}},
		{Time: 16 * ms, Pointers: []inputcore.Pointer{at(1, 50, 0)}},
		{Time: 32 * ms, Pointers: []inputcore.Pointer{at(1, 50, 0), at(2, 150, 0)}},
		{Time: 48 * ms, Pointers: []inputcore.Pointer{at(1, 50, 0), at(2, 250, 0)}},
		{Time: 64 * ms},
	}
	for _, f := range frames {
		if got := r.PollActions(f); len(got) != 0 {
			t.Errorf("got %v, expected nothing", ids(got))
		}
	}
}

func TestGestureActionRespectsContext(t *testing.T) {
	r := newRouter()
	if err := r.SetGestureAction(inputcore.MixerContext, inputcore.LongPress, inputcore.Quantize); err == nil {
		t.Errorf("expected an action not allowed in Mixer to be rejected")
	}
	r.SetContext(inputcore.MixerContext)
	var got []inputcore.AppAction
	for _, f := range []inputcore.Frame{
		{Time: 0, Pointers: []inputcore.Pointer{at(1, 5, 5)}},
		{Time: 600 * ms, Pointers: []inputcore.Pointer{at(1, 5, 5)}},
		{Time: 650 * ms},
	} {
		got = append(got, r.PollActions(f)...)
	}
	if len(got) != 0 {
		t.Errorf("got %v, expected nothing", ids(got))
	}
}

func TestGestureActionRevokedByCatalog(t *testing.T) {
	catalog := inputcore.DefaultActionCatalog()
	r := inputcore.NewRouter(inputcore.DefaultBindings(catalog), inputcore.NewGestureRecognizer(inputcore.DefaultGestureConfig()))
	r.SetContext(inputcore.TimelineContext)
	catalog.Register(inputcore.Duplicate, inputcore.PianoRollContext)
	for _, f := range doubleTapFrames(40, 30) {
		if got := r.PollActions(f); len(got) != 0 {
			t.Errorf("got %v, expected Duplicate to be blocked outside its contexts", ids(got))
		}
	}
}

func TestKeyAndGestureSameActionOnce(t *testing.T) {
	r := newRouter()
	r.SetContext(inputcore.TimelineContext)
	frames := doubleTapFrames(40, 30)
	last := len(frames) - 1
	frames[last].Keys = []inputcore.KeyPress{press("D", inputcore.ModCtrl)}
	var got []inputcore.AppAction
	for i, f := range frames {
		got = r.PollActions(f)
		if i < last && len(got) != 0 {
			t.Errorf("frame %d: got %v, expected nothing", i, ids(got))
		}
	}
	if g := ids(got); !slices.Equal(g, []inputcore.ActionID{inputcore.Duplicate}) {
		t.Errorf("got %v, expected a single Duplicate", g)
	}
}

func TestReleaseUnderTextFocus(t *testing.T) {
	r := newRouter()
	r.SetContext(inputcore.TimelineContext)
	r.PollActions(inputcore.Frame{Time: 0, Pointers: []inputcore.Pointer{at(1, 10, 10)}})
	r.PollActions(inputcore.Frame{Time: 100 * ms, Pointers: []inputcore.Pointer{at(1, 10, 10)}, TextFocus: true})
	r.PollActions(inputcore.Frame{Time: 200 * ms, TextFocus: true})
	var got []inputcore.AppAction
	for _, f := range doubleTapFrames(40, 30) {
		f.Time += time.Second
		got = append(got, r.PollActions(f)...)
	}
	if g := ids(got); !slices.Equal(g, []inputcore.ActionID{inputcore.Duplicate}) {
		t.Errorf("got %v, expected the first tap after text focus to count", g)
	}
}

func TestHeldThroughTextFocusIsIgnored(t *testing.T) {
	r := newRouter()
	r.SetContext(inputcore.TimelineContext)
	r.PollActions(inputcore.Frame{Time: 0, Pointers: []inputcore.Pointer{at(1, 10, 10)}, TextFocus: true})
	// still held when the focus ends, released quickly; must not count as a tap
	r.PollActions(inputcore.Frame{Time: 50 * ms, Pointers: []inputcore.Pointer{at(1, 10, 10)}})
	r.PollActions(inputcore.Frame{Time: 100 * ms})
	got := r.PollActions(inputcore.Frame{Time: 150 * ms, Pointers: []inputcore.Pointer{at(1, 10, 10)}})
	got = append(got, r.PollActions(inputcore.Frame{Time: 200 * ms})...)
	if len(got) != 0 {
		t.Errorf("got %v, expected the pointer held through text focus to be ignored", ids(got))
	}
}
