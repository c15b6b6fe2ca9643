package inputcore

import (
	"fmt"
	"math"
	"time"

	"gioui.org/f32"
)

type (
	GestureKind int

	// GestureEvent is one recognized pointer gesture. Position is set for
	// DoubleTap and LongPress, Delta (cumulative since the drag started) for
	// Pan and Scale (current finger distance relative to the initial one) for
	// Pinch.
	GestureEvent struct {
		Kind     GestureKind
		Position f32.Point
		Delta    f32.Point
		Scale    float32
	}

	// Pointer is a pointer or touch contact that is down during a frame.
	Pointer struct {
		ID       int
		Position f32.Point
	}

	// PointerFrame is the set of pointers down at time Time. Time is
	// monotonic, e.g. the time since the window was opened.
	PointerFrame struct {
		Time     time.Duration
		Pointers []Pointer
	}

	// GestureConfig holds the thresholds of the gesture recognizer. Distances
	// are in pixels.
	GestureConfig struct {
		TapMaxDuration    time.Duration `yaml:"tapmaxduration"`    // longest press still counted as a tap
		TapSlop           float32       `yaml:"tapslop"`           // largest movement still counted as a tap
		DoubleTapInterval time.Duration `yaml:"doubletapinterval"` // from first release to second press
		DoubleTapRadius   float32       `yaml:"doubletapradius"`   // largest distance between the two taps
		LongPressDuration time.Duration `yaml:"longpressduration"` // also the idle timeout of a pending tap
		LongPressSlop     float32       `yaml:"longpressslop"`
		PanThreshold      float32       `yaml:"panthreshold"` // movement that turns a press into a pan
	}

	// GestureRecognizer detects gestures from per frame pointer snapshots. It is
	// not safe for concurrent use; call Update once per frame from the UI
	// thread.
	GestureRecognizer struct {
		Config GestureConfig

		state      gestureState
		down       int // number of pointers down in the previous frame
		pointerID  int
		pressTime  time.Duration
		pressPos   f32.Point
		lastPos    f32.Point
		lastDelta  f32.Point
		pinchIDs   [2]int
		pinchStart float32
		lastScale  float32
		hasTap     bool
		tapTime    time.Duration
		tapPos     f32.Point
		events     []GestureEvent
	}

	gestureState int
)

const (
	DoubleTap GestureKind = iota
	LongPress
	Pan
	Pinch
)

const (
	gestureIdle gestureState = iota
	gesturePressed
	gestureLongPressed
	gesturePanning
	gesturePinching
	gestureBlocked // a gesture was cancelled; wait until all pointers are up
)

func DefaultGestureConfig() GestureConfig {
	return GestureConfig{
		TapMaxDuration:    250 * time.Millisecond,
		TapSlop:           6,
		DoubleTapInterval: 300 * time.Millisecond,
		DoubleTapRadius:   24,
		LongPressDuration: 500 * time.Millisecond,
		LongPressSlop:     10,
		PanThreshold:      12,
	}
}

func (k GestureKind) String() string {
	switch k {
	case DoubleTap:
		return "DoubleTap"
	case LongPress:
		return "LongPress"
	case Pan:
		return "Pan"
	case Pinch:
		return "Pinch"
	}
	return fmt.Sprintf("GestureKind(%d)", int(k))
}

func NewGestureRecognizer(config GestureConfig) *GestureRecognizer {
	return &GestureRecognizer{Config: config}
}

// Reset forgets any gesture in progress and any pending first tap. Pointers
// that are still down are ignored until they are released.
func (r *GestureRecognizer) Reset() {
	r.hasTap = false
	if r.down > 0 {
		r.state = gestureBlocked
	} else {
		r.state = gestureIdle
	}
}

// Suspend is Reset for a frame that is not fed to Update, e.g. while a text
// input owns the focus. The pointers down in f are ignored until released.
func (r *GestureRecognizer) Suspend(f PointerFrame) {
	r.down = len(f.Pointers)
	r.Reset()
}

// Update advances the recognizer by one frame and returns the gestures
// recognized in it. The returned slice is reused by the next call.
func (r *GestureRecognizer) Update(f PointerFrame) []GestureEvent {
	r.events = r.events[:0]
	n := len(f.Pointers)
	switch r.state {
	case gestureIdle:
		if r.hasTap && f.Time-r.tapTime > r.Config.LongPressDuration {
			r.hasTap = false
		}
		r.begin(f)
	case gesturePressed, gestureLongPressed:
		if n >= 2 {
			r.startPinch(f)
			break
		}
		p, ok := find(f.Pointers, r.pointerID)
		if !ok {
			r.release(f.Time)
			r.begin(f)
			break
		}
		r.lastPos = p.Position
		moved := distance(r.pressPos, p.Position)
		switch {
		case moved >= r.Config.PanThreshold:
			r.state = gesturePanning
			r.hasTap = false
			r.pan(p.Position)
		case r.state == gesturePressed && f.Time-r.pressTime >= r.Config.LongPressDuration && moved < r.Config.LongPressSlop:
			r.state = gestureLongPressed
		}
	case gesturePanning:
		if n >= 2 {
			r.startPinch(f)
			break
		}
		p, ok := find(f.Pointers, r.pointerID)
		if !ok {
			r.state = gestureIdle
			r.begin(f)
			break
		}
		r.lastPos = p.Position
		r.pan(p.Position)
	case gesturePinching:
		a, okA := find(f.Pointers, r.pinchIDs[0])
		b, okB := find(f.Pointers, r.pinchIDs[1])
		if !okA || !okB {
			r.state = gestureBlocked
			if n == 0 {
				r.state = gestureIdle
			}
			break
		}
		d := distance(a.Position, b.Position)
		if r.pinchStart <= 0 {
			r.pinchStart = d
			break
		}
		if scale := d / r.pinchStart; scale != r.lastScale {
			r.lastScale = scale
			r.events = append(r.events, GestureEvent{Kind: Pinch, Scale: scale})
		}
	case gestureBlocked:
		if n == 0 {
			r.state = gestureIdle
		}
	}
	r.down = n
	return r.events
}

// begin starts tracking from the idle state.
func (r *GestureRecognizer) begin(f PointerFrame) {
	switch len(f.Pointers) {
	case 0:
		return
	case 1:
		p := f.Pointers[0]
		r.state = gesturePressed
		r.pointerID = p.ID
		r.pressTime = f.Time
		r.pressPos = p.Position
		r.lastPos = p.Position
		r.lastDelta = f32.Point{}
	default:
		r.startPinch(f)
	}
}

func (r *GestureRecognizer) release(t time.Duration) {
	r.state = gestureIdle
	held := t - r.pressTime
	moved := distance(r.pressPos, r.lastPos)
	switch {
	case held >= r.Config.LongPressDuration && moved < r.Config.LongPressSlop:
		r.hasTap = false
		r.events = append(r.events, GestureEvent{Kind: LongPress, Position: r.lastPos})
	case held <= r.Config.TapMaxDuration && moved < r.Config.TapSlop:
		if r.hasTap && r.pressTime-r.tapTime <= r.Config.DoubleTapInterval && distance(r.tapPos, r.lastPos) <= r.Config.DoubleTapRadius {
			r.hasTap = false
			r.events = append(r.events, GestureEvent{Kind: DoubleTap, Position: r.lastPos})
			return
		}
		r.hasTap = true
		r.tapTime = t
		r.tapPos = r.lastPos
	default:
		r.hasTap = false
	}
}

func (r *GestureRecognizer) pan(pos f32.Point) {
	delta := pos.Sub(r.pressPos)
	if delta == r.lastDelta {
		return
	}
	r.lastDelta = delta
	r.events = append(r.events, GestureEvent{Kind: Pan, Delta: delta})
}

func (r *GestureRecognizer) startPinch(f PointerFrame) {
	r.state = gesturePinching
	r.hasTap = false
	r.pinchIDs = [2]int{f.Pointers[0].ID, f.Pointers[1].ID}
	r.pinchStart = distance(f.Pointers[0].Position, f.Pointers[1].Position)
	r.lastScale = 1
}

func find(pointers []Pointer, id int) (Pointer, bool) {
	for _, p := range pointers {
		if p.ID == id {
			return p, true
		}
	}
	return Pointer{}, false
}

func distance(a, b f32.Point) float32 {
	d := a.Sub(b)
	return float32(math.Hypot(float64(d.X), float64(d.Y)))
}
