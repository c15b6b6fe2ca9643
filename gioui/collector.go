// Package gioui connects the input core to a gio window: it gathers the key
// and pointer events of a frame into an inputcore.Frame and hosts a small
// window that shows what the router emits.
package gioui

import (
	"slices"
	"time"

	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"github.com/vsariola/inputcore"
)

type (
	// FrameCollector accumulates the events of one frame. Key presses are
	// collected until the next call to Frame; the set of pointers that are
	// down is kept across frames.
	FrameCollector struct {
		keys     []inputcore.KeyPress
		order    []pointer.ID
		position map[pointer.ID]f32.Point
		pressed  map[pointer.ID]bool // pressed during the current frame
		released map[pointer.ID]bool // pressed and released during the current frame
	}
)

func NewFrameCollector() *FrameCollector {
	return &FrameCollector{
		position: map[pointer.ID]f32.Point{},
		pressed:  map[pointer.ID]bool{},
		released: map[pointer.ID]bool{},
	}
}

func (c *FrameCollector) Key(e key.Event) {
	if e.State != key.Press || isModifierKey(e.Name) {
		return
	}
	c.keys = append(c.keys, inputcore.KeyPress{Key: KeyName(e.Name), Modifiers: Modifiers(e.Modifiers)})
}

func (c *FrameCollector) Pointer(e pointer.Event) {
	switch e.Kind {
	case pointer.Press:
		if _, ok := c.position[e.PointerID]; !ok {
			c.order = append(c.order, e.PointerID)
		}
		c.position[e.PointerID] = e.Position
		c.pressed[e.PointerID] = true
		delete(c.released, e.PointerID)
	case pointer.Drag, pointer.Move:
		if _, ok := c.position[e.PointerID]; ok {
			c.position[e.PointerID] = e.Position
		}
	case pointer.Release:
		if _, ok := c.position[e.PointerID]; !ok {
			return
		}
		c.position[e.PointerID] = e.Position
		if c.pressed[e.PointerID] {
			// keep it down for this frame so that a quick tap is not lost
			c.released[e.PointerID] = true
			return
		}
		c.remove(e.PointerID)
	case pointer.Cancel:
		for _, id := range slices.Clone(c.order) {
			c.remove(id)
		}
	}
}

// Frame returns the input of the frame that ends now and starts a new one.
func (c *FrameCollector) Frame(now time.Duration, textFocus bool) inputcore.Frame {
	f := inputcore.Frame{Time: now, Keys: c.keys, TextFocus: textFocus}
	for _, id := range c.order {
		f.Pointers = append(f.Pointers, inputcore.Pointer{ID: int(id), Position: c.position[id]})
	}
	c.keys = nil
	for id := range c.released {
		c.remove(id)
	}
	clear(c.pressed)
	return f
}

func (c *FrameCollector) remove(id pointer.ID) {
	delete(c.position, id)
	delete(c.released, id)
	c.order = slices.DeleteFunc(c.order, func(o pointer.ID) bool { return o == id })
}
