package gioui

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"gioui.org/x/explorer"
	"github.com/vsariola/inputcore"
	"github.com/vsariola/inputcore/midi"
	gomidi "gitlab.com/gomidi/midi/v2"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

type (
	C = layout.Context
	D = layout.Dimensions

	// Window is a gio window that feeds its input through a Router every
	// frame, dispatches the emitted actions and shows the MIDI traffic of a
	// PortManager.
	Window struct {
		Router     *inputcore.Router
		Dispatcher *inputcore.Dispatcher
		MIDI       *midi.PortManager
		Prefs      inputcore.Preferences

		theme       *material.Theme
		collector   *FrameCollector
		search      widget.Editor
		contexts    [4]widget.Clickable
		contextTips [4]component.TipArea
		importBtn   widget.Clickable
		exportBtn   widget.Clickable
		importTip   component.TipArea
		exportTip   component.TipArea
		importIcon  *widget.Icon
		exportIcon  *widget.Icon
		explorer    *explorer.Explorer
		fileOps     chan func() // results of the explorer dialogs, run in Main
		start       time.Time
		blur        bool
		lines       []string
	}
)

const maxLogLines = 24

func NewWindow(router *inputcore.Router, dispatcher *inputcore.Dispatcher, ports *midi.PortManager, prefs inputcore.Preferences) *Window {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	w := &Window{
		Router:     router,
		Dispatcher: dispatcher,
		MIDI:       ports,
		Prefs:      prefs,
		theme:      th,
		collector:  NewFrameCollector(),
		importIcon: mustIcon(icons.FileFolderOpen),
		exportIcon: mustIcon(icons.ContentSave),
		fileOps:    make(chan func()),
		start:      time.Now(),
	}
	w.search.SingleLine = true
	dispatcher.Handle(inputcore.Escape, func(inputcore.AppAction) { w.blur = true })
	dispatcher.Handle(inputcore.FocusTimeline, func(inputcore.AppAction) { router.SetContext(inputcore.TimelineContext) })
	dispatcher.Handle(inputcore.FocusPianoRoll, func(inputcore.AppAction) { router.SetContext(inputcore.PianoRollContext) })
	dispatcher.Handle(inputcore.FocusMixer, func(inputcore.AppAction) { router.SetContext(inputcore.MixerContext) })
	dispatcher.HandleAny(func(a inputcore.AppAction) {
		if a.Payload != nil {
			w.logf("%v %v @ %v", router.Context(), a.ID, a.Payload)
			return
		}
		w.logf("%v %v", router.Context(), a.ID)
	})
	return w
}

// Main runs the window until it is closed. It must not be called from the
// main goroutine; app.Main has to run there.
func (w *Window) Main() {
	var ops op.Ops
	win := new(app.Window)
	win.Option(app.Title("inputcore"), app.Size(unit.Dp(w.Prefs.Window.Width), unit.Dp(w.Prefs.Window.Height)))
	w.explorer = explorer.NewExplorer(win)
	acks := make(chan struct{})
	events := make(chan event.Event)
	go func() {
		for {
			ev := win.Event()
			events <- ev
			<-acks
			if _, ok := ev.(app.DestroyEvent); ok {
				return
			}
		}
	}()
	var midiMessages <-chan midi.RawMessage
	if w.MIDI != nil {
		midiMessages = w.MIDI.Messages()
	}
	for {
		select {
		case f := <-w.fileOps:
			f()
			win.Invalidate()
		case m := <-midiMessages:
			w.logf("MIDI %8dus %v", m.TimestampUs, gomidi.Message(m.Data[:]))
			win.Invalidate()
		case e := <-events:
			switch e := e.(type) {
			case app.DestroyEvent:
				acks <- struct{}{}
				return
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				w.Layout(gtx)
				e.Frame(gtx.Ops)
			}
			acks <- struct{}{}
		}
	}
}

func (w *Window) Layout(gtx C) D {
	defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, w)
	for i := range w.contexts {
		for w.contexts[i].Clicked(gtx) {
			w.Router.SetContext(inputcore.ActionContext(i))
		}
	}
	for w.importBtn.Clicked(gtx) {
		w.importBindings()
	}
	for w.exportBtn.Clicked(gtx) {
		w.exportBindings()
	}
	if w.blur {
		gtx.Execute(key.FocusCmd{Tag: nil})
		w.blur = false
	}
	dims := layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(w.layoutContexts),
			layout.Rigid(func(gtx C) D {
				return layout.Inset{Top: unit.Dp(8), Bottom: unit.Dp(8)}.Layout(gtx, material.Editor(w.theme, &w.search, "Search (text focus suppresses shortcuts)").Layout)
			}),
			layout.Rigid(material.Body2(w.theme, w.midiStatus()).Layout),
			layout.Flexed(1, material.Body2(w.theme, strings.Join(w.lines, "\n")).Layout),
		)
	})
	// this is the top level input handler: everything not consumed by the
	// widgets above ends up in the router
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: "", Optional: key.ModAlt | key.ModCtrl | key.ModShift | key.ModSuper | key.ModCommand},
			key.Filter{Name: key.NameTab, Optional: key.ModShift | key.ModCtrl},
			pointer.Filter{Target: w, Kinds: pointer.Press | pointer.Release | pointer.Drag | pointer.Cancel},
		)
		if !ok {
			break
		}
		switch e := ev.(type) {
		case key.Event:
			w.collector.Key(e)
		case pointer.Event:
			w.collector.Pointer(e)
		}
	}
	frame := w.collector.Frame(gtx.Now.Sub(w.start), gtx.Focused(&w.search))
	w.Dispatcher.Dispatch(w.Router.PollActions(frame))
	return dims
}

func (w *Window) layoutContexts(gtx C) D {
	children := make([]layout.FlexChild, len(w.contexts), len(w.contexts)+2)
	for i := range w.contexts {
		ctx := inputcore.ActionContext(i)
		children[i] = layout.Rigid(func(gtx C) D {
			btn := material.Button(w.theme, &w.contexts[i], ctx.String())
			if ctx != w.Router.Context() {
				btn.Background = w.theme.Palette.ContrastBg
				btn.Background.A = 0x60
			}
			return layout.Inset{Right: unit.Dp(4)}.Layout(gtx, func(gtx C) D {
				hint := contextHint(w.Router.Bindings(), ctx)
				if hint == "" {
					return btn.Layout(gtx)
				}
				return w.contextTips[i].Layout(gtx, component.PlatformTooltip(w.theme, hint), btn.Layout)
			})
		})
	}
	children = append(children,
		layout.Rigid(w.iconButton(&w.importBtn, &w.importTip, w.importIcon, "Import key bindings")),
		layout.Rigid(w.iconButton(&w.exportBtn, &w.exportTip, w.exportIcon, "Export key bindings")),
	)
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx, children...)
}

func (w *Window) iconButton(c *widget.Clickable, tip *component.TipArea, icon *widget.Icon, hint string) layout.Widget {
	return func(gtx C) D {
		btn := material.IconButton(w.theme, c, icon, hint)
		btn.Size = unit.Dp(20)
		btn.Inset = layout.UniformInset(unit.Dp(6))
		return tip.Layout(gtx, component.PlatformTooltip(w.theme, hint), btn.Layout)
	}
}

// importBindings replaces the key bindings with a file chosen by the user.
// The dialog blocks, so it runs in its own goroutine and hands the result
// back to Main.
func (w *Window) importBindings() {
	if w.explorer == nil {
		return
	}
	go func() {
		file, err := w.explorer.ChooseFile(".yml", ".yaml")
		w.fileOps <- func() {
			if err != nil {
				w.explorerError("import", err)
				return
			}
			defer file.Close()
			if err := w.Router.Bindings().Load(file); err != nil {
				w.logf("%v", err)
				return
			}
			w.logf("imported key bindings")
		}
	}()
}

func (w *Window) exportBindings() {
	if w.explorer == nil {
		return
	}
	go func() {
		file, err := w.explorer.CreateFile("bindings.yml")
		w.fileOps <- func() {
			if err != nil {
				w.explorerError("export", err)
				return
			}
			if err := saveAndClose(w.Router.Bindings(), file); err != nil {
				w.logf("%v", err)
				return
			}
			w.logf("exported key bindings")
		}
	}()
}

func saveAndClose(b *inputcore.BindingStore, wc io.WriteCloser) error {
	if err := b.Save(wc); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

func (w *Window) explorerError(op string, err error) {
	if !errors.Is(err, explorer.ErrUserDecline) {
		w.logf("%s failed: %v", op, err)
	}
}

func mustIcon(data []byte) *widget.Icon {
	icon, err := widget.NewIcon(data)
	if err != nil {
		panic(fmt.Errorf("invalid icon data: %w", err))
	}
	return icon
}

func (w *Window) midiStatus() string {
	if w.MIDI == nil {
		return "MIDI: none"
	}
	s := w.MIDI.State()
	if !s.Connected {
		return fmt.Sprintf("MIDI: disconnected (dropped %d)", w.MIDI.Dropped())
	}
	return fmt.Sprintf("MIDI: %s (dropped %d)", s.Port, w.MIDI.Dropped())
}

func (w *Window) logf(format string, args ...any) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
	if len(w.lines) > maxLogLines {
		w.lines = w.lines[len(w.lines)-maxLogLines:]
	}
}
