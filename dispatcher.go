package inputcore

type (
	// Dispatcher is the action bus between the router and the rest of the
	// application. Handlers register for the actions they implement; there is
	// no shared registry, each application root owns its dispatcher.
	Dispatcher struct {
		handlers map[ActionID][]func(AppAction)
		fallback []func(AppAction)
	}
)

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[ActionID][]func(AppAction){}}
}

// Handle registers f to be called for every dispatched action with the given
// id. Handlers of the same action are called in registration order.
func (d *Dispatcher) Handle(id ActionID, f func(AppAction)) {
	d.handlers[id] = append(d.handlers[id], f)
}

// HandleAny registers f to be called for every dispatched action, after the
// handlers registered with Handle.
func (d *Dispatcher) HandleAny(f func(AppAction)) {
	d.fallback = append(d.fallback, f)
}

// Dispatch delivers the actions in order. It returns the number of actions
// that had at least one specific handler.
func (d *Dispatcher) Dispatch(actions []AppAction) int {
	handled := 0
	for _, a := range actions {
		hs := d.handlers[a.ID]
		for _, h := range hs {
			h(a)
		}
		if len(hs) > 0 {
			handled++
		}
		for _, h := range d.fallback {
			h(a)
		}
	}
	return handled
}
