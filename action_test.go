package inputcore_test

import (
	"slices"
	"testing"

	"github.com/vsariola/inputcore"
)

func TestParseActionContext(t *testing.T) {
	for _, ctx := range []inputcore.ActionContext{inputcore.GlobalContext, inputcore.TimelineContext, inputcore.PianoRollContext, inputcore.MixerContext} {
		got, err := inputcore.ParseActionContext(ctx.String())
		if err != nil || got != ctx {
			t.Errorf("got %v (%v), expected %v", got, err, ctx)
		}
	}
	if _, err := inputcore.ParseActionContext("Arranger"); err == nil {
		t.Errorf("expected an error for an unknown context")
	}
}

func TestCatalog(t *testing.T) {
	c := inputcore.NewActionCatalog()
	c.Register("A")
	c.Register("B", inputcore.TimelineContext, inputcore.MixerContext)
	c.Register("A", inputcore.PianoRollContext)
	var order []inputcore.ActionID
	for id := range c.Actions {
		order = append(order, id)
	}
	if expected := []inputcore.ActionID{"A", "B"}; !slices.Equal(order, expected) {
		t.Errorf("got %v, expected %v", order, expected)
	}
	tests := []struct {
		id       inputcore.ActionID
		ctx      inputcore.ActionContext
		expected bool
	}{
		{"A", inputcore.PianoRollContext, true},
		{"A", inputcore.GlobalContext, false},
		{"B", inputcore.MixerContext, true},
		{"B", inputcore.PianoRollContext, false},
		{"C", inputcore.GlobalContext, false},
	}
	for _, tt := range tests {
		if got := c.Allowed(tt.id, tt.ctx); got != tt.expected {
			t.Errorf("Allowed(%v, %v): got %v, expected %v", tt.id, tt.ctx, got, tt.expected)
		}
	}
	if got, expected := (inputcore.ModCtrl | inputcore.ModShift).String(), "Ctrl+Shift"; got != expected {
		t.Errorf("got %v, expected %v", got, expected)
	}
}
