package inputcore_test

import (
	"slices"
	"testing"

	"github.com/vsariola/inputcore"
)

func TestDispatch(t *testing.T) {
	d := inputcore.NewDispatcher()
	var log []string
	d.Handle(inputcore.Undo, func(inputcore.AppAction) { log = append(log, "undo1") })
	d.Handle(inputcore.Undo, func(inputcore.AppAction) { log = append(log, "undo2") })
	d.Handle(inputcore.Copy, func(inputcore.AppAction) { log = append(log, "copy") })
	d.HandleAny(func(a inputcore.AppAction) { log = append(log, "any:"+string(a.ID)) })
	handled := d.Dispatch([]inputcore.AppAction{{ID: inputcore.Undo}, {ID: inputcore.Paste}, {ID: inputcore.Copy}})
	if handled != 2 {
		t.Errorf("got %v handled, expected %v", handled, 2)
	}
	expected := []string{"undo1", "undo2", "any:Undo", "any:Paste", "copy", "any:Copy"}
	if !slices.Equal(log, expected) {
		t.Errorf("got %v, expected %v", log, expected)
	}
}
