//go:build !cgo

package cmd

import (
	"log/slog"

	"github.com/vsariola/inputcore/midi"
)

func NewMIDIDriver(logger *slog.Logger) midi.Driver {
	// with no cgo, we cannot use rtmidi, so return a driver without ports
	logger.Info("MIDI input not compiled in (built without cgo)")
	return midi.NullDriver{}
}
