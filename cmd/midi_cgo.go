//go:build cgo

package cmd

import (
	"log/slog"

	"github.com/vsariola/inputcore/gomidi"
	"github.com/vsariola/inputcore/midi"
)

// NewMIDIDriver returns the rtmidi driver, or a driver without ports if
// rtmidi could not be opened.
func NewMIDIDriver(logger *slog.Logger) midi.Driver {
	d, err := gomidi.NewDriver(logger)
	if err != nil {
		logger.Warn("MIDI input disabled", "err", err)
		return midi.NullDriver{}
	}
	return d
}
