// Package gomidi implements midi.Driver on top of gitlab.com/gomidi/midi/v2
// and its rtmidi backend. It requires cgo.
package gomidi

import (
	"fmt"
	"log/slog"

	inputmidi "github.com/vsariola/inputcore/midi"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type (
	RTMIDIDriver struct {
		driver *rtmididrv.Driver
		logger *slog.Logger
	}

	RTMIDIInput struct {
		in     drivers.In
		logger *slog.Logger
	}
)

// NewDriver opens the rtmidi driver.
func NewDriver(logger *slog.Logger) (*RTMIDIDriver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("opening rtmidi driver failed: %w", err)
	}
	return &RTMIDIDriver{driver: d, logger: logger}, nil
}

func (d *RTMIDIDriver) Ins() ([]inputmidi.InPort, error) {
	ins, err := d.driver.Ins()
	if err != nil {
		return nil, err
	}
	ret := make([]inputmidi.InPort, len(ins))
	for i, in := range ins {
		ret[i] = RTMIDIInput{in: in, logger: d.logger}
	}
	return ret, nil
}

func (d *RTMIDIDriver) Close() error {
	return d.driver.Close()
}

func (p RTMIDIInput) String() string { return p.in.String() }
func (p RTMIDIInput) Open() error    { return p.in.Open() }
func (p RTMIDIInput) Close() error   { return p.in.Close() }

// Listen forwards the raw bytes of every message. rtmidi reports time stamps
// in milliseconds since the port was opened.
func (p RTMIDIInput) Listen(onMsg func(data []byte, offsetUs uint64)) (stop func(), err error) {
	return midi.ListenTo(p.in, func(msg midi.Message, timestampms int32) {
		onMsg(msg, uint64(max(timestampms, 0))*1000)
	}, midi.HandleError(func(err error) {
		p.logger.Warn("MIDI input error", "port", p.in.String(), "err", err)
	}))
}
