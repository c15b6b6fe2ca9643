// Package midi manages the hardware MIDI input connection. At most one input
// port is connected at a time; the messages it delivers are time stamped and
// handed to the consumer through a bounded channel that never blocks the
// driver.
package midi

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type (
	// RawMessage is one 3-byte channel voice message received from the
	// hardware. TimestampUs is in microseconds since the manager was created;
	// within one connection it never decreases.
	RawMessage struct {
		TimestampUs uint64
		Data        [3]byte
	}

	// Driver enumerates the input ports of a MIDI backend.
	Driver interface {
		Ins() ([]InPort, error)
		Close() error
	}

	// InPort is one input port of a Driver.
	InPort interface {
		String() string
		Open() error
		Close() error
		// Listen installs onMsg, which the driver calls from its own thread
		// for every incoming message. offsetUs is the driver's time stamp of
		// the message in microseconds since the port was opened. stop
		// uninstalls the listener.
		Listen(onMsg func(data []byte, offsetUs uint64)) (stop func(), err error)
	}

	// ConnectionState is a snapshot of the hardware link. ID identifies one
	// successful Connect and changes on every reconnect.
	ConnectionState struct {
		Connected bool
		Port      string
		ID        string
	}

	// PortInfo is a port name annotated with whether it is the currently
	// connected port.
	PortInfo struct {
		Name      string
		Connected bool
	}

	// PortManager owns the lifecycle of the MIDI input connection.
	//
	// Connect and Disconnect are serialized and are meant to be called from
	// the UI thread. The driver callback touches only atomics and the
	// message channel, so it never waits on them. A message that was already
	// in flight when Disconnect returned may still be delivered.
	PortManager struct {
		driver   Driver
		messages chan RawMessage
		dropped  atomic.Uint64
		now      func() time.Time
		base     time.Time
		logger   *slog.Logger

		ops  sync.Mutex // serializes Connect and Disconnect
		conn atomic.Pointer[connection]
	}

	connection struct {
		id      string
		name    string
		port    InPort
		stop    func()
		epochUs uint64
		last    atomic.Uint64
	}

	Option func(*PortManager)

	// ConnectionError is returned when the driver fails to open the requested
	// port. The manager is left disconnected.
	ConnectionError struct {
		Port string
		Err  error
	}
)

// ErrPortNotFound is returned by Connect when no currently enumerated port
// has the requested name. The connection state is left unchanged.
var ErrPortNotFound = errors.New("MIDI input port not found")

// DefaultBufferSize is the default capacity of the message channel.
const DefaultBufferSize = 1024

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("opening MIDI input %q failed: %v", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// WithBufferSize sets the capacity of the message channel. When the channel
// is full, newly arriving messages are dropped.
func WithBufferSize(n int) Option {
	return func(m *PortManager) {
		if n > 0 {
			m.messages = make(chan RawMessage, n)
		}
	}
}

// WithClock replaces time.Now as the source of connection epochs.
func WithClock(now func() time.Time) Option {
	return func(m *PortManager) { m.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *PortManager) { m.logger = l }
}

func NewPortManager(driver Driver, opts ...Option) *PortManager {
	m := &PortManager{
		driver:   driver,
		messages: make(chan RawMessage, DefaultBufferSize),
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(m)
	}
	m.base = m.now()
	return m
}

// Messages returns the channel on which the received messages are
// delivered. The channel is never closed.
func (m *PortManager) Messages() <-chan RawMessage { return m.messages }

// Dropped returns the number of messages discarded because the channel was
// full.
func (m *PortManager) Dropped() uint64 { return m.dropped.Load() }

// ListPorts returns the names of the input ports currently known by the
// driver. The list can change at any time, so it should not be cached.
func (m *PortManager) ListPorts() ([]string, error) {
	ins, err := m.driver.Ins()
	if err != nil {
		return nil, fmt.Errorf("listing MIDI inputs failed: %w", err)
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names, nil
}

// Ports is like ListPorts, but also tells which port is connected.
func (m *PortManager) Ports() ([]PortInfo, error) {
	names, err := m.ListPorts()
	if err != nil {
		return nil, err
	}
	state := m.State()
	ret := make([]PortInfo, len(names))
	for i, n := range names {
		ret[i] = PortInfo{Name: n, Connected: state.Connected && n == state.Port}
	}
	return ret, nil
}

func (m *PortManager) State() ConnectionState {
	c := m.conn.Load()
	if c == nil {
		return ConnectionState{}
	}
	return ConnectionState{Connected: true, Port: c.name, ID: c.id}
}

// Connect opens the input port with the given name, closing the currently
// connected port first. If the ports cannot be listed or no such port exists,
// an error (ErrPortNotFound for the latter) is returned and the current
// connection is kept. If the driver fails to open the port, a
// *ConnectionError is returned and the manager is disconnected.
func (m *PortManager) Connect(name string) error {
	ins, err := m.driver.Ins()
	if err != nil {
		return fmt.Errorf("listing MIDI inputs failed: %w", err)
	}
	for _, in := range ins {
		if in.String() == name {
			return m.open(in)
		}
	}
	return fmt.Errorf("%w: %q", ErrPortNotFound, name)
}

// ConnectByPrefix connects to the first port whose name starts with prefix.
func (m *PortManager) ConnectByPrefix(prefix string) error {
	ins, err := m.driver.Ins()
	if err != nil {
		return fmt.Errorf("listing MIDI inputs failed: %w", err)
	}
	for _, in := range ins {
		if strings.HasPrefix(in.String(), prefix) {
			return m.open(in)
		}
	}
	return fmt.Errorf("%w: no port starting with %q", ErrPortNotFound, prefix)
}

func (m *PortManager) open(port InPort) error {
	m.ops.Lock()
	defer m.ops.Unlock()
	m.closeCurrent()
	name := port.String()
	if err := port.Open(); err != nil {
		return &ConnectionError{Port: name, Err: err}
	}
	c := &connection{
		id:      uuid.NewString(),
		name:    name,
		port:    port,
		epochUs: uint64(m.now().Sub(m.base).Microseconds()),
	}
	stop, err := port.Listen(m.listener(c))
	if err != nil {
		port.Close()
		return &ConnectionError{Port: name, Err: err}
	}
	c.stop = stop
	m.conn.Store(c)
	m.logger.Info("opened MIDI input", "port", name, "id", c.id)
	return nil
}

// Disconnect closes the connected port, if any. Calling it when already
// disconnected does nothing.
func (m *PortManager) Disconnect() {
	m.ops.Lock()
	defer m.ops.Unlock()
	m.closeCurrent()
}

// Close disconnects and closes the driver.
func (m *PortManager) Close() error {
	m.Disconnect()
	return m.driver.Close()
}

func (m *PortManager) closeCurrent() {
	c := m.conn.Swap(nil)
	if c == nil {
		return
	}
	if c.stop != nil {
		c.stop()
	}
	if err := c.port.Close(); err != nil {
		m.logger.Warn("closing MIDI input failed", "port", c.name, "err", err)
		return
	}
	m.logger.Info("closed MIDI input", "port", c.name, "id", c.id)
}

// listener returns the callback run on the driver's thread. Only 3-byte
// messages are forwarded; longer ones (sysex) and shorter ones are dropped.
func (m *PortManager) listener(c *connection) func([]byte, uint64) {
	return func(data []byte, offsetUs uint64) {
		if len(data) != 3 {
			return
		}
		ts := c.epochUs + offsetUs
		if last := c.last.Load(); ts < last {
			ts = last
		}
		c.last.Store(ts)
		msg := RawMessage{TimestampUs: ts, Data: [3]byte{data[0], data[1], data[2]}}
		if !trySend(m.messages, msg) {
			m.dropped.Add(1)
		}
	}
}

// trySend sends v to c if c is not full. It never blocks.
func trySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// NullDriver is a Driver without any ports, used when no MIDI backend is
// compiled in.
type NullDriver struct{}

func (NullDriver) Ins() ([]InPort, error) { return nil, nil }
func (NullDriver) Close() error           { return nil }
