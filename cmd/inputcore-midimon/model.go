package main

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vsariola/inputcore/midi"
	gomidi "gitlab.com/gomidi/midi/v2"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555"))
	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("#444"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5f5"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f55"))
)

const maxMessages = 20

type (
	model struct {
		ports    *midi.PortManager
		list     []midi.PortInfo
		cursor   int
		messages []midi.RawMessage
		err      error
	}

	messageMsg midi.RawMessage
	portsMsg   struct {
		list []midi.PortInfo
		err  error
	}
)

func newModel(ports *midi.PortManager) model {
	return model{ports: ports}
}

func listenForMessage(ports *midi.PortManager) tea.Cmd {
	return func() tea.Msg {
		return messageMsg(<-ports.Messages())
	}
}

func listPorts(ports *midi.PortManager) tea.Cmd {
	return func() tea.Msg {
		list, err := ports.Ports()
		return portsMsg{list: list, err: err}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(listenForMessage(m.ports), listPorts(m.ports))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "j", "down":
			if m.cursor < len(m.list)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(m.list) {
				m.err = m.ports.Connect(m.list[m.cursor].Name)
				m.messages = nil
			}
			return m, listPorts(m.ports)
		case "d":
			m.ports.Disconnect()
			return m, listPorts(m.ports)
		case "r":
			return m, listPorts(m.ports)
		}
	case portsMsg:
		m.list = msg.list
		if msg.err != nil {
			m.err = msg.err
		}
		m.cursor = min(m.cursor, max(len(m.list)-1, 0))
	case messageMsg:
		m.messages = append(m.messages, midi.RawMessage(msg))
		if len(m.messages) > maxMessages {
			m.messages = m.messages[len(m.messages)-maxMessages:]
		}
		return m, listenForMessage(m.ports)
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("MIDI inputs"))
	b.WriteString("\n")
	if len(m.list) == 0 {
		b.WriteString(dimStyle.Render("  no input ports"))
		b.WriteString("\n")
	}
	for i, p := range m.list {
		line := "  " + p.Name
		if p.Connected {
			line = activeStyle.Render("* " + p.Name)
		}
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	state := m.ports.State()
	if state.Connected {
		fmt.Fprintf(&b, "connected to %s (%s), dropped %d\n", state.Port, state.ID, m.ports.Dropped())
	} else {
		fmt.Fprintf(&b, "disconnected, dropped %d\n", m.ports.Dropped())
	}
	if m.err != nil {
		msg := m.err.Error()
		if errors.Is(m.err, midi.ErrPortNotFound) {
			msg += " (press r to refresh)"
		}
		b.WriteString(errStyle.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for _, msg := range m.messages {
		fmt.Fprintf(&b, "%12dus  % X  %v\n", msg.TimestampUs, msg.Data[:], gomidi.Message(msg.Data[:]))
	}
	b.WriteString(dimStyle.Render("\nup/down select, enter connect, d disconnect, r refresh, q quit"))
	return b.String()
}
