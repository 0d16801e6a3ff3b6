// Package tui is a terminal front end: pick an input device, see which notes
// are held and the most recent MIDI messages.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leandrodaf/learnpiano/sdk/contracts"
	"github.com/leandrodaf/learnpiano/sdk/music"
	"github.com/leandrodaf/learnpiano/sdk/session"
)

const (
	refreshInterval = time.Second / 30
	visibleMessages = 10
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noteStyle     = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Background(lipgloss.Color("57")).Foreground(lipgloss.Color("230"))
	boxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// FrameWriter persists a staff frame for the given notes.
type FrameWriter func(notes []uint8) error

// Model is the bubbletea model.
type Model struct {
	session  *session.Session
	devices  []contracts.DeviceInfo
	cursor   int
	err      error
	status   string
	frame    FrameWriter
	lastSeen string
	quitting bool
}

type tickMsg time.Time

type devicesMsg struct {
	devices []contracts.DeviceInfo
	err     error
}

// New returns a model over s. frame may be nil.
func New(s *session.Session, frame FrameWriter) Model {
	return Model{session: s, frame: frame}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) loadDevices() tea.Msg {
	devices, err := m.session.Devices()
	return devicesMsg{devices: devices, err: err}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadDevices, tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.devices)-1 {
				m.cursor++
			}
		case "enter", " ":
			if m.cursor < len(m.devices) {
				dev := m.devices[m.cursor]
				if err := m.session.Select(dev.ID); err != nil {
					m.err = err
				} else {
					m.err = nil
					m.status = "listening to " + dev.Name
				}
			}
		case "r":
			return m, m.loadDevices
		case "s":
			m.writeFrame(true)
		}

	case devicesMsg:
		m.devices, m.err = msg.devices, msg.err
		if m.cursor >= len(m.devices) {
			m.cursor = max(0, len(m.devices)-1)
		}

	case tickMsg:
		m.writeFrame(false)
		return m, tick()
	}
	return m, nil
}

// writeFrame saves a frame when the held notes changed, or always when forced.
func (m *Model) writeFrame(force bool) {
	if m.frame == nil {
		return
	}
	notes := m.session.ActiveNotes()
	key := fmt.Sprint(notes)
	if !force && key == m.lastSeen {
		return
	}
	m.lastSeen = key
	if err := m.frame(notes); err != nil {
		m.err = err
	} else if force {
		m.status = "frame saved"
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("learn piano"))
	b.WriteString("\n\n")

	bound, isBound := m.session.Bound()
	if len(m.devices) == 0 {
		b.WriteString(mutedStyle.Render("no MIDI inputs (r to rescan)"))
		b.WriteString("\n")
	}
	for i, dev := range m.devices {
		line := dev.String()
		switch {
		case isBound && dev.ID == bound:
			line = selectedStyle.Render("● " + line)
		default:
			line = "  " + line
		}
		if i == m.cursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(boxStyle.Render(heldNotes(m.session.ActiveNotes())))
	b.WriteString("\n")
	for _, line := range m.session.Messages(visibleMessages) {
		b.WriteString(mutedStyle.Render(line) + "\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(mutedStyle.Render("↑/↓ move • enter select • r rescan • s save frame • q quit"))
	return b.String()
}

func heldNotes(notes []uint8) string {
	if len(notes) == 0 {
		return mutedStyle.Render("no notes held")
	}
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = noteStyle.Render(music.Spelling(n))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, names...)
}
