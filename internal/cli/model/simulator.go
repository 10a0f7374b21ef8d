// Package model holds the Bubble Tea models behind benchview's terminal
// interfaces.
package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/benchview/benchview/internal/bridge"
	"github.com/benchview/benchview/internal/domain/entity"
	"github.com/benchview/benchview/internal/domain/url"
)

// Publisher broadcasts a command to the simulator's stream subscribers.
// Satisfied by the simulator server.
type Publisher interface {
	Publish(cmd bridge.Command) (int, error)
	SubscriberCount() int
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// preset is one publishable console action. Presets with a prompt collect
// an argument through the text input before building their command.
type preset struct {
	label  string
	prompt string
	build  func(arg string) (bridge.Command, error)
}

func presets() []preset {
	return []preset{
		{
			label: "toggle panel",
			build: func(string) (bridge.Command, error) { return bridge.TogglePanel{}, nil },
		},
		{
			label:  "open url",
			prompt: "url",
			build: func(arg string) (bridge.Command, error) {
				if strings.TrimSpace(arg) == "" {
					return nil, fmt.Errorf("url required")
				}
				return bridge.SetURL{URL: url.ForPanel(arg)}, nil
			},
		},
		{
			label:  "set split",
			prompt: "camera split % (20-80)",
			build: func(arg string) (bridge.Command, error) {
				v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
				if err != nil {
					return nil, fmt.Errorf("not a number: %s", arg)
				}
				return bridge.SetLayout{WorkspaceSplit: &v}, nil
			},
		},
		{
			label: "dock left",
			build: func(string) (bridge.Command, error) {
				side := entity.DockLeft
				return bridge.SetLayout{DockSide: &side}, nil
			},
		},
		{
			label: "dock right",
			build: func(string) (bridge.Command, error) {
				side := entity.DockRight
				return bridge.SetLayout{DockSide: &side}, nil
			},
		},
		{
			label:  "trigger step",
			prompt: "step name",
			build: func(arg string) (bridge.Command, error) {
				if strings.TrimSpace(arg) == "" {
					return nil, fmt.Errorf("step required")
				}
				return bridge.TriggerStep{Step: strings.TrimSpace(arg)}, nil
			},
		},
		{
			label: "mock mode on",
			build: func(string) (bridge.Command, error) { return bridge.SetMockMode{Enabled: true}, nil },
		},
		{
			label: "mock mode off",
			build: func(string) (bridge.Command, error) { return bridge.SetMockMode{Enabled: false}, nil },
		},
		{
			label:  "set endpoint",
			prompt: "endpoint url",
			build: func(arg string) (bridge.Command, error) {
				if strings.TrimSpace(arg) == "" {
					return nil, fmt.Errorf("endpoint required")
				}
				return bridge.SetBridgeEndpoint{Endpoint: strings.TrimSpace(arg)}, nil
			},
		},
	}
}

// SimulatorModel is the interactive console for the mock bridge: a preset
// list publishing commands to every connected shell.
type SimulatorModel struct {
	publisher Publisher
	presets   []preset

	cursor   int
	input    textinput.Model
	entering bool

	published int
	reached   int
	lastCmd   string
	err       error
	quitting  bool
}

// NewSimulatorModel creates the console model publishing through p.
func NewSimulatorModel(p Publisher) SimulatorModel {
	input := textinput.New()
	input.CharLimit = 512
	input.Width = 48

	return SimulatorModel{
		publisher: p,
		presets:   presets(),
		input:     input,
	}
}

// Init implements tea.Model.
func (m SimulatorModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SimulatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.entering {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.entering {
		return m.updateEntering(keyMsg)
	}

	switch keyMsg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}

	case "enter":
		p := m.presets[m.cursor]
		if p.prompt != "" {
			m.entering = true
			m.input.Placeholder = p.prompt
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}
		m.publish(p, "")
	}

	return m, nil
}

func (m SimulatorModel) updateEntering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.entering = false
		m.input.Blur()
		return m, nil

	case "enter":
		m.publish(m.presets[m.cursor], m.input.Value())
		m.entering = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *SimulatorModel) publish(p preset, arg string) {
	cmd, err := p.build(arg)
	if err != nil {
		m.err = err
		return
	}

	reached, err := m.publisher.Publish(cmd)
	if err != nil {
		m.err = err
		return
	}

	m.err = nil
	m.published++
	m.reached = reached
	m.lastCmd = bridge.CommandName(cmd)
}

// View implements tea.Model.
func (m SimulatorModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("benchview mock bridge"))
	b.WriteString("\n\n")

	for i, p := range m.presets {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "))
			b.WriteString(selectedStyle.Render(p.label))
		} else {
			b.WriteString("  ")
			b.WriteString(p.label)
		}
		b.WriteString("\n")
	}

	if m.entering {
		b.WriteString("\n")
		b.WriteString(m.input.View())
	}

	b.WriteString("\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf("subscribers: %d", m.publisher.SubscriberCount())))
	if m.lastCmd != "" {
		b.WriteString("  ")
		b.WriteString(okStyle.Render(fmt.Sprintf("sent %s to %d", m.lastCmd, m.reached)))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}

	b.WriteString("\n")
	b.WriteString(faintStyle.Render("enter send · esc cancel · q quit"))
	b.WriteString("\n")

	return b.String()
}
