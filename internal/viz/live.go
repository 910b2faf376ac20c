// Package viz renders a running simulation in the terminal.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mechsim/internal/system"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type TickMsg time.Time

// Model steps the simulation on a timer and draws clock, energy history
// and body positions.
type Model struct {
	sys      *system.System
	dt       float64
	duration float64
	name     string

	running bool
	done    bool
	err     error

	energy []float64
	fps    int
}

func NewModel(sys *system.System, dt, duration float64, name string, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		sys:      sys,
		dt:       dt,
		duration: duration,
		name:     name,
		running:  true,
		energy:   make([]float64, 0, historyCapacity),
		fps:      fps,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}

	case TickMsg:
		if m.running && !m.done && m.err == nil {
			// several sim steps per frame keeps wall time near sim time
			perFrame := int(1 / (m.dt * float64(m.fps)))
			if perFrame < 1 {
				perFrame = 1
			}
			for i := 0; i < perFrame; i++ {
				if m.sys.Time() >= m.duration {
					m.done = true
					break
				}
				if err := m.sys.DoStep(m.dt); err != nil {
					m.err = err
					break
				}
			}

			m.energy = append(m.energy, m.sys.Energy())
			if len(m.energy) > historyCapacity {
				m.energy = m.energy[1:]
			}
		}
		return m, m.tick()
	}

	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render(fmt.Sprintf("mechsim live · %s", m.name)))
	sb.WriteString("\n")

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(valueStyle.Render(value))
		sb.WriteString("\n")
	}

	row("time", fmt.Sprintf("%.3f / %.3f s", m.sys.Time(), m.duration))
	row("steps", fmt.Sprintf("%d", m.sys.StepCount()))
	row("energy", fmt.Sprintf("%.6f", m.sys.Energy()))
	row("violation", fmt.Sprintf("%.2e", m.sys.MaxViolation()))
	row("contacts", fmt.Sprintf("%d", m.sys.ContactCount()))

	if len(m.energy) > 2 {
		graph := asciigraph.Plot(m.energy,
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Caption("total energy"),
		)
		sb.WriteString(graphStyle.Render(graph))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	for _, b := range m.sys.Bodies() {
		row(b.Name, fmt.Sprintf("(%7.4f, %7.4f, %7.4f)", b.Pos.X, b.Pos.Y, b.Pos.Z))
	}

	switch {
	case m.err != nil:
		sb.WriteString(errStyle.Render(fmt.Sprintf("\nsimulation failed: %v", m.err)))
	case m.done:
		sb.WriteString(helpStyle.Render("\nfinished · q to quit"))
	case m.running:
		sb.WriteString(helpStyle.Render("\nspace pause · q quit"))
	default:
		sb.WriteString(helpStyle.Render("\npaused · space resume · q quit"))
	}
	sb.WriteString("\n")

	return sb.String()
}
