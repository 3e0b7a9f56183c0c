package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	haltedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const frameInterval = time.Second / 30

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// model is a bubbletea.Model wrapping one core; Update advances
// run(cyclesPerFrame) on each tick and View renders a lipgloss-styled
// register table. It mutates no core internals directly, only reading
// through the public Step/Run/Halted/Cycles/Registers surface.
type model struct {
	snap    snapshotter
	cycles  uint32
	format  string
	running bool
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
			return m, nil
		case "s":
			if !m.snap.Halted() {
				m.snap.Step()
			}
			return m, nil
		}
	case tickMsg:
		if m.running && !m.snap.Halted() {
			m.snap.Run(m.cycles)
		}
		return m, tick()
	}
	return m, nil
}

func (m model) View() string {
	status := "paused"
	if m.running {
		status = "running"
	}
	if m.snap.Halted() {
		status = haltedStyle.Render("halted")
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(fmt.Sprintf("retrocore stepper — format=%s", m.format)),
		m.snap.Registers(),
		fmt.Sprintf("cycles=%d status=%s", m.snap.Cycles(), status),
		"",
		dimStyle.Render("space: run/pause   s: single step   q: quit"),
	)
}
