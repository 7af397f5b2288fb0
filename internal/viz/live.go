// Package viz renders a live terminal view of one simulated module.
package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/mkrett/swervesim/internal/config"
	"github.com/mkrett/swervesim/internal/experiment"
	"github.com/mkrett/swervesim/internal/geom"
)

const (
	dialWidth       = 25
	dialHeight      = 13
	historyCapacity = 240
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	dialStyle   = lipgloss.NewStyle().Padding(0, 2)
)

type TickMsg time.Time

// Model drives one harness step per animation tick and renders the result.
type Model struct {
	harness *experiment.Harness
	cfg     *config.Config

	t      float64
	last   experiment.Record
	paused bool

	keys     []string
	selected int

	angleHist []float64
	voltHist  []float64
}

func NewModel(h *experiment.Harness, cfg *config.Config) Model {
	return Model{
		harness:   h,
		cfg:       cfg,
		keys:      h.Store().Keys(),
		angleHist: make([]float64, 0, historyCapacity),
		voltHist:  make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.cfg.Period*float64(time.Second)), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "tab":
			if len(m.keys) > 0 {
				m.selected = (m.selected + 1) % len(m.keys)
			}
		case "+", "=":
			m.adjustTunable(1.1)
		case "-", "_":
			m.adjustTunable(0.9)
		case "left":
			m.cfg.Schedule.AngleRad = geom.WrapPi(m.cfg.Schedule.AngleRad - 0.1)
		case "right":
			m.cfg.Schedule.AngleRad = geom.WrapPi(m.cfg.Schedule.AngleRad + 0.1)
		case "up":
			m.cfg.Schedule.Speed += 0.25
		case "down":
			m.cfg.Schedule.Speed -= 0.25
		}
		return m, nil

	case TickMsg:
		if !m.paused {
			m.last = m.harness.Step(m.t)
			m.t += m.cfg.Period

			m.angleHist = push(m.angleHist, geom.RadToDeg(m.last.AngleRad))
			m.voltHist = push(m.voltHist, m.last.TurnVolts)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) adjustTunable(factor float64) {
	if len(m.keys) == 0 {
		return
	}
	key := m.keys[m.selected]
	v, err := m.harness.Store().Get(key)
	if err != nil {
		return
	}
	if v == 0 {
		v = 0.01
	}
	_ = m.harness.Store().Set(key, v*factor)
}

func push(hist []float64, v float64) []float64 {
	hist = append(hist, v)
	if len(hist) > historyCapacity {
		hist = hist[1:]
	}
	return hist
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("swervesim live"))
	b.WriteString("\n")

	left := dialStyle.Render(m.renderDial())
	right := m.renderStats()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")

	if len(m.angleHist) > 2 {
		graph := asciigraph.Plot(m.angleHist,
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Caption("wheel angle (deg)"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")

		volts := asciigraph.Plot(m.voltHist,
			asciigraph.Height(5),
			asciigraph.Width(70),
			asciigraph.Caption("turn volts"),
		)
		b.WriteString(graphStyle.Render(volts))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(
		"space pause · ←/→ angle target · ↑/↓ speed target · tab/+/- tune · q quit"))
	b.WriteString("\n")

	return b.String()
}

// renderDial draws the wheel heading and its setpoint on a small rune canvas.
func (m Model) renderDial() string {
	canvas := make([][]rune, dialHeight)
	for i := range canvas {
		canvas[i] = make([]rune, dialWidth)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	cx, cy := dialWidth/2, dialHeight/2
	canvas[cy][cx] = '+'

	plotRay := func(angle float64, ch rune) {
		sin, cos := math.Sincos(angle)
		for r := 1.0; r <= 5.0; r += 0.5 {
			// Terminal cells are taller than wide.
			x := cx + int(math.Round(cos*r*2))
			y := cy - int(math.Round(sin*r))
			if x >= 0 && x < dialWidth && y >= 0 && y < dialHeight {
				canvas[y][x] = ch
			}
		}
	}

	plotRay(m.last.SetpointAngle, '·')
	plotRay(m.last.AngleRad, '●')

	rows := make([]string, dialHeight)
	for i := range canvas {
		rows[i] = string(canvas[i])
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderStats() string {
	var b strings.Builder

	line := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	status := "running"
	if m.paused {
		status = "paused"
	}

	line("t", fmt.Sprintf("%.2f s (%s)", m.t, status))
	line("angle", fmt.Sprintf("%7.2f°", geom.RadToDeg(m.last.AngleRad)))
	line("target", fmt.Sprintf("%7.2f°", geom.RadToDeg(m.last.SetpointAngle)))
	line("speed", fmt.Sprintf("%6.2f m/s", m.last.SpeedMPS))
	line("turn volts", fmt.Sprintf("%6.2f V", m.last.TurnVolts))
	line("drive volts", fmt.Sprintf("%6.2f V", m.last.DriveVolts))

	b.WriteString("\n")
	for i, key := range m.keys {
		v, _ := m.harness.Store().Get(key)
		text := fmt.Sprintf("%s = %.4f", key, v)
		if i == m.selected {
			b.WriteString(activeStyle.Render("> " + text))
		} else {
			b.WriteString(valueStyle.Render("  " + text))
		}
		b.WriteString("\n")
	}

	return b.String()
}
