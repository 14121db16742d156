package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/physics"
	"github.com/san-kum/particlesim/internal/sim"
)

const (
	canvasCols = 60
	canvasRows = 20
)

// Controls are the scenario level inputs of the particle view.
type Controls interface {
	Reset() error
	ToggleWind() (bool, error)
	WindEnabled() bool
}

// ParticleModel is an interactive view over a particle simulator. Each tick
// advances the simulator by one frame while running.
type ParticleModel struct {
	name    string
	sim     *sim.Simulator
	ctl     Controls
	springs []physics.Spring
	frame   float64
	canvas  *Canvas
	cam     *Camera
	theme   Theme
	running bool
	energy  []float64
	err     error
}

func NewParticleModel(name string, s *sim.Simulator, springs []physics.Spring, ctl Controls, frame float64, theme Theme) ParticleModel {
	m := ParticleModel{
		name:    name,
		sim:     s,
		ctl:     ctl,
		springs: springs,
		frame:   frame,
		canvas:  NewCanvas(canvasCols, canvasRows),
		cam:     NewCamera(),
		theme:   theme,
		running: true,
		energy:  make([]float64, 0, historyCapacity),
	}
	m.cam.Fit(s.Positions(), m.canvas.DotWidth(), m.canvas.DotHeight())
	return m
}

func (m ParticleModel) Init() tea.Cmd { return tick() }

func (m ParticleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "w":
			_, m.err = m.ctl.ToggleWind()
		case "t":
			m.theme = NextTheme(m.theme.Name)
		case "left", "h":
			m.cam.Rotate(-0.1, 0)
		case "right", "l":
			m.cam.Rotate(0.1, 0)
		case "up", "k":
			m.cam.Rotate(0, -0.1)
		case "down", "j":
			m.cam.Rotate(0, 0.1)
		case "+", "=":
			m.cam.ZoomIn()
		case "-", "_":
			m.cam.ZoomOut()
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *ParticleModel) step() {
	if err := m.sim.Update(m.frame); err != nil {
		m.err = err
		m.running = false
		return
	}
	if h, ok := m.sim.System().(dynamo.Hamiltonian); ok {
		m.energy = append(m.energy, h.Energy(m.sim.State()))
		if len(m.energy) > historyCapacity {
			m.energy = m.energy[1:]
		}
	}
}

func (m *ParticleModel) reset() {
	if m.err = m.ctl.Reset(); m.err != nil {
		return
	}
	m.energy = m.energy[:0]
	m.cam.Fit(m.sim.Positions(), m.canvas.DotWidth(), m.canvas.DotHeight())
}

func (m ParticleModel) View() string {
	st := m.theme.styles()
	m.canvas.Clear()
	DrawParticles(m.canvas, m.cam, m.sim.Positions(), m.springs)

	var b strings.Builder
	b.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	b.WriteString(st.status.Render(status) + "\n")
	b.WriteString(st.panel.Render(strings.TrimRight(m.canvas.String(), "\n")) + "\n")
	b.WriteString(st.row("time", fmt.Sprintf("%.3f s", m.sim.Time())))
	b.WriteString(st.row("steps", fmt.Sprintf("%d", m.sim.Steps())))
	b.WriteString(st.row("particles", fmt.Sprintf("%d", m.sim.System().NumParticles())))
	b.WriteString(st.row("wind", onOff(m.ctl.WindEnabled())))
	if len(m.energy) > 1 {
		b.WriteString(asciigraph.Plot(m.energy, asciigraph.Height(6), asciigraph.Width(50), asciigraph.Caption("energy")) + "\n")
	}
	if m.err != nil {
		b.WriteString(st.warn.Render(m.err.Error()) + "\n")
	}
	b.WriteString(st.help.Render("space pause  arrows rotate  +/- zoom  w wind  r reset  t theme  q quit"))
	return b.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
