package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/particlesim/internal/fluid"
)

const (
	frameRate       = 30
	historyCapacity = 300
	injectAmount    = 1.0
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// RenderDensity draws one glyph per cell. Density is clamped to [0, 1]
// and mapped onto ramp. A cursor row and column of -1 hides the cursor.
func RenderDensity(v fluid.View, ramp string, cy, cx int) string {
	glyphs := []rune(ramp)
	if len(glyphs) == 0 {
		glyphs = []rune(" #")
	}
	var b strings.Builder
	for y := 0; y < v.Rows(); y++ {
		for x := 0; x < v.Cols(); x++ {
			if y == cy && x == cx {
				b.WriteRune('+')
				continue
			}
			d := min(max(v.Density(y, x), 0), 1)
			b.WriteRune(glyphs[int(d*float64(len(glyphs)-1)+0.5)])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// FluidModel is an interactive view over a grid solver. The solver is
// stepped once per tick while running.
type FluidModel struct {
	f       *fluid.Fluid
	theme   Theme
	running bool
	cy, cx  int
	history []float64
	err     error
}

func NewFluidModel(f *fluid.Fluid, theme Theme) FluidModel {
	return FluidModel{
		f:       f,
		theme:   theme,
		running: true,
		cy:      f.Rows() / 2,
		cx:      f.Cols() / 2,
		history: make([]float64, 0, historyCapacity),
	}
}

func (m FluidModel) Init() tea.Cmd { return tick() }

func (m FluidModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.f.Reset()
			m.history = m.history[:0]
			m.err = nil
		case ".":
			m.step()
		case "t":
			m.theme = NextTheme(m.theme.Name)
		case "up", "k":
			m.cy = max(m.cy-1, 1)
		case "down", "j":
			m.cy = min(m.cy+1, m.f.Rows()-2)
		case "left", "h":
			m.cx = max(m.cx-1, 1)
		case "right", "l":
			m.cx = min(m.cx+1, m.f.Cols()-2)
		case "s":
			m.err = m.f.AddSource(m.cy, m.cx, injectAmount)
		case "f":
			m.err = m.f.AddForceY(m.cy, m.cx, injectAmount)
		case "g":
			m.err = m.f.AddForceX(m.cy, m.cx, injectAmount)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *FluidModel) step() {
	m.f.Step()
	m.history = append(m.history, m.f.TotalDensity())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m FluidModel) View() string {
	st := m.theme.styles()
	var b strings.Builder
	b.WriteString(st.header.Render(fmt.Sprintf("FLUID %dx%d", m.f.Rows(), m.f.Cols())) + "\n")
	if m.running {
		b.WriteString(st.status.Render("RUNNING") + "\n")
	} else {
		b.WriteString(st.status.Render("PAUSED") + "\n")
	}
	b.WriteString(st.panel.Render(strings.TrimRight(RenderDensity(m.f, m.theme.Ramp, m.cy, m.cx), "\n")) + "\n")
	b.WriteString(st.row("step", fmt.Sprintf("%d", m.f.Steps())))
	b.WriteString(st.row("density", fmt.Sprintf("%.4f", m.f.TotalDensity())))
	b.WriteString(st.row("divergence", fmt.Sprintf("%.2e", m.f.MaxDivergence())))
	b.WriteString(st.row("cursor", fmt.Sprintf("(%d, %d)", m.cy, m.cx)))
	b.WriteString(st.row("history", Sparkline(m.history, 40)))
	if m.err != nil {
		b.WriteString(st.warn.Render(m.err.Error()) + "\n")
	}
	b.WriteString(st.help.Render("space pause  . step  arrows move  s source  f/g force  r reset  t theme  q quit"))
	return b.String()
}
