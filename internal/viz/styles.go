package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	header, label, value, help, status, warn, panel lipgloss.Style
}

func (t Theme) styles() styles {
	panel := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Muted).Padding(0, 1)
	return styles{
		header: lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Secondary),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		status: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		warn:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		panel:  panel,
	}
}

func (s styles) row(label, value string) string {
	return s.label.Render(label) + s.value.Render(value) + "\n"
}

// Sparkline renders values as one line of block glyphs, sampled down to at
// most width glyphs.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	bars := []rune("▁▂▃▄▅▆▇█")

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := max(1, len(values)/width)
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / span * float64(len(bars)-1))
		b.WriteRune(bars[idx])
	}
	return b.String()
}
