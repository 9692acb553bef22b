package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for a fraction in 0..1.
type ProgressBar struct {
	Label   string
	Percent float64
	Suffix  string
	Width   int
	Fill    color.Color
}

// NewProgressBar creates a bar labelled label.
func NewProgressBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: percent,
		Suffix:  fmt.Sprintf("%3d%%", int(percent*100+0.5)),
		Width:   width,
		Fill:    theme.Secondary,
	}
}

// CountdownBar shows the time left on a question. It turns amber in the
// last third and red in the last fifth.
func CountdownBar(remaining, limit float64, width int) ProgressBar {
	frac := 0.0
	if limit > 0 {
		frac = remaining / limit
	}
	fill := theme.Secondary
	switch {
	case frac <= 0.2:
		fill = theme.Error
	case frac <= 1.0/3:
		fill = theme.Accent
	}
	return ProgressBar{
		Percent: frac,
		Suffix:  fmt.Sprintf("%2.0fs", remaining),
		Width:   width,
		Fill:    fill,
	}
}

// View renders the bar.
func (p ProgressBar) View() string {
	var out string
	if p.Label != "" {
		out = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	suffix := ""
	if p.Suffix != "" {
		suffix = "  " + p.Suffix
	}
	barWidth := max(p.Width-lipgloss.Width(out)-lipgloss.Width(suffix), 4)
	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)

	out += lipgloss.NewStyle().Background(p.Fill).Render(strings.Repeat(" ", filled))
	out += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))
	return out + lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
}
