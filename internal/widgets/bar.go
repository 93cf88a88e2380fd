package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Bar struct {
	Label string
	Value float64
}

// BarChart draws one horizontal bar per datum, scaled to the largest value.
type BarChart struct {
	Title  string
	Data   []Bar
	Suffix string
	Color  lipgloss.Color
}

func (c BarChart) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := []string{}
	if c.Title != "" {
		lines = append(lines, titleStyle.Render(c.Title))
	}
	if len(c.Data) == 0 {
		return strings.Join(append(lines, mutedStyle.Render("(no data)")), "\n")
	}
	maxV := 0.0
	labelW := 0
	for _, p := range c.Data {
		maxV = max(maxV, p.Value)
		labelW = max(labelW, lipgloss.Width(p.Label))
	}
	if maxV <= 0 {
		maxV = 1
	}
	color := c.Color
	if color == "" {
		color = ColorViolet
	}
	fill := lipgloss.NewStyle().Foreground(color)
	valueW := 6 + len(c.Suffix)
	barSpace := max(1, width-labelW-valueW-2)
	for _, p := range c.Data {
		if len(lines) >= height {
			break
		}
		w := max(1, int((p.Value/maxV)*float64(barSpace)))
		if p.Value <= 0 {
			w = 0
		}
		label := PadRight(p.Label, labelW)
		lines = append(lines, fmt.Sprintf("%s %s %s", label, fill.Render(strings.Repeat("█", w)), mutedStyle.Render(fmt.Sprintf("%g%s", p.Value, c.Suffix))))
	}
	return strings.Join(lines, "\n")
}
