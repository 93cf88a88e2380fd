package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Card is a bordered summary tile: title, optional value, action caption.
type Card struct {
	Title  string
	Value  string
	Detail string
	Action string
}

func (c Card) Render(width, height int) string {
	lines := []string{titleStyle.Render(c.Title)}
	if c.Value != "" {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).Render(c.Value))
	}
	if c.Detail != "" {
		lines = append(lines, mutedStyle.Render(c.Detail))
	}
	if c.Action != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorViolet).Underline(true).Render(c.Action))
	}
	return Box{Content: strings.Join(lines, "\n")}.Render(width, max(height, len(lines)+2))
}
