package widgets

import "github.com/charmbracelet/lipgloss"

type Box struct {
	Title   string
	Content string
}

func (b Box) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1).
		Width(max(1, width-2)).
		Height(max(1, height-2))
	body := b.Content
	if b.Title != "" {
		body = titleStyle.Render(b.Title) + "\n" + body
	}
	return style.Render(body)
}
