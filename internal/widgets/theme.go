package widgets

import "github.com/charmbracelet/lipgloss"

var (
	ColorText    lipgloss.Color = "#cdd6f4"
	ColorMuted   lipgloss.Color = "#a6adc8"
	ColorBorder  lipgloss.Color = "#585b70"
	ColorAccent  lipgloss.Color = "#89b4fa"
	ColorViolet  lipgloss.Color = "#5228cb"
	ColorBlue    lipgloss.Color = "#577fed"
	ColorSuccess lipgloss.Color = "#a6e3a1"
	ColorError   lipgloss.Color = "#f38ba8"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	mutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
)
