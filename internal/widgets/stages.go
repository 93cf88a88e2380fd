package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type StageState int

const (
	StageTodo StageState = iota
	StageActive
	StageDone
)

// StageStateAt classifies stage i against the current stage index.
func StageStateAt(i, current int) StageState {
	switch {
	case i < current:
		return StageDone
	case i == current:
		return StageActive
	default:
		return StageTodo
	}
}

// Stages renders a named progress track over ordered labels.
type Stages struct {
	Name    string
	Labels  []string
	Current int
}

func (s Stages) Render(width, height int) string {
	done := lipgloss.NewStyle().Foreground(ColorSuccess)
	active := lipgloss.NewStyle().Bold(true).Foreground(ColorViolet)
	todo := mutedStyle
	parts := make([]string, 0, len(s.Labels))
	for i, label := range s.Labels {
		switch StageStateAt(i, s.Current) {
		case StageDone:
			parts = append(parts, done.Render("✓ "+label))
		case StageActive:
			parts = append(parts, active.Render("● "+label))
		default:
			parts = append(parts, todo.Render("○ "+label))
		}
	}
	track := strings.Join(parts, mutedStyle.Render(" ─ "))
	if width > 0 {
		track = PadRight(track, width)
	}
	if s.Name == "" {
		return track
	}
	return titleStyle.Render(s.Name) + "\n" + track
}
