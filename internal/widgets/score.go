package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
)

// Score shows a 0-100 usability score as a gauge with supporting figures.
type Score struct {
	Value            float64
	MissingValues    float64
	PatientsMillions float64
}

func (s Score) Render(width, height int) string {
	bar := progress.New(
		progress.WithSolidFill(string(ColorViolet)),
		progress.WithWidth(max(10, width-6)),
	)
	pct := min(max(s.Value/100, 0), 1)
	lines := []string{
		titleStyle.Render("Usability score"),
		bar.ViewAs(pct),
		fmt.Sprintf("%s %g%%", mutedStyle.Render("Average missing values:"), s.MissingValues),
		fmt.Sprintf("%s %gM", mutedStyle.Render("Patients represented:"), s.PatientsMillions),
	}
	return Box{Content: strings.Join(lines, "\n")}.Render(width, max(height, len(lines)+2))
}
