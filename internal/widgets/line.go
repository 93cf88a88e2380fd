package widgets

import (
	"math"
	"strconv"
	"time"

	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
)

type XY struct {
	X, Y float64
}

type Series struct {
	Name   string
	Points []XY
	Color  lipgloss.Color
}

// LineChart plots series whose X values are fractional years.
type LineChart struct {
	Title  string
	Series []Series
}

// YearTime converts a fractional year such as 2022.5 to a UTC time.
func YearTime(year float64) time.Time {
	whole := math.Floor(year)
	start := time.Date(int(whole), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return start.Add(time.Duration((year - whole) * float64(end.Sub(start))))
}

func (c LineChart) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	header := ""
	if c.Title != "" {
		header = titleStyle.Render(c.Title) + "\n"
		height--
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	maxY := 0.0
	for _, s := range c.Series {
		for _, p := range s.Points {
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) || height < 3 {
		return header + mutedStyle.Render("(no data)")
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == 0 {
		maxY = 1
	}

	start, end := YearTime(minX), YearTime(maxX)
	chart := tslc.New(width, height)
	chart.AxisStyle = lipgloss.NewStyle().Foreground(ColorBorder)
	chart.LabelStyle = mutedStyle
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	chart.SetYRange(0, maxY)
	chart.SetViewYRange(0, maxY)
	chart.SetXStep(1)
	chart.SetYStep(2)
	chart.Model.XLabelFormatter = func(_ int, v float64) string {
		return strconv.Itoa(time.Unix(int64(v), 0).UTC().Year())
	}
	for _, s := range c.Series {
		color := s.Color
		if color == "" {
			color = ColorBlue
		}
		chart.SetDataSetStyle(s.Name, lipgloss.NewStyle().Foreground(color))
		for _, p := range s.Points {
			chart.PushDataSet(s.Name, tslc.TimePoint{Time: YearTime(p.X), Value: p.Y})
		}
	}
	chart.DrawBrailleAll()
	return header + chart.View()
}
