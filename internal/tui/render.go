package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/endpoint/internal/database/repository"
	"github.com/jask/endpoint/internal/widgets"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(widgets.ColorText)
	mutedStyle   = lipgloss.NewStyle().Foreground(widgets.ColorMuted)
	warnStyle    = lipgloss.NewStyle().Foreground(widgets.ColorError)
	statusStyle  = lipgloss.NewStyle().Foreground(widgets.ColorAccent)
)

func (a *App) View() string {
	var body string
	switch a.state {
	case viewSource:
		body = a.renderSource()
	default:
		body = a.renderDashboard()
	}
	parts := []string{body}
	if a.status != "" {
		parts = append(parts, statusStyle.Render(a.status))
	}
	parts = append(parts, a.renderHelp(), a.renderFooter())
	return strings.Join(parts, "\n")
}

func (a *App) renderHeader() string {
	user := a.cfg.UI.User
	if user == "" {
		user = "there"
	}
	org := a.cfg.UI.Organization
	if org == "" {
		org = "Your organization"
	}
	left := headingStyle.Render("Hi "+user) + "\n" + mutedStyle.Render("Welcome to endpoint.")
	right := mutedStyle.Render(org)
	return widgets.HStack{Widgets: []widgets.Widget{widgets.Text(left), widgets.Text(right)}, Ratios: []float64{3, 1}, Gap: 1}.Render(a.width, 2)
}

func (a *App) renderFooter() string {
	return mutedStyle.Render("Privacy Policy · Terms of Use")
}

func (a *App) renderHelp() string {
	bindings := a.keys.HelpBindings(a.scope())
	if !a.showHelp {
		return a.help.ShortHelpView(bindings)
	}
	var groups [][]key.Binding
	for len(bindings) > 0 {
		n := min(6, len(bindings))
		groups = append(groups, bindings[:n])
		bindings = bindings[n:]
	}
	return a.help.FullHelpView(groups)
}

func (a *App) renderDashboard() string {
	parts := []string{a.renderHeader(), a.renderCards()}
	if w := a.renderDuplicates(); w != "" {
		parts = append(parts, w)
	}
	title := "Data requests"
	if a.view != nil {
		if n := a.view.ReadModel().SelectedCount; n > 0 {
			title += fmt.Sprintf(" (%d selected)", n)
		}
	}
	parts = append(parts, widgets.Box{Title: title, Content: a.table.View()}.Render(a.width, a.table.Height()+5))
	parts = append(parts, a.renderRegisters())
	return strings.Join(parts, "\n")
}

func (a *App) renderCards() string {
	counts := make(map[string]int)
	for _, r := range a.requests {
		counts[r.Status]++
	}
	teams := teamInitials(a.requests)
	teamDetail := strings.Join(teams, " ")
	if len(teams) > 5 {
		teamDetail = strings.Join(teams[:5], " ") + fmt.Sprintf(" +%d", len(teams)-5)
	}
	cards := []widgets.Widget{
		widgets.Card{Title: "Team", Value: fmt.Sprintf("%d", len(teams)), Detail: teamDetail, Action: "Manage team"},
		widgets.Card{Title: "Data requests", Value: fmt.Sprintf("%d", counts[repository.Stages[0]]), Detail: "pending", Action: "See requests"},
		widgets.Card{Title: "Documents", Action: "View documents"},
		widgets.Card{Title: "Studies", Value: fmt.Sprintf("%d", counts[repository.Stages[2]]+counts[repository.Stages[3]]), Detail: "approved or ready", Action: "Manage studies"},
	}
	return widgets.HStack{Widgets: cards, Gap: 1}.Render(a.width, 6)
}

func (a *App) renderDuplicates() string {
	if len(a.duplicates) == 0 {
		return ""
	}
	d := a.duplicates[0]
	line := fmt.Sprintf("⚠ %d possible duplicate request(s): %s / %s (%s)", len(a.duplicates), d.A.Name+" "+d.A.Request, d.B.Name+" "+d.B.Request, d.A.Team)
	return warnStyle.Render(line)
}

func (a *App) renderRegisters() string {
	if len(a.registers) == 0 {
		return widgets.Box{Title: "Register status", Content: mutedStyle.Render("No registers.")}.Render(a.width, 3)
	}
	lines := make([]string, 0, len(a.registers))
	for i, r := range a.registers {
		name := r.Name
		if i == a.registerCursor {
			name = "> " + name
		}
		lines = append(lines, widgets.Stages{Name: name, Labels: repository.Stages, Current: r.Stage}.Render(0, 0))
	}
	content := strings.Join(lines, "\n")
	return widgets.Box{Title: "Register status", Content: content}.Render(a.width, lipgloss.Height(content)+3)
}

func (a *App) renderSource() string {
	if a.source == nil {
		return a.renderHeader() + "\n" + mutedStyle.Render("No data source.")
	}
	s := a.source
	header := headingStyle.Render(s.Name) + "\n" + mutedStyle.Render("[View data sample]  [Request data access]")
	desc := widgets.Box{Title: "Description", Content: lipgloss.NewStyle().Width(max(20, a.width-6)).Render(s.Description)}
	descText := desc.Render(a.width, 1)

	series := map[string]*widgets.Series{}
	var order []string
	for _, p := range a.lines {
		if _, ok := series[p.Series]; !ok {
			series[p.Series] = &widgets.Series{Name: p.Series}
			order = append(order, p.Series)
		}
		series[p.Series].Points = append(series[p.Series].Points, widgets.XY{X: p.X, Y: p.Value})
	}
	colors := []lipgloss.Color{widgets.ColorBlue, widgets.ColorViolet}
	line := widgets.LineChart{Title: "Records over time"}
	for i, name := range order {
		sr := *series[name]
		sr.Color = colors[i%len(colors)]
		line.Series = append(line.Series, sr)
	}
	bars := widgets.BarChart{Title: "Age distribution", Suffix: "%"}
	for _, p := range a.bars {
		bars.Data = append(bars.Data, widgets.Bar{Label: p.Label, Value: p.Value})
	}
	score := widgets.Score{Value: s.UsabilityScore, MissingValues: s.MissingValues, PatientsMillions: s.PatientsMillions}
	charts := widgets.HStack{
		Widgets: []widgets.Widget{line, widgets.VStack{Widgets: []widgets.Widget{bars, score}, Spacing: 1}},
		Ratios:  []float64{2, 1},
		Gap:     2,
	}.Render(a.width, 16)
	return strings.Join([]string{header, descText, charts}, "\n")
}

// teamInitials returns one avatar per distinct team, in first-seen order.
func teamInitials(reqs []repository.DataRequest) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range reqs {
		team := strings.TrimSpace(r.Team)
		if team == "" || seen[strings.ToLower(team)] {
			continue
		}
		seen[strings.ToLower(team)] = true
		out = append(out, initials(team))
	}
	return out
}

func initials(s string) string {
	words := strings.Fields(s)
	if len(words) >= 2 {
		return strings.ToUpper(string([]rune(words[0])[:1]) + string([]rune(words[1])[:1]))
	}
	r := []rune(s)
	if len(r) > 2 {
		r = r[:2]
	}
	for i := range r {
		r[i] = unicode.ToUpper(r[i])
	}
	return string(r)
}
