package tui

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/table"

	"github.com/jask/endpoint/internal/database/repository"
	"github.com/jask/endpoint/internal/grid"
)

// requestColumns is the table layout for data requests.
var requestColumns = []grid.Column{
	{Name: "name", Kind: grid.KindText},
	{Name: "team", Kind: grid.KindText},
	{Name: "request", Kind: grid.KindText},
	{Name: "date", Kind: grid.KindDate},
	{Name: "status", Kind: grid.KindText},
}

var columnWidths = map[string]int{
	"name":    16,
	"team":    16,
	"request": 20,
	"date":    12,
	"status":  16,
}

func toRecords(reqs []repository.DataRequest) []grid.Record {
	out := make([]grid.Record, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, grid.Record{
			ID: grid.IntID(r.ID),
			Fields: map[string]grid.Value{
				"name":    grid.Text(r.Name),
				"team":    grid.Text(r.Team),
				"request": grid.Text(r.Request),
				"date":    grid.Date(r.Date),
				"status":  grid.Text(r.Status),
			},
		})
	}
	return out
}

func recordIDToInt(id grid.RecordID) (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

func columnTitle(name string) string {
	if name == "" {
		return ""
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// tableColumns renders headers with the sort indicator on the active column.
func tableColumns(rm grid.ReadModel) []table.Column {
	cols := make([]table.Column, 0, len(rm.Headers)+1)
	cols = append(cols, table.Column{Title: " ", Width: 3})
	for _, h := range rm.Headers {
		title := columnTitle(h.Column.Name)
		if ind := h.Indicator(); ind != "" {
			title += " " + ind
		}
		w := columnWidths[h.Column.Name]
		if w == 0 {
			w = 12
		}
		cols = append(cols, table.Column{Title: title, Width: w})
	}
	return cols
}

func tableRows(rm grid.ReadModel, dateFormat string) []table.Row {
	rows := make([]table.Row, 0, len(rm.Rows))
	for _, r := range rm.Rows {
		row := make(table.Row, 0, len(rm.Headers)+1)
		mark := "[ ]"
		if r.Selected {
			mark = "[x]"
		}
		row = append(row, mark)
		for _, h := range rm.Headers {
			v, _ := r.Record.Field(h.Column.Name)
			row = append(row, formatValue(v, dateFormat))
		}
		rows = append(rows, row)
	}
	return rows
}

func formatValue(v grid.Value, dateFormat string) string {
	if v.Kind() == grid.KindDate && strings.TrimSpace(dateFormat) != "" {
		return v.Time().Format(dateFormat)
	}
	return v.String()
}
