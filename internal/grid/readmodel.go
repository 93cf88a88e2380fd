package grid

import "maps"

// Row is one rendered line of the table.
type Row struct {
	Record   Record
	Selected bool
}

// Header describes one column heading. Only the active column carries a
// direction.
type Header struct {
	Column    Column
	Active    bool
	Direction Direction
}

// Indicator is the glyph to draw next to the heading, empty when inactive.
func (h Header) Indicator() string {
	if !h.Active {
		return ""
	}
	return h.Direction.Indicator()
}

// ReadModel is everything a renderer needs for one paint.
type ReadModel struct {
	Headers       []Header
	Rows          []Row
	Active        SortSpec
	SelectedCount int
}

// ReadModel projects the current state. It has no side effects; two calls
// without a mutation in between return equal values. Rows carry copies of the
// field maps, so writes to them never reach the snapshot.
func (v *View) ReadModel() ReadModel {
	v.mu.Lock()
	defer v.mu.Unlock()
	headers := make([]Header, len(v.columns))
	for i, c := range v.columns {
		h := Header{Column: c}
		if c.Name == v.spec.Column {
			h.Active = true
			h.Direction = v.spec.Direction
		}
		headers[i] = h
	}
	rows := make([]Row, len(v.working))
	for i, r := range v.working {
		_, sel := v.selected[r.ID]
		rows[i] = Row{Record: Record{ID: r.ID, Fields: maps.Clone(r.Fields)}, Selected: sel}
	}
	return ReadModel{
		Headers:       headers,
		Rows:          rows,
		Active:        v.spec,
		SelectedCount: len(v.selected),
	}
}

// IDs returns the row ids in display order.
func (m ReadModel) IDs() []RecordID {
	out := make([]RecordID, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.Record.ID
	}
	return out
}
