// Package grid holds the state of a sortable, multi-selectable table.
//
// A View owns the caller's record snapshot, the active sort and the set of
// selected ids. Rendering code pulls a ReadModel on demand; the View itself
// never draws anything.
package grid

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// View is the table state machine. Its methods are safe for concurrent use;
// each call is applied completely before the next one starts.
type View struct {
	mu       sync.Mutex
	columns  []Column
	kinds    map[string]Kind
	snapshot []Record
	working  []Record
	present  map[RecordID]struct{}
	spec     SortSpec
	selected map[RecordID]struct{}
}

type options struct {
	spec    SortSpec
	hasSpec bool
}

// Option configures New.
type Option func(*options)

// WithInitialSort overrides the starting column and direction.
func WithInitialSort(column string, dir Direction) Option {
	return func(o *options) {
		o.spec = SortSpec{Column: column, Direction: dir}
		o.hasSpec = true
	}
}

// New validates columns and records and sorts the records by the initial
// spec. Without WithInitialSort the first column is used, descending.
func New(columns []Column, records []Record, opts ...Option) (*View, error) {
	kinds, err := validateColumns(columns)
	if err != nil {
		return nil, err
	}
	o := options{spec: SortSpec{Column: columns[0].Name, Direction: Descending}}
	for _, opt := range opts {
		opt(&o)
	}
	if _, ok := kinds[o.spec.Column]; !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownColumn, o.spec.Column)
	}
	if err := validateRecords(columns, records); err != nil {
		return nil, err
	}
	v := &View{
		columns:  slices.Clone(columns),
		kinds:    kinds,
		spec:     o.spec,
		selected: make(map[RecordID]struct{}),
	}
	v.load(records)
	return v, nil
}

// Sort activates column. The active column flips direction; any other
// column becomes active ascending. An undeclared column is rejected and
// leaves the view unchanged.
func (v *View) Sort(column string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.kinds[column]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownColumn, column)
	}
	if column == v.spec.Column {
		v.spec.Direction = v.spec.Direction.Flip()
	} else {
		v.spec = SortSpec{Column: column, Direction: Ascending}
	}
	v.working = sortRecords(v.snapshot, v.spec)
	return nil
}

// ToggleSelect flips the selection of id. Ids not in the current
// collection are ignored.
func (v *View) ToggleSelect(id RecordID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.present[id]; !ok {
		return
	}
	if _, ok := v.selected[id]; ok {
		delete(v.selected, id)
		return
	}
	v.selected[id] = struct{}{}
}

func (v *View) IsSelected(id RecordID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.selected[id]
	return ok
}

// Refresh replaces the snapshot. The sort spec is kept and selected ids
// missing from records are dropped. An invalid snapshot is rejected and
// leaves the view unchanged.
func (v *View) Refresh(records []Record) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := validateRecords(v.columns, records); err != nil {
		return err
	}
	v.load(records)
	for id := range v.selected {
		if _, ok := v.present[id]; !ok {
			delete(v.selected, id)
		}
	}
	return nil
}

// ClearSelection drops every selected id.
func (v *View) ClearSelection() {
	v.mu.Lock()
	defer v.mu.Unlock()
	clear(v.selected)
}

// SelectedIDs returns the selected ids in display order.
func (v *View) SelectedIDs() []RecordID {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]RecordID, 0, len(v.selected))
	for _, r := range v.working {
		if _, ok := v.selected[r.ID]; ok {
			out = append(out, r.ID)
		}
	}
	return out
}

func (v *View) SortSpec() SortSpec {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.spec
}

func (v *View) Columns() []Column {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.columns)
}

func (v *View) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.working)
}

// load must be called with mu held (or before the view is shared).
func (v *View) load(records []Record) {
	snap := make([]Record, len(records))
	present := make(map[RecordID]struct{}, len(records))
	for i, r := range records {
		snap[i] = Record{ID: r.ID, Fields: maps.Clone(r.Fields)}
		present[r.ID] = struct{}{}
	}
	v.snapshot = snap
	v.present = present
	v.working = sortRecords(snap, v.spec)
}

// sortRecords stably sorts a copy of snapshot. Descending negates the
// comparator, so equal keys keep snapshot order in both directions.
func sortRecords(snapshot []Record, spec SortSpec) []Record {
	out := slices.Clone(snapshot)
	col := spec.Column
	slices.SortStableFunc(out, func(a, b Record) int {
		c := Compare(a.Fields[col], b.Fields[col])
		if spec.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}
