package grid

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var requestColumns = []Column{
	{Name: "name", Kind: KindText},
	{Name: "team", Kind: KindText},
	{Name: "date", Kind: KindDate},
}

func rec(t *testing.T, id int64, name, team, date string) Record {
	t.Helper()
	d, err := ParseDate(date)
	require.NoError(t, err)
	return Record{ID: IntID(id), Fields: map[string]Value{
		"name": Text(name),
		"team": Text(team),
		"date": d,
	}}
}

func dateOnly(t *testing.T, id int64, date string) Record {
	t.Helper()
	d, err := ParseDate(date)
	require.NoError(t, err)
	return Record{ID: IntID(id), Fields: map[string]Value{"date": d}}
}

func ids(v *View) []RecordID { return v.ReadModel().IDs() }

func newDateView(t *testing.T) *View {
	t.Helper()
	records := []Record{
		dateOnly(t, 1, "2023-06-01"),
		dateOnly(t, 2, "2023-05-15"),
		dateOnly(t, 3, "2023-05-15"),
	}
	v, err := New([]Column{{Name: "date", Kind: KindDate}}, records, WithInitialSort("date", Descending))
	require.NoError(t, err)
	return v
}

func TestEndToEndDateScenario(t *testing.T) {
	v := newDateView(t)
	require.Equal(t, []RecordID{"1", "2", "3"}, ids(v))
	require.Equal(t, SortSpec{Column: "date", Direction: Descending}, v.SortSpec())

	require.NoError(t, v.Sort("date"))
	require.Equal(t, Ascending, v.SortSpec().Direction)
	require.Equal(t, []RecordID{"2", "3", "1"}, ids(v))
}

func TestSortIsStableForTies(t *testing.T) {
	records := []Record{
		rec(t, 1, "Ann", "IT", "2023-01-01"),
		rec(t, 2, "Bob", "Sales", "2023-01-02"),
		rec(t, 3, "Cat", "IT", "2023-01-03"),
		rec(t, 4, "Dan", "Sales", "2023-01-04"),
		rec(t, 5, "Eve", "IT", "2023-01-05"),
	}
	v, err := New(requestColumns, records)
	require.NoError(t, err)

	require.NoError(t, v.Sort("team"))
	require.Equal(t, []RecordID{"1", "3", "5", "2", "4"}, ids(v))

	// Descending inverts the comparator; ties still follow snapshot order.
	require.NoError(t, v.Sort("team"))
	require.Equal(t, []RecordID{"2", "4", "1", "3", "5"}, ids(v))
}

func TestSortAlwaysStartsFromSnapshot(t *testing.T) {
	records := []Record{
		rec(t, 1, "Same", "B", "2023-01-01"),
		rec(t, 2, "Same", "A", "2023-01-01"),
		rec(t, 3, "Same", "C", "2023-01-01"),
	}
	v, err := New(requestColumns, records)
	require.NoError(t, err)

	require.NoError(t, v.Sort("team"))
	require.Equal(t, []RecordID{"2", "1", "3"}, ids(v))

	// All names tie, so the order falls back to the snapshot, not to the
	// previous team ordering.
	require.NoError(t, v.Sort("name"))
	require.Equal(t, []RecordID{"1", "2", "3"}, ids(v))
}

func TestToggleLaw(t *testing.T) {
	records := []Record{rec(t, 1, "Ann", "IT", "2023-01-01"), rec(t, 2, "Bob", "HR", "2023-02-01")}
	v, err := New(requestColumns, records, WithInitialSort("date", Descending))
	require.NoError(t, err)

	before := v.SortSpec()
	require.NoError(t, v.Sort("date"))
	require.NoError(t, v.Sort("date"))
	require.Equal(t, before, v.SortSpec())

	for i := 0; i < 5; i++ {
		prev := v.SortSpec().Direction
		require.NoError(t, v.Sort("date"))
		require.Equal(t, prev.Flip(), v.SortSpec().Direction)
	}

	// X was descending before; X, Y, X still lands on ascending.
	if v.SortSpec().Direction != Descending {
		require.NoError(t, v.Sort("date"))
	}
	require.NoError(t, v.Sort("name"))
	require.Equal(t, SortSpec{Column: "name", Direction: Ascending}, v.SortSpec())
	require.NoError(t, v.Sort("date"))
	require.Equal(t, SortSpec{Column: "date", Direction: Ascending}, v.SortSpec())
}

func TestSortUnknownColumnLeavesStateUnchanged(t *testing.T) {
	v := newDateView(t)
	v.ToggleSelect("2")
	before := v.ReadModel()

	err := v.Sort("nonexistent_column")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnknownColumn)
	require.ErrorIs(t, err, ErrConfig)
	require.Equal(t, before, v.ReadModel())
}

func TestSelectionSurvivesSorting(t *testing.T) {
	records := []Record{
		rec(t, 1, "Ann", "IT", "2023-01-01"),
		rec(t, 2, "Bob", "HR", "2023-02-01"),
		rec(t, 3, "Cat", "Ops", "2023-03-01"),
	}
	v, err := New(requestColumns, records)
	require.NoError(t, err)
	v.ToggleSelect("1")
	v.ToggleSelect("3")

	for _, col := range []string{"name", "team", "date", "date", "team"} {
		require.NoError(t, v.Sort(col))
		require.ElementsMatch(t, []RecordID{"1", "3"}, v.SelectedIDs())
		require.True(t, v.IsSelected("1"))
		require.False(t, v.IsSelected("2"))
		require.True(t, v.IsSelected("3"))
	}
}

func TestDoubleToggleIsIdentity(t *testing.T) {
	v := newDateView(t)
	v.ToggleSelect("1")
	before := v.SelectedIDs()

	v.ToggleSelect("2")
	require.True(t, v.IsSelected("2"))
	v.ToggleSelect("2")
	require.False(t, v.IsSelected("2"))
	require.Equal(t, before, v.SelectedIDs())
}

func TestToggleUnknownIDIsNoop(t *testing.T) {
	v := newDateView(t)
	v.ToggleSelect("99")
	require.False(t, v.IsSelected("99"))
	require.Empty(t, v.SelectedIDs())
}

func TestRefreshPrunesSelection(t *testing.T) {
	records := []Record{
		rec(t, 5, "Ann", "IT", "2023-01-01"),
		rec(t, 7, "Bob", "HR", "2023-02-01"),
	}
	v, err := New(requestColumns, records)
	require.NoError(t, err)
	v.ToggleSelect("7")
	v.ToggleSelect("5")
	require.NoError(t, v.Sort("name"))
	spec := v.SortSpec()

	require.NoError(t, v.Refresh([]Record{rec(t, 5, "Ann", "IT", "2023-01-01"), rec(t, 8, "Al", "Ops", "2023-03-01")}))
	require.False(t, v.IsSelected(IntID(7)))
	require.True(t, v.IsSelected(IntID(5)))
	require.Equal(t, spec, v.SortSpec())
	require.Equal(t, []RecordID{"8", "5"}, ids(v))

	// A click queued before the refresh must not resurrect the pruned id.
	v.ToggleSelect(IntID(7))
	require.False(t, v.IsSelected(IntID(7)))
}

func TestRefreshRejectsInvalidSnapshot(t *testing.T) {
	v := newDateView(t)
	v.ToggleSelect("1")
	before := v.ReadModel()

	err := v.Refresh([]Record{{ID: "9", Fields: map[string]Value{}}})
	require.ErrorIs(t, err, ErrMissingField)
	require.Equal(t, before, v.ReadModel())
}

func TestNewRejectsBadConfiguration(t *testing.T) {
	good := rec(t, 1, "Ann", "IT", "2023-01-01")
	tests := []struct {
		name    string
		columns []Column
		records []Record
		opts    []Option
		want    error
	}{
		{name: "no columns", want: ErrNoColumns},
		{name: "unknown initial column", columns: requestColumns, records: []Record{good}, opts: []Option{WithInitialSort("status", Ascending)}, want: ErrUnknownColumn},
		{name: "missing field", columns: append(requestColumns, Column{Name: "status", Kind: KindText}), records: []Record{good}, want: ErrMissingField},
		{name: "kind mismatch", columns: []Column{{Name: "date", Kind: KindText}}, records: []Record{good}, want: ErrKindMismatch},
		{name: "duplicate id", columns: requestColumns, records: []Record{good, good}, want: ErrDuplicateID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := New(tc.columns, tc.records, tc.opts...)
			require.Nil(t, v)
			require.True(t, errors.Is(err, tc.want), "got %v", err)
			require.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestEmptyAndSingleCollectionsStillUpdateSpec(t *testing.T) {
	v, err := New(requestColumns, nil)
	require.NoError(t, err)
	require.NoError(t, v.Sort("team"))
	require.Equal(t, SortSpec{Column: "team", Direction: Ascending}, v.SortSpec())
	require.Equal(t, 0, v.Len())

	require.NoError(t, v.Refresh([]Record{rec(t, 1, "Ann", "IT", "2023-01-01")}))
	require.NoError(t, v.Sort("team"))
	require.Equal(t, Descending, v.SortSpec().Direction)
	require.Equal(t, []RecordID{"1"}, ids(v))
}

func TestReadModelIsIdempotent(t *testing.T) {
	v := newDateView(t)
	v.ToggleSelect("3")
	a := v.ReadModel()
	b := v.ReadModel()
	require.Equal(t, a, b)

	require.Len(t, a.Headers, 1)
	require.True(t, a.Headers[0].Active)
	require.Equal(t, "▼", a.Headers[0].Indicator())
	require.Equal(t, 1, a.SelectedCount)
	require.Equal(t, []bool{false, false, true}, []bool{a.Rows[0].Selected, a.Rows[1].Selected, a.Rows[2].Selected})
}

func TestReadModelMarksOnlyActiveHeader(t *testing.T) {
	v, err := New(requestColumns, nil, WithInitialSort("team", Ascending))
	require.NoError(t, err)
	m := v.ReadModel()
	var active []string
	for _, h := range m.Headers {
		if h.Active {
			active = append(active, h.Column.Name)
			require.Equal(t, "▲", h.Indicator())
		} else {
			require.Empty(t, h.Indicator())
		}
	}
	require.Equal(t, []string{"team"}, active)
}

func TestCallerMapsAreNotShared(t *testing.T) {
	r := rec(t, 1, "Ann", "IT", "2023-01-01")
	v, err := New(requestColumns, []Record{r})
	require.NoError(t, err)
	r.Fields["name"] = Text("Mutated")
	got := v.ReadModel().Rows[0].Record.Fields["name"]
	require.Equal(t, "Ann", got.String())
}

func TestReadModelRowsDoNotAliasSnapshot(t *testing.T) {
	v := newDateView(t)
	rm := v.ReadModel()
	old, err := ParseDate("1999-01-01")
	require.NoError(t, err)
	rm.Rows[0].Record.Fields["date"] = old

	got, ok := v.ReadModel().Rows[0].Record.Field("date")
	require.True(t, ok)
	require.Equal(t, "2023-06-01", got.String())

	require.NoError(t, v.Sort("date"))
	require.Equal(t, []RecordID{"2", "3", "1"}, ids(v))
}

func TestClearSelection(t *testing.T) {
	v := newDateView(t)
	v.ToggleSelect("1")
	v.ToggleSelect("2")
	v.ClearSelection()
	require.Empty(t, v.SelectedIDs())
	require.Equal(t, 0, v.ReadModel().SelectedCount)
}

func TestConcurrentOperationsStayConsistent(t *testing.T) {
	v := newDateView(t)
	next := []Record{dateOnly(t, 1, "2023-06-01"), dateOnly(t, 3, "2023-05-15")}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); v.ToggleSelect("2") }()
		go func() { defer wg.Done(); _ = v.Sort("date") }()
		go func() { defer wg.Done(); _ = v.Refresh(next) }()
	}
	wg.Wait()
	require.False(t, v.IsSelected("2"))
	require.Equal(t, 2, v.Len())
}
