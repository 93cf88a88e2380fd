package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrConfig is matched by every configuration error a View reports.
var ErrConfig = errors.New("grid: configuration error")

var (
	ErrNoColumns     = fmt.Errorf("%w: no columns declared", ErrConfig)
	ErrUnknownColumn = fmt.Errorf("%w: unknown column", ErrConfig)
	ErrMissingField  = fmt.Errorf("%w: record missing field", ErrConfig)
	ErrKindMismatch  = fmt.Errorf("%w: field kind mismatch", ErrConfig)
	ErrDuplicateID   = fmt.Errorf("%w: duplicate record id", ErrConfig)
)

// RecordID identifies a record for its whole lifetime.
type RecordID string

// IntID returns the id for an integer key.
func IntID(n int64) RecordID { return RecordID(strconv.FormatInt(n, 10)) }

// Record is a flat row of named fields.
type Record struct {
	ID     RecordID
	Fields map[string]Value
}

func (r Record) Field(name string) (Value, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// Column declares a sortable field and the kind its values must have.
type Column struct {
	Name string
	Kind Kind
}

// Direction is the sort order of the active column.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

func (d Direction) Flip() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// Indicator is the header glyph for the direction.
func (d Direction) Indicator() string {
	if d == Ascending {
		return "▲"
	}
	return "▼"
}

// ParseDirection accepts "asc"/"ascending" and "desc"/"descending" in any
// case, ignoring surrounding space.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Descending, fmt.Errorf("%w: sort direction %q", ErrConfig, s)
}

// SortSpec is the single active sort.
type SortSpec struct {
	Column    string
	Direction Direction
}

func validateColumns(columns []Column) (map[string]Kind, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	kinds := make(map[string]Kind, len(columns))
	for _, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: empty column name", ErrConfig)
		}
		if c.Kind < KindText || c.Kind > KindDate {
			return nil, fmt.Errorf("%w: column %q has no kind", ErrConfig, c.Name)
		}
		if _, dup := kinds[c.Name]; dup {
			return nil, fmt.Errorf("%w: column %q declared twice", ErrConfig, c.Name)
		}
		kinds[c.Name] = c.Kind
	}
	return kinds, nil
}

func validateRecords(columns []Column, records []Record) error {
	seen := make(map[RecordID]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w %q", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = struct{}{}
		for _, c := range columns {
			v, ok := r.Fields[c.Name]
			if !ok {
				return fmt.Errorf("%w: record %q has no %q", ErrMissingField, r.ID, c.Name)
			}
			if v.Kind() != c.Kind {
				return fmt.Errorf("%w: record %q field %q is %s, want %s", ErrKindMismatch, r.ID, c.Name, v.Kind(), c.Kind)
			}
		}
	}
	return nil
}
