package grid

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the textual form of Date values.
const DateLayout = "2006-01-02"

// Kind tags the type held by a Value.
type Kind int

const (
	KindText Kind = iota + 1
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	}
	return "unknown"
}

// Value is a tagged cell value. The zero Value has no kind and is never
// accepted by a View.
type Value struct {
	kind Kind
	text string
	num  float64
	at   time.Time
}

func Text(s string) Value       { return Value{kind: KindText, text: s} }
func Number(f float64) Value    { return Value{kind: KindNumber, num: f} }
func Date(t time.Time) Value    { return Value{kind: KindDate, at: t} }
func (v Value) Kind() Kind      { return v.kind }
func (v Value) Time() time.Time { return v.at }
func (v Value) Float() float64  { return v.num }

// ParseDate parses a DateLayout string into a Date value.
func ParseDate(s string) (Value, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Value{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date(t), nil
}

func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		return v.at.Format(DateLayout)
	}
	return ""
}

// Compare orders two values of the same kind: -1, 0 or +1.
// Values of different kinds are ordered by kind so the result stays total,
// but a View never compares across kinds because columns are validated.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case KindText:
		return strings.Compare(a.text, b.text)
	case KindNumber:
		return cmp.Compare(a.num, b.num)
	case KindDate:
		return a.at.Compare(b.at)
	}
	return 0
}
