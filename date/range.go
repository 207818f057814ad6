package date

import (
	"fmt"
	"time"
)

// Range is a window of days, both ends included. The zero Range has no bounds.
type Range struct{ From, To Date }

// Month returns the window of a calendar month.
func Month(year int, month time.Month) Range {
	return Range{From: New(year, month, 1), To: New(year, month+1, 0)}
}

// Months returns the windows of the twelve months of year, January first.
func Months(year int) []Range {
	months := make([]Range, 12)
	for i := range months {
		months[i] = Month(year, time.January+time.Month(i))
	}
	return months
}

// ParseMonth reads a month as "2006-01" or "01/2006".
func ParseMonth(s string) (Range, error) {
	for _, layout := range []string{"2006-1", "1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Month(t.Year(), t.Month()), nil
		}
	}
	return Range{}, fmt.Errorf("invalid month %q want format %q", s, "2006-01")
}

func (r Range) IsZero() bool { return r == Range{} }

// Contains reports whether d falls in r. A zero Range contains every date.
func (r Range) Contains(d Date) bool {
	if r.IsZero() {
		return true
	}
	return !d.Before(r.From) && !d.After(r.To)
}

// IsMonth reports whether r covers exactly one calendar month.
func (r Range) IsMonth() bool {
	return !r.IsZero() && r == Month(r.From.Year(), r.From.Month())
}

// String returns "2006-01" for a calendar month and "from..to" otherwise.
func (r Range) String() string {
	if r.IsMonth() {
		return r.From.Format("2006-01")
	}
	return fmt.Sprintf("%s..%s", r.From, r.To)
}
