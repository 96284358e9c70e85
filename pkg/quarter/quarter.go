package quarter

import (
	"fmt"
	"time"
	_ "time/tzdata" // keep Europe/Madrid resolvable in scratch containers
)

// Spanish VAT settlements are filed per calendar quarter. Boundaries are
// expressed in UTC; which quarter an instant belongs to follows the
// Europe/Madrid calendar.
var madrid *time.Location

func init() {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		panic("quarter: cannot load Europe/Madrid: " + err.Error())
	}
	madrid = loc
}

// Location returns the reference calendar used for quarter attribution.
func Location() *time.Location {
	return madrid
}

// Range is an inclusive time window. Start is the first instant of the
// window and End the last represented millisecond.
type Range struct {
	Start time.Time
	End   time.Time
}

// StartMillis returns the start bound as Unix epoch milliseconds.
func (r Range) StartMillis() int64 {
	return r.Start.UnixMilli()
}

// EndMillis returns the end bound as Unix epoch milliseconds.
func (r Range) EndMillis() int64 {
	return r.End.UnixMilli()
}

// Contains reports whether t falls inside the window, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Of returns the quarter (1-4) the instant falls in, using the
// Europe/Madrid calendar month.
func Of(t time.Time) int {
	return (int(t.In(madrid).Month())-1)/3 + 1
}

// Bounds returns the inclusive UTC range of the given quarter. A year of
// zero (or below) means the current calendar year. Quarters outside 1-4
// are rejected rather than clamped.
func Bounds(year, q int) (Range, error) {
	if q < 1 || q > 4 {
		return Range{}, fmt.Errorf("quarter must be between 1 and 4, got %d", q)
	}
	if year <= 0 {
		year = time.Now().UTC().Year()
	}

	start := time.Date(year, time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0).Add(-time.Millisecond)

	return Range{Start: start, End: end}, nil
}
