package models

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is an optional, inclusive civil-date filter on event start times.
// A zero Start or End means that bound is open. Dates are interpreted as UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange builds a DateRange from YYYY-MM-DD strings. Either string
// may be empty, leaving that bound open. A date that does not parse yields
// ErrInvalidDate; a start after the end yields ErrInvalidRange.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	var err error

	if start != "" {
		r.Start, err = time.ParseInLocation(dateLayout, start, time.UTC)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: start date %q is not YYYY-MM-DD", ErrInvalidDate, start)
		}
	}
	if end != "" {
		r.End, err = time.ParseInLocation(dateLayout, end, time.UTC)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: end date %q is not YYYY-MM-DD", ErrInvalidDate, end)
		}
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
		return DateRange{}, fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidRange, start, end)
	}
	return r, nil
}

// IsZero reports whether no bound is set, i.e. the range filters nothing.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether t falls within the range. Both bounds are
// inclusive: any time on the start or end date counts as inside.
func (r DateRange) Contains(t time.Time) bool {
	t = t.UTC()
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && !t.Before(r.End.AddDate(0, 0, 1)) {
		return false
	}
	return true
}
