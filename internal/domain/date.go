package domain

import (
	"strings"
	"time"
)

// DateLayout is the layout of date-only values
const DateLayout = "2006-01-02"

// Date is an ISO-8601 date or date-time kept in its stored textual form.
// Date-only values name a calendar day and carry no zone; they are placed
// in whatever location they are evaluated in.
type Date string

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// DateOf formats t as a date-only value
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// IsZero reports whether no date is recorded
func (d Date) IsZero() bool {
	return strings.TrimSpace(string(d)) == ""
}

// DateOnly reports whether d has no time component
func (d Date) DateOnly() bool {
	return len(strings.TrimSpace(string(d))) == len(DateLayout)
}

// In parses d, resolving date-only and zoneless values in loc.
// The second result is false for empty or unparseable values.
func (d Date) In(loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(string(d))
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	if len(s) == len(DateLayout) {
		t, err := time.ParseInLocation(DateLayout, s, loc)
		return t, err == nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Valid reports whether d is empty or parseable
func (d Date) Valid() bool {
	if d.IsZero() {
		return true
	}
	_, ok := d.In(time.UTC)
	return ok
}
