// Package insight computes read-only classifications over tracker records
// relative to a given instant. Nothing here mutates its inputs or fails on
// missing optional fields.
package insight

import (
	"math"
	"time"

	"github.com/pbaille/jobtrack/internal/domain"
)

// StallThresholdDays is how many whole days may pass since the last
// follow-up before an open application counts as stalled.
const StallThresholdDays = 14

// UrgentWindowDays bounds the deadline window of an urgent offer
const UrgentWindowDays = 3

// DaysUntil returns the whole days from now until d, negative when d is in
// the past. Date-only values count calendar days in now's location;
// date-times use floor division of the elapsed time by 24h.
func DaysUntil(d domain.Date, now time.Time) (int, bool) {
	t, ok := d.In(now.Location())
	if !ok {
		return 0, false
	}
	if d.DateOnly() {
		return calendarDays(startOfDay(now), t), true
	}
	return int(math.Floor(t.Sub(now).Hours() / 24)), true
}

// IsOverdue reports whether an open task is past due. A date-only due
// date is past once its calendar day has ended, so a task due today is
// not overdue even though a plain dueDate < now comparison would say so;
// this keeps it in the due-today bucket only.
func IsOverdue(t domain.Task, now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.DueDate.In(now.Location())
	if !ok {
		return false
	}
	if t.DueDate.DateOnly() {
		return due.Before(startOfDay(now))
	}
	return due.Before(now)
}

// IsDueToday reports whether an open task falls on now's calendar day
func IsDueToday(t domain.Task, now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.DueDate.In(now.Location())
	if !ok {
		return false
	}
	return sameDay(due, now)
}

// IsUpcoming reports whether an open task is due after today
func IsUpcoming(t domain.Task, now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.DueDate.In(now.Location())
	if !ok {
		return false
	}
	return !due.Before(startOfDay(now).AddDate(0, 0, 1))
}

// DaysSinceFollowUp returns the whole days elapsed since the last
// follow-up, false when none is recorded.
func DaysSinceFollowUp(a domain.Application, now time.Time) (int, bool) {
	t, ok := a.LastFollowUp.In(now.Location())
	if !ok {
		return 0, false
	}
	if a.LastFollowUp.DateOnly() {
		return calendarDays(t, startOfDay(now)), true
	}
	return int(math.Floor(now.Sub(t).Hours() / 24)), true
}

// IsStalled reports whether an open application has gone without a
// follow-up for more than StallThresholdDays. An application that was
// never followed up is stalled.
func IsStalled(a domain.Application, now time.Time) bool {
	if a.Status.Terminal() {
		return false
	}
	days, ok := DaysSinceFollowUp(a, now)
	if !ok {
		return true
	}
	return days > StallThresholdDays
}

// IsUrgent reports whether an offer's deadline is between today and
// UrgentWindowDays from now, inclusive.
func IsUrgent(o domain.Offer, now time.Time) bool {
	days, ok := DaysUntil(o.Deadline, now)
	if !ok {
		return false
	}
	return days >= 0 && days <= UrgentWindowDays
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// sameDay compares calendar days in b's location
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// calendarDays counts midnights between two local midnights. Rounding
// absorbs 23h and 25h days around DST changes.
func calendarDays(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}
