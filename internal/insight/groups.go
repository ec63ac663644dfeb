package insight

import (
	"sort"
	"time"

	"github.com/pbaille/jobtrack/internal/domain"
)

// TaskFilter selects tasks by completion state
type TaskFilter string

const (
	TasksAll       TaskFilter = "all"
	TasksActive    TaskFilter = "active"
	TasksCompleted TaskFilter = "completed"
)

// ParseTaskFilter maps "" to TasksAll and rejects unknown values
func ParseTaskFilter(s string) (TaskFilter, bool) {
	switch TaskFilter(s) {
	case "", TasksAll:
		return TasksAll, true
	case TasksActive, TasksCompleted:
		return TaskFilter(s), true
	}
	return "", false
}

// FilterTasks keeps the tasks matching f, in order
func FilterTasks(tasks []domain.Task, f TaskFilter) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		switch {
		case f == TasksActive && t.Completed:
		case f == TasksCompleted && !t.Completed:
		default:
			out = append(out, t)
		}
	}
	return out
}

// TaskBuckets partitions tasks for the to-do view. Every task lands in
// exactly one bucket.
type TaskBuckets struct {
	Overdue   []domain.Task `json:"overdue"`
	DueToday  []domain.Task `json:"dueToday"`
	Upcoming  []domain.Task `json:"upcoming"`
	NoDueDate []domain.Task `json:"noDueDate"`
	Completed []domain.Task `json:"completed"`
}

// BucketTasks sorts tasks into buckets, keeping their relative order.
// A task whose due date cannot be parsed is treated as having none.
func BucketTasks(tasks []domain.Task, now time.Time) TaskBuckets {
	b := TaskBuckets{
		Overdue:   []domain.Task{},
		DueToday:  []domain.Task{},
		Upcoming:  []domain.Task{},
		NoDueDate: []domain.Task{},
		Completed: []domain.Task{},
	}
	for _, t := range tasks {
		switch {
		case t.Completed:
			b.Completed = append(b.Completed, t)
		case IsOverdue(t, now):
			b.Overdue = append(b.Overdue, t)
		case IsDueToday(t, now):
			b.DueToday = append(b.DueToday, t)
		case IsUpcoming(t, now):
			b.Upcoming = append(b.Upcoming, t)
		default:
			b.NoDueDate = append(b.NoDueDate, t)
		}
	}
	return b
}

// Column is one kanban lane
type Column struct {
	Status       domain.ApplicationStatus `json:"status"`
	Applications []domain.Application     `json:"applications"`
}

// Kanban groups applications into one column per status, in board order.
// Applications with an unrecognised status are left out.
func Kanban(apps []domain.Application) []Column {
	cols := make([]Column, len(domain.ApplicationStatuses))
	index := make(map[domain.ApplicationStatus]int, len(cols))
	for i, s := range domain.ApplicationStatuses {
		cols[i] = Column{Status: s, Applications: []domain.Application{}}
		index[s] = i
	}
	for _, a := range apps {
		if i, ok := index[a.Status]; ok {
			cols[i].Applications = append(cols[i].Applications, a)
		}
	}
	return cols
}

// LeadGroup holds the leads at one pipeline stage
type LeadGroup struct {
	Status domain.LeadStatus `json:"status"`
	Leads  []domain.Lead     `json:"leads"`
}

// LeadsByStatus groups leads per stage, in pipeline order, including
// empty stages.
func LeadsByStatus(leads []domain.Lead) []LeadGroup {
	groups := make([]LeadGroup, len(domain.LeadStatuses))
	index := make(map[domain.LeadStatus]int, len(groups))
	for i, s := range domain.LeadStatuses {
		groups[i] = LeadGroup{Status: s, Leads: []domain.Lead{}}
		index[s] = i
	}
	for _, l := range leads {
		if i, ok := index[l.Status]; ok {
			groups[i].Leads = append(groups[i].Leads, l)
		}
	}
	return groups
}

// ContactGroup holds the contacts sharing a relationship
type ContactGroup struct {
	Relationship domain.Relationship `json:"relationship"`
	Contacts     []domain.Contact    `json:"contacts"`
}

// ContactsByRelationship groups contacts by relationship. Predefined
// relationships come first in their usual order, then free-text values in
// first-seen order. Contacts without a relationship are grouped under "".
func ContactsByRelationship(contacts []domain.Contact) []ContactGroup {
	groups := make([]ContactGroup, 0, len(domain.Relationships))
	index := make(map[domain.Relationship]int)
	for _, r := range domain.Relationships {
		index[r] = len(groups)
		groups = append(groups, ContactGroup{Relationship: r, Contacts: []domain.Contact{}})
	}
	for _, c := range contacts {
		i, ok := index[c.Relationship]
		if !ok {
			i = len(groups)
			index[c.Relationship] = i
			groups = append(groups, ContactGroup{Relationship: c.Relationship, Contacts: []domain.Contact{}})
		}
		groups[i].Contacts = append(groups[i].Contacts, c)
	}
	return groups
}

// UrgentOffers keeps the offers whose deadline is imminent
func UrgentOffers(offers []domain.Offer, now time.Time) []domain.Offer {
	out := []domain.Offer{}
	for _, o := range offers {
		if IsUrgent(o, now) {
			out = append(out, o)
		}
	}
	return out
}

// UpcomingInterviews returns the interviews scheduled after now, soonest
// first.
func UpcomingInterviews(ivs []domain.Interview, now time.Time) []domain.Interview {
	type scheduled struct {
		iv domain.Interview
		at time.Time
	}
	var upcoming []scheduled
	for _, iv := range ivs {
		if at, ok := iv.DateTime.In(now.Location()); ok && at.After(now) {
			upcoming = append(upcoming, scheduled{iv, at})
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].at.Before(upcoming[j].at)
	})

	out := make([]domain.Interview, len(upcoming))
	for i, s := range upcoming {
		out[i] = s.iv
	}
	return out
}
