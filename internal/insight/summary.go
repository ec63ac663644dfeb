package insight

import (
	"time"

	"github.com/pbaille/jobtrack/internal/domain"
)

// Summary is the dashboard overview of a document
type Summary struct {
	TotalApplications  int                  `json:"totalApplications"`
	ActiveInterviews   int                  `json:"activeInterviews"`
	PendingOffers      int                  `json:"pendingOffers"`
	OverdueTasks       int                  `json:"overdueTasks"`
	DueToday           []domain.Task        `json:"dueToday"`
	Stalled            []domain.Application `json:"stalledApplications"`
	UrgentOffers       []domain.Offer       `json:"urgentOffers"`
	UpcomingInterviews []domain.Interview   `json:"upcomingInterviews"`
	GeneratedAt        time.Time            `json:"generatedAt"`
}

// Summarize computes the dashboard for doc at now. A nil doc yields an
// empty summary.
func Summarize(doc *domain.Document, now time.Time) Summary {
	s := Summary{
		DueToday:    []domain.Task{},
		Stalled:     []domain.Application{},
		GeneratedAt: now,
	}
	if doc == nil {
		doc = domain.NewDocument()
	}

	s.TotalApplications = len(doc.Applications)
	for _, a := range doc.Applications {
		switch a.Status {
		case domain.StatusInterviewing:
			s.ActiveInterviews++
		case domain.StatusOffer:
			s.PendingOffers++
		}
		if IsStalled(a, now) {
			s.Stalled = append(s.Stalled, a)
		}
	}

	for _, t := range doc.Tasks {
		if IsOverdue(t, now) {
			s.OverdueTasks++
		}
		if IsDueToday(t, now) {
			s.DueToday = append(s.DueToday, t)
		}
	}

	s.UrgentOffers = UrgentOffers(doc.Offers, now)
	s.UpcomingInterviews = UpcomingInterviews(doc.Interviews, now)
	return s
}
