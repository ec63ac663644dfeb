package domain

import "time"

// Meta holds the identity shared by every record. Both fields are set
// once at creation and never change afterwards.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity exposes the embedded Meta for stamping
func (m *Meta) Identity() *Meta { return m }

// Touchable is implemented by records that track their last mutation
type Touchable interface {
	Touch(now time.Time)
}

// Lead is a prospective role tracked before an application is filed
type Lead struct {
	Meta
	Name        string     `json:"name" validate:"required"`
	RoleTitle   string     `json:"roleTitle" validate:"required"`
	CompanyName string     `json:"companyName" validate:"required"`
	Source      string     `json:"source"`
	ListingURL  string     `json:"listingUrl,omitempty" validate:"omitempty,url"`
	City        string     `json:"city,omitempty"`
	Status      LeadStatus `json:"status" validate:"required,oneof=new researching contacted applied interviewing offer closed-won closed-lost"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Lead) Kind() Kind { return KindLead }

func (l *Lead) Touch(now time.Time) { l.UpdatedAt = now }

// Application is a filed job application
type Application struct {
	Meta
	LeadID          string            `json:"leadId,omitempty"`
	CompanyName     string            `json:"companyName" validate:"required"`
	RoleTitle       string            `json:"roleTitle" validate:"required"`
	ApplicationLink string            `json:"applicationLink,omitempty" validate:"omitempty,url"`
	City            string            `json:"city,omitempty"`
	WorkType        WorkType          `json:"workType" validate:"required,oneof=remote hybrid onsite"`
	Priority        Priority          `json:"priority" validate:"required,oneof=low medium high"`
	Status          ApplicationStatus `json:"status" validate:"required,oneof=applied interviewing offer closed-won closed-lost"`
	LastFollowUp    Date              `json:"lastFollowUp,omitempty" validate:"date"`
	NextFollowUp    Date              `json:"nextFollowUp,omitempty" validate:"date"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func (Application) Kind() Kind { return KindApplication }

func (a *Application) Touch(now time.Time) { a.UpdatedAt = now }

// Lead returns the weak reference to the originating lead, if any
func (a Application) Lead() (Ref, bool) {
	if a.LeadID == "" {
		return Ref{}, false
	}
	return Ref{Kind: KindLead, ID: a.LeadID}, true
}

// Interview is one round of interviews for an application
type Interview struct {
	Meta
	ApplicationID string        `json:"applicationId" validate:"required"`
	Round         int           `json:"round" validate:"min=1"`
	Type          InterviewType `json:"type" validate:"required,oneof=screen technical hr onsite"`
	DateTime      Date          `json:"dateTime,omitempty" validate:"date"`
	Timezone      string        `json:"timezone,omitempty"`
	Interviewers  []string      `json:"interviewers,omitempty"`
	Location      string        `json:"location,omitempty"`
	MeetingLink   string        `json:"meetingLink,omitempty" validate:"omitempty,url"`
	Notes         string        `json:"notes,omitempty"`
	Outcome       string        `json:"outcome,omitempty"`
	NextStep      string        `json:"nextStep,omitempty"`
}

func (Interview) Kind() Kind { return KindInterview }

// Application returns the weak reference to the owning application
func (i Interview) Application() Ref {
	return Ref{Kind: KindApplication, ID: i.ApplicationID}
}

// Contact is a person met during the search
type Contact struct {
	Meta
	Name               string         `json:"name" validate:"required"`
	Role               string         `json:"role,omitempty"`
	Company            string         `json:"company,omitempty"`
	Email              string         `json:"email,omitempty" validate:"omitempty,email"`
	LinkedIn           string         `json:"linkedIn,omitempty"`
	Relationship       Relationship   `json:"relationship,omitempty"`
	Notes              string         `json:"notes,omitempty"`
	LinkedApplications []string       `json:"linkedApplications,omitempty"`
	ReferralStatus     ReferralStatus `json:"referralStatus,omitempty" validate:"omitempty,oneof=requested sent accepted declined completed"`
}

func (Contact) Kind() Kind { return KindContact }

// Applications returns weak references to the linked applications
func (c Contact) Applications() []Ref {
	refs := make([]Ref, 0, len(c.LinkedApplications))
	for _, id := range c.LinkedApplications {
		if id != "" {
			refs = append(refs, Ref{Kind: KindApplication, ID: id})
		}
	}
	return refs
}

// Task is a to-do item, optionally pointing at another record
type Task struct {
	Meta
	Title         string   `json:"title" validate:"required"`
	Type          TaskType `json:"type" validate:"required,oneof=follow-up send-materials thank-you prep other"`
	DueDate       Date     `json:"dueDate,omitempty" validate:"date"`
	Priority      Priority `json:"priority" validate:"required,oneof=low medium high"`
	RelatedEntity string   `json:"relatedEntity,omitempty"`
	Completed     bool     `json:"completed"`
}

func (Task) Kind() Kind { return KindTask }

// Related returns the weak reference held in RelatedEntity. The kind is
// inferred from the id prefix.
func (t Task) Related() (Ref, bool) {
	return ParseRef(t.RelatedEntity)
}

// Offer is a job offer attached to an application
type Offer struct {
	Meta
	ApplicationID string   `json:"applicationId" validate:"required"`
	CompanyName   string   `json:"companyName"`
	RoleTitle     string   `json:"roleTitle"`
	CTC           *float64 `json:"ctc,omitempty" validate:"omitempty,gte=0"`
	Base          *float64 `json:"base,omitempty" validate:"omitempty,gte=0"`
	Bonus         *float64 `json:"bonus,omitempty" validate:"omitempty,gte=0"`
	Equity        *float64 `json:"equity,omitempty" validate:"omitempty,gte=0"`
	Benefits      string   `json:"benefits,omitempty"`
	Deadline      Date     `json:"deadline,omitempty" validate:"date"`
	Decision      string   `json:"decision,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

func (Offer) Kind() Kind { return KindOffer }

// TotalCompensation is base plus bonus, absent amounts counting as zero
func (o Offer) TotalCompensation() float64 {
	var total float64
	if o.Base != nil {
		total += *o.Base
	}
	if o.Bonus != nil {
		total += *o.Bonus
	}
	return total
}
