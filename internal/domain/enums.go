package domain

// LeadStatus is the pipeline stage of a lead
type LeadStatus string

const (
	LeadNew          LeadStatus = "new"
	LeadResearching  LeadStatus = "researching"
	LeadContacted    LeadStatus = "contacted"
	LeadApplied      LeadStatus = "applied"
	LeadInterviewing LeadStatus = "interviewing"
	LeadOffer        LeadStatus = "offer"
	LeadClosedWon    LeadStatus = "closed-won"
	LeadClosedLost   LeadStatus = "closed-lost"
)

// LeadStatuses lists every lead stage in pipeline order
var LeadStatuses = []LeadStatus{
	LeadNew, LeadResearching, LeadContacted, LeadApplied,
	LeadInterviewing, LeadOffer, LeadClosedWon, LeadClosedLost,
}

// ApplicationStatus is the stage of a filed application
type ApplicationStatus string

const (
	StatusApplied      ApplicationStatus = "applied"
	StatusInterviewing ApplicationStatus = "interviewing"
	StatusOffer        ApplicationStatus = "offer"
	StatusClosedWon    ApplicationStatus = "closed-won"
	StatusClosedLost   ApplicationStatus = "closed-lost"
)

// ApplicationStatuses lists every application stage in board order
var ApplicationStatuses = []ApplicationStatus{
	StatusApplied, StatusInterviewing, StatusOffer, StatusClosedWon, StatusClosedLost,
}

// Terminal reports whether follow-up tracking no longer applies
func (s ApplicationStatus) Terminal() bool {
	return s == StatusClosedWon || s == StatusClosedLost
}

type WorkType string

const (
	WorkRemote WorkType = "remote"
	WorkHybrid WorkType = "hybrid"
	WorkOnsite WorkType = "onsite"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type InterviewType string

const (
	InterviewScreen    InterviewType = "screen"
	InterviewTechnical InterviewType = "technical"
	InterviewHR        InterviewType = "hr"
	InterviewOnsite    InterviewType = "onsite"
)

// Relationship describes how a contact is known. Values outside the
// predefined set are kept as free text.
type Relationship string

const (
	RelRecruiter       Relationship = "recruiter"
	RelHiringManager   Relationship = "hiring-manager"
	RelCurrentEmployee Relationship = "current-employee"
	RelFriend          Relationship = "friend"
	RelMentor          Relationship = "mentor"
	RelOther           Relationship = "other"
)

// Relationships lists the predefined relationship values
var Relationships = []Relationship{
	RelRecruiter, RelHiringManager, RelCurrentEmployee, RelFriend, RelMentor, RelOther,
}

type ReferralStatus string

const (
	ReferralRequested ReferralStatus = "requested"
	ReferralSent      ReferralStatus = "sent"
	ReferralAccepted  ReferralStatus = "accepted"
	ReferralDeclined  ReferralStatus = "declined"
	ReferralCompleted ReferralStatus = "completed"
)

type TaskType string

const (
	TaskFollowUp      TaskType = "follow-up"
	TaskSendMaterials TaskType = "send-materials"
	TaskThankYou      TaskType = "thank-you"
	TaskPrep          TaskType = "prep"
	TaskOther         TaskType = "other"
)
