package models

import "time"

const (
	StatusDraft     = "DRAFT"
	StatusSent      = "SENT"
	StatusReplied   = "REPLIED"
	StatusGhosted   = "GHOSTED"
	StatusInterview = "INTERVIEW"
	StatusRejected  = "REJECTED"
	StatusOffer     = "OFFER"
	StatusClosed    = "CLOSED"
)

const (
	RoleHR        = "HR"
	RoleCEO       = "CEO"
	RoleCTO       = "CTO"
	RoleRecruiter = "RECRUITER"
	RoleOther     = "OTHER"
)

const (
	MethodEmail    = "EMAIL"
	MethodLinkedIn = "LINKEDIN"
)

// DefaultFollowUpDays is how long after the first message a follow-up
// is due when no explicit date is given.
const DefaultFollowUpDays = 5

func AllStatuses() []string {
	return []string{
		StatusDraft,
		StatusSent,
		StatusReplied,
		StatusGhosted,
		StatusInterview,
		StatusRejected,
		StatusOffer,
		StatusClosed,
	}
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusSent, StatusReplied, StatusGhosted,
		StatusInterview, StatusRejected, StatusOffer, StatusClosed:
		return true
	default:
		return false
	}
}

// ClosedOutStatuses lists the statuses excluded from follow-up tracking,
// in a form usable in NOT IN queries.
func ClosedOutStatuses() []string {
	return []string{StatusReplied, StatusRejected, StatusOffer, StatusClosed}
}

// IsClosedOut reports whether a status removes the record from follow-up
// tracking entirely. Closed-out records never appear in any follow-up
// bucket and never count toward pending-reminder totals.
func IsClosedOut(status string) bool {
	switch status {
	case StatusReplied, StatusRejected, StatusOffer, StatusClosed:
		return true
	default:
		return false
	}
}

func IsValidPersonRole(role string) bool {
	switch role {
	case RoleHR, RoleCEO, RoleCTO, RoleRecruiter, RoleOther:
		return true
	default:
		return false
	}
}

func IsValidContactMethod(method string) bool {
	return method == MethodEmail || method == MethodLinkedIn
}

// Contact is a person at the target company. Contacts are value objects
// embedded in the outreach row in insertion order; they carry no row id of
// their own and are addressed by position.
type Contact struct {
	PersonName         string    `json:"personName"`
	PersonRole         string    `json:"personRole"`
	CustomRole         string    `json:"customRole,omitempty"`
	ContactMethod      string    `json:"contactMethod"`
	EmailAddress       string    `json:"emailAddress,omitempty"`
	LinkedInProfileURL string    `json:"linkedinProfileUrl,omitempty"`
	MessageSentAt      time.Time `json:"messageSentAt"`
	FollowUpDueAt      time.Time `json:"followUpDueAt"`
}

// Outreach is one company-application thread for one user. The contacts
// list is never empty and is never re-sorted on read; the first element
// defines "first contact" semantics for list ordering and reminders.
type Outreach struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"userId"`
	CompanyName    string     `gorm:"not null" json:"companyName"`
	CompanyLink    string     `json:"companyLink"`
	RoleTargeted   string     `json:"roleTargeted"`
	Contacts       []Contact  `gorm:"serializer:json" json:"contacts"`
	Status         string     `gorm:"not null;default:SENT" json:"status"`
	Notes          string     `json:"notes"`
	FollowUpDueAt  time.Time  `json:"followUpDueAt"`
	FollowUpSentAt *time.Time `json:"followUpSentAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// FirstContact returns the chronologically first contact. The zero Contact
// is returned for a malformed record with no contacts so callers can sort
// without guarding.
func (outreach Outreach) FirstContact() Contact {
	if len(outreach.Contacts) == 0 {
		return Contact{}
	}
	return outreach.Contacts[0]
}
