package services

import (
	"errors"
	"strings"
	"time"

	"github.com/coldtrackhq/coldtrack/internal/models"
	"gorm.io/gorm"
)

type LeadRepository interface {
	FindByIDAndUser(leadID uint, userID uint) (models.ExtensionLead, bool, error)
	ListByUser(userID uint) ([]models.ExtensionLead, error)
	Create(lead *models.ExtensionLead) error
	Save(lead *models.ExtensionLead) error
	DeleteByIDAndUser(leadID uint, userID uint) (bool, error)
	PromoteInto(leadID uint, candidate *models.Outreach, fallbackStatus string) (models.Outreach, bool, error)
}

// LeadService manages extension leads: passively captured, pre-validation
// staging records that live until promoted into an outreach or deleted.
type LeadService struct {
	leads LeadRepository
	clock Clock
}

func NewLeadService(leads LeadRepository, clock Clock) *LeadService {
	if clock == nil {
		clock = SystemClock()
	}
	return &LeadService{leads: leads, clock: clock}
}

type LeadInput struct {
	ProfileURL   string     `json:"profileUrl"`
	PersonName   string     `json:"personName"`
	CompanyName  string     `json:"companyName"`
	CompanyURL   string     `json:"companyUrl"`
	Position     string     `json:"position"`
	PersonRole   string     `json:"personRole"`
	EmailAddress string     `json:"emailAddress"`
	OutreachDate *time.Time `json:"outreachDate"`
	FollowUpDate *time.Time `json:"followUpDate"`
	Notes        string     `json:"notes"`
}

type LeadPatch struct {
	ProfileURL   *string    `json:"profileUrl"`
	PersonName   *string    `json:"personName"`
	CompanyName  *string    `json:"companyName"`
	CompanyURL   *string    `json:"companyUrl"`
	Position     *string    `json:"position"`
	PersonRole   *string    `json:"personRole"`
	EmailAddress *string    `json:"emailAddress"`
	OutreachDate *time.Time `json:"outreachDate"`
	FollowUpDate *time.Time `json:"followUpDate"`
	Notes        *string    `json:"notes"`
}

func (service *LeadService) Create(userID uint, input LeadInput) (models.ExtensionLead, error) {
	fields := make([]FieldError, 0)
	if strings.TrimSpace(input.PersonName) == "" {
		fields = append(fields, FieldError{Field: "personName", Message: "person name is required"})
	}
	if strings.TrimSpace(input.ProfileURL) == "" {
		fields = append(fields, FieldError{Field: "profileUrl", Message: "profile URL is required"})
	} else if !IsWebURL(input.ProfileURL) {
		fields = append(fields, FieldError{Field: "profileUrl", Message: "invalid profile URL"})
	}
	if strings.TrimSpace(input.CompanyURL) != "" && !IsWebURL(input.CompanyURL) {
		fields = append(fields, FieldError{Field: "companyUrl", Message: "invalid company URL"})
	}
	if strings.TrimSpace(input.EmailAddress) != "" && !emailPattern.MatchString(strings.TrimSpace(input.EmailAddress)) {
		fields = append(fields, FieldError{Field: "emailAddress", Message: "invalid email address"})
	}
	if len(fields) > 0 {
		return models.ExtensionLead{}, NewValidation("invalid lead input", fields...)
	}

	lead := models.ExtensionLead{
		UserID:       userID,
		ProfileURL:   strings.TrimSpace(input.ProfileURL),
		PersonName:   strings.TrimSpace(input.PersonName),
		CompanyName:  strings.TrimSpace(input.CompanyName),
		CompanyURL:   strings.TrimSpace(input.CompanyURL),
		Position:     strings.TrimSpace(input.Position),
		PersonRole:   strings.TrimSpace(input.PersonRole),
		EmailAddress: strings.TrimSpace(input.EmailAddress),
		OutreachDate: input.OutreachDate,
		FollowUpDate: input.FollowUpDate,
		Notes:        input.Notes,
	}
	if err := service.leads.Create(&lead); err != nil {
		return models.ExtensionLead{}, NewStorage("create lead", err)
	}
	return lead, nil
}

func (service *LeadService) ListByUser(userID uint) ([]models.ExtensionLead, error) {
	leads, err := service.leads.ListByUser(userID)
	if err != nil {
		return nil, NewStorage("list leads", err)
	}
	return leads, nil
}

// Update applies an inline edit to a staged lead.
func (service *LeadService) Update(userID uint, leadID uint, patch LeadPatch) (models.ExtensionLead, error) {
	fields := make([]FieldError, 0)
	if patch.ProfileURL != nil && !IsWebURL(*patch.ProfileURL) {
		fields = append(fields, FieldError{Field: "profileUrl", Message: "invalid profile URL"})
	}
	if patch.CompanyURL != nil && strings.TrimSpace(*patch.CompanyURL) != "" && !IsWebURL(*patch.CompanyURL) {
		fields = append(fields, FieldError{Field: "companyUrl", Message: "invalid company URL"})
	}
	if patch.EmailAddress != nil && strings.TrimSpace(*patch.EmailAddress) != "" && !emailPattern.MatchString(strings.TrimSpace(*patch.EmailAddress)) {
		fields = append(fields, FieldError{Field: "emailAddress", Message: "invalid email address"})
	}
	if len(fields) > 0 {
		return models.ExtensionLead{}, NewValidation("invalid lead input", fields...)
	}

	lead, found, err := service.leads.FindByIDAndUser(leadID, userID)
	if err != nil {
		return models.ExtensionLead{}, NewStorage("load lead", err)
	}
	if !found {
		return models.ExtensionLead{}, NewNotFound("lead not found")
	}

	applyLeadPatch(&lead, patch)
	if err := service.leads.Save(&lead); err != nil {
		return models.ExtensionLead{}, NewStorage("save lead", err)
	}
	return lead, nil
}

func (service *LeadService) Delete(userID uint, leadID uint) error {
	deleted, err := service.leads.DeleteByIDAndUser(leadID, userID)
	if err != nil {
		return NewStorage("delete lead", err)
	}
	if !deleted {
		return NewNotFound("lead not found")
	}
	return nil
}

// Promote converts a lead into an outreach record (creating one or merging
// into the user's existing record for the company) and deletes the lead,
// atomically. The promoted record defaults to DRAFT when no status exists
// yet; the regular create endpoint defaults to SENT instead.
func (service *LeadService) Promote(userID uint, leadID uint) (models.Outreach, error) {
	lead, found, err := service.leads.FindByIDAndUser(leadID, userID)
	if err != nil {
		return models.Outreach{}, NewStorage("load lead", err)
	}
	if !found {
		return models.Outreach{}, NewNotFound("lead not found")
	}
	if strings.TrimSpace(lead.CompanyName) == "" {
		return models.Outreach{}, NewInvalidOperation("lead needs a company name before promotion")
	}

	candidate := service.buildCandidate(lead)
	record, _, err := service.leads.PromoteInto(lead.ID, candidate, models.StatusDraft)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Outreach{}, NewNotFound("lead not found")
		}
		return models.Outreach{}, NewStorage("promote lead", err)
	}
	return record, nil
}

func (service *LeadService) buildCandidate(lead models.ExtensionLead) *models.Outreach {
	now := service.clock.Now()

	messageSentAt := now
	if lead.OutreachDate != nil {
		messageSentAt = *lead.OutreachDate
	}
	followUpDueAt := messageSentAt.AddDate(0, 0, models.DefaultFollowUpDays)
	if lead.FollowUpDate != nil {
		followUpDueAt = *lead.FollowUpDate
	}

	method := models.MethodLinkedIn
	if strings.TrimSpace(lead.EmailAddress) != "" {
		method = models.MethodEmail
	}

	personRole := lead.PersonRole
	customRole := ""
	if !models.IsValidPersonRole(personRole) {
		customRole = personRole
		personRole = models.RoleOther
	}

	contact := models.Contact{
		PersonName:         lead.PersonName,
		PersonRole:         personRole,
		CustomRole:         customRole,
		ContactMethod:      method,
		EmailAddress:       lead.EmailAddress,
		LinkedInProfileURL: lead.ProfileURL,
		MessageSentAt:      messageSentAt,
		FollowUpDueAt:      followUpDueAt,
	}

	return &models.Outreach{
		UserID:        lead.UserID,
		CompanyName:   strings.TrimSpace(lead.CompanyName),
		CompanyLink:   lead.CompanyURL,
		RoleTargeted:  lead.Position,
		Notes:         lead.Notes,
		Contacts:      []models.Contact{contact},
		FollowUpDueAt: followUpDueAt,
	}
}

func applyLeadPatch(lead *models.ExtensionLead, patch LeadPatch) {
	if patch.ProfileURL != nil {
		lead.ProfileURL = strings.TrimSpace(*patch.ProfileURL)
	}
	if patch.PersonName != nil {
		lead.PersonName = strings.TrimSpace(*patch.PersonName)
	}
	if patch.CompanyName != nil {
		lead.CompanyName = strings.TrimSpace(*patch.CompanyName)
	}
	if patch.CompanyURL != nil {
		lead.CompanyURL = strings.TrimSpace(*patch.CompanyURL)
	}
	if patch.Position != nil {
		lead.Position = strings.TrimSpace(*patch.Position)
	}
	if patch.PersonRole != nil {
		lead.PersonRole = strings.TrimSpace(*patch.PersonRole)
	}
	if patch.EmailAddress != nil {
		lead.EmailAddress = strings.TrimSpace(*patch.EmailAddress)
	}
	if patch.OutreachDate != nil {
		lead.OutreachDate = patch.OutreachDate
	}
	if patch.FollowUpDate != nil {
		lead.FollowUpDate = patch.FollowUpDate
	}
	if patch.Notes != nil {
		lead.Notes = *patch.Notes
	}
}
