package services

import (
	"sort"
	"strings"
	"time"

	"github.com/coldtrackhq/coldtrack/internal/models"
)

type OutreachRepository interface {
	FindByIDAndUser(outreachID uint, userID uint) (models.Outreach, bool, error)
	ListByUser(userID uint) ([]models.Outreach, error)
	ListByUserAndCompany(userID uint, companyName string) ([]models.Outreach, error)
	CreateOrMerge(candidate *models.Outreach, fallbackStatus string) (models.Outreach, bool, error)
	Mutate(outreachID uint, userID uint, mutate func(record *models.Outreach) error) (models.Outreach, bool, error)
	DeleteByIDAndUser(outreachID uint, userID uint) (bool, error)
}

type OutreachService struct {
	records OutreachRepository
	clock   Clock
}

func NewOutreachService(records OutreachRepository, clock Clock) *OutreachService {
	if clock == nil {
		clock = SystemClock()
	}
	return &OutreachService{records: records, clock: clock}
}

type CreateOutreachInput struct {
	CompanyName  string         `json:"companyName"`
	CompanyLink  string         `json:"companyLink"`
	RoleTargeted string         `json:"roleTargeted"`
	Notes        string         `json:"notes"`
	Status       string         `json:"status"`
	Contacts     []ContactInput `json:"contacts"`
}

// ContactPatch updates one contact in place; nil fields are left untouched.
type ContactPatch struct {
	PersonName         *string    `json:"personName"`
	PersonRole         *string    `json:"personRole"`
	CustomRole         *string    `json:"customRole"`
	ContactMethod      *string    `json:"contactMethod"`
	EmailAddress       *string    `json:"emailAddress"`
	LinkedInProfileURL *string    `json:"linkedinProfileUrl"`
	MessageSentAt      *time.Time `json:"messageSentAt"`
	FollowUpDueAt      *time.Time `json:"followUpDueAt"`
}

// OutreachPatch updates top-level fields; nil fields are left untouched.
type OutreachPatch struct {
	CompanyLink  *string `json:"companyLink"`
	RoleTargeted *string `json:"roleTargeted"`
	Notes        *string `json:"notes"`
	Status       *string `json:"status"`
}

// CreateOrMerge records a new outreach thread, or appends its contacts to
// the user's existing record for the same company. On merge, top-level
// fields are patched only where the input carries non-empty values and the
// existing follow-up due date is preserved. fallbackStatus fills a missing
// status and differs by call site: the create endpoint passes SENT, lead
// promotion passes DRAFT.
func (service *OutreachService) CreateOrMerge(userID uint, input CreateOutreachInput, fallbackStatus string) (models.Outreach, error) {
	fields := make([]FieldError, 0)
	if strings.TrimSpace(input.CompanyName) == "" {
		fields = append(fields, FieldError{Field: "companyName", Message: "company name is required"})
	}
	if strings.TrimSpace(input.CompanyLink) != "" && !IsWebURL(input.CompanyLink) {
		fields = append(fields, FieldError{Field: "companyLink", Message: "invalid company link"})
	}
	if input.Status != "" && !models.IsValidStatus(input.Status) {
		fields = append(fields, FieldError{Field: "status", Message: "unknown status"})
	}
	if len(input.Contacts) == 0 {
		fields = append(fields, FieldError{Field: "contacts", Message: "at least one contact is required"})
	}
	for index, contact := range input.Contacts {
		fields = append(fields, ValidateContactInput(contact, contactFieldPrefix(index))...)
	}
	if len(fields) > 0 {
		return models.Outreach{}, NewValidation("invalid outreach input", fields...)
	}

	now := service.clock.Now()
	contacts := make([]models.Contact, 0, len(input.Contacts))
	for _, contact := range input.Contacts {
		contacts = append(contacts, BuildContact(contact, now))
	}

	candidate := &models.Outreach{
		UserID:        userID,
		CompanyName:   strings.TrimSpace(input.CompanyName),
		CompanyLink:   strings.TrimSpace(input.CompanyLink),
		RoleTargeted:  strings.TrimSpace(input.RoleTargeted),
		Notes:         input.Notes,
		Status:        input.Status,
		Contacts:      contacts,
		FollowUpDueAt: contacts[0].FollowUpDueAt,
	}

	record, _, err := service.records.CreateOrMerge(candidate, fallbackStatus)
	if err != nil {
		return models.Outreach{}, NewStorage("create or merge outreach", err)
	}
	return record, nil
}

func (service *OutreachService) GetByID(userID uint, outreachID uint) (models.Outreach, error) {
	record, found, err := service.records.FindByIDAndUser(outreachID, userID)
	if err != nil {
		return models.Outreach{}, NewStorage("load outreach", err)
	}
	if !found {
		return models.Outreach{}, NewNotFound("outreach not found")
	}
	return record, nil
}

// ListByUser returns all of the user's records ordered by the first
// contact's message date, newest first. The order is derived from the
// embedded contact list, not a stored column.
func (service *OutreachService) ListByUser(userID uint) ([]models.Outreach, error) {
	records, err := service.records.ListByUser(userID)
	if err != nil {
		return nil, NewStorage("list outreach", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].FirstContact().MessageSentAt.After(records[j].FirstContact().MessageSentAt)
	})
	return records, nil
}

// ListByCompany supports "other contacts at this company" views. Usually
// zero or one record, but historical duplicates are returned as-is.
func (service *OutreachService) ListByCompany(userID uint, companyName string) ([]models.Outreach, error) {
	records, err := service.records.ListByUserAndCompany(userID, companyName)
	if err != nil {
		return nil, NewStorage("list outreach by company", err)
	}
	return records, nil
}

// AppendContact adds one contact to the end of the list. The record-level
// follow-up due date is deliberately not recomputed.
func (service *OutreachService) AppendContact(userID uint, outreachID uint, input ContactInput) (models.Outreach, error) {
	if fields := ValidateContactInput(input, ""); len(fields) > 0 {
		return models.Outreach{}, NewValidation("invalid contact input", fields...)
	}
	contact := BuildContact(input, service.clock.Now())

	record, found, err := service.records.Mutate(outreachID, userID, func(record *models.Outreach) error {
		record.Contacts = append(record.Contacts, contact)
		return nil
	})
	return service.mutationResult(record, found, err, "append contact")
}

func (service *OutreachService) UpdateContactAt(userID uint, outreachID uint, index int, patch ContactPatch) (models.Outreach, error) {
	if fields := validateContactPatch(patch); len(fields) > 0 {
		return models.Outreach{}, NewValidation("invalid contact input", fields...)
	}

	record, found, err := service.records.Mutate(outreachID, userID, func(record *models.Outreach) error {
		if index < 0 || index >= len(record.Contacts) {
			return NewNotFound("contact index out of range")
		}
		applyContactPatch(&record.Contacts[index], patch)
		return nil
	})
	return service.mutationResult(record, found, err, "update contact")
}

func (service *OutreachService) DeleteContactAt(userID uint, outreachID uint, index int) (models.Outreach, error) {
	record, found, err := service.records.Mutate(outreachID, userID, func(record *models.Outreach) error {
		if index < 0 || index >= len(record.Contacts) {
			return NewInvalidOperation("contact index out of range")
		}
		if len(record.Contacts) == 1 {
			return NewInvalidOperation("an outreach record must keep at least one contact")
		}
		record.Contacts = append(record.Contacts[:index], record.Contacts[index+1:]...)
		return nil
	})
	return service.mutationResult(record, found, err, "delete contact")
}

func (service *OutreachService) UpdateFields(userID uint, outreachID uint, patch OutreachPatch) (models.Outreach, error) {
	fields := make([]FieldError, 0)
	if patch.Status != nil && !models.IsValidStatus(*patch.Status) {
		fields = append(fields, FieldError{Field: "status", Message: "unknown status"})
	}
	if patch.CompanyLink != nil && strings.TrimSpace(*patch.CompanyLink) != "" && !IsWebURL(*patch.CompanyLink) {
		fields = append(fields, FieldError{Field: "companyLink", Message: "invalid company link"})
	}
	if len(fields) > 0 {
		return models.Outreach{}, NewValidation("invalid outreach input", fields...)
	}

	record, found, err := service.records.Mutate(outreachID, userID, func(record *models.Outreach) error {
		if patch.CompanyLink != nil {
			record.CompanyLink = strings.TrimSpace(*patch.CompanyLink)
		}
		if patch.RoleTargeted != nil {
			record.RoleTargeted = strings.TrimSpace(*patch.RoleTargeted)
		}
		if patch.Notes != nil {
			record.Notes = *patch.Notes
		}
		if patch.Status != nil {
			record.Status = *patch.Status
		}
		return nil
	})
	return service.mutationResult(record, found, err, "update outreach")
}

// SetStatus applies a free-form status transition; any known status may
// follow any other. Follow-up fields are never touched here.
func (service *OutreachService) SetStatus(userID uint, outreachID uint, status string) (models.Outreach, error) {
	if !models.IsValidStatus(status) {
		return models.Outreach{}, NewValidation("invalid status",
			FieldError{Field: "status", Message: "unknown status"})
	}

	record, found, err := service.records.Mutate(outreachID, userID, func(record *models.Outreach) error {
		record.Status = status
		return nil
	})
	return service.mutationResult(record, found, err, "set status")
}

func (service *OutreachService) Delete(userID uint, outreachID uint) error {
	deleted, err := service.records.DeleteByIDAndUser(outreachID, userID)
	if err != nil {
		return NewStorage("delete outreach", err)
	}
	if !deleted {
		return NewNotFound("outreach not found")
	}
	return nil
}

// mutationResult maps the Mutate triple into the service error taxonomy:
// service errors from inside the mutation pass through, storage errors are
// wrapped, and a missing record (wrong id or wrong owner, indistinguishable
// on purpose) becomes NotFound.
func (service *OutreachService) mutationResult(record models.Outreach, found bool, err error, operation string) (models.Outreach, error) {
	if err != nil {
		if serviceError, ok := err.(*Error); ok {
			return models.Outreach{}, serviceError
		}
		return models.Outreach{}, NewStorage(operation, err)
	}
	if !found {
		return models.Outreach{}, NewNotFound("outreach not found")
	}
	return record, nil
}

func validateContactPatch(patch ContactPatch) []FieldError {
	fields := make([]FieldError, 0)
	if patch.PersonName != nil && strings.TrimSpace(*patch.PersonName) == "" {
		fields = append(fields, FieldError{Field: "personName", Message: "person name is required"})
	}
	if patch.PersonRole != nil && !models.IsValidPersonRole(*patch.PersonRole) {
		fields = append(fields, FieldError{Field: "personRole", Message: "unknown person role"})
	}
	if patch.ContactMethod != nil && !models.IsValidContactMethod(*patch.ContactMethod) {
		fields = append(fields, FieldError{Field: "contactMethod", Message: "unknown contact method"})
	}
	if patch.EmailAddress != nil && strings.TrimSpace(*patch.EmailAddress) != "" && !emailPattern.MatchString(strings.TrimSpace(*patch.EmailAddress)) {
		fields = append(fields, FieldError{Field: "emailAddress", Message: "invalid email address"})
	}
	if patch.LinkedInProfileURL != nil && strings.TrimSpace(*patch.LinkedInProfileURL) != "" && !IsWebURL(*patch.LinkedInProfileURL) {
		fields = append(fields, FieldError{Field: "linkedinProfileUrl", Message: "invalid profile URL"})
	}
	return fields
}

func applyContactPatch(contact *models.Contact, patch ContactPatch) {
	if patch.PersonName != nil {
		contact.PersonName = strings.TrimSpace(*patch.PersonName)
	}
	if patch.PersonRole != nil {
		contact.PersonRole = *patch.PersonRole
	}
	if patch.CustomRole != nil {
		contact.CustomRole = strings.TrimSpace(*patch.CustomRole)
	}
	if patch.ContactMethod != nil {
		contact.ContactMethod = *patch.ContactMethod
	}
	if patch.EmailAddress != nil {
		contact.EmailAddress = strings.TrimSpace(*patch.EmailAddress)
	}
	if patch.LinkedInProfileURL != nil {
		contact.LinkedInProfileURL = strings.TrimSpace(*patch.LinkedInProfileURL)
	}
	if patch.MessageSentAt != nil {
		contact.MessageSentAt = *patch.MessageSentAt
	}
	if patch.FollowUpDueAt != nil {
		contact.FollowUpDueAt = *patch.FollowUpDueAt
	}
}
