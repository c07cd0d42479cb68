package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/coldtrackhq/coldtrack/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ContactInput is the wire shape for a new contact. Omitted timestamps get
// defaults: messageSentAt falls back to now, followUpDueAt to messageSentAt
// plus DefaultFollowUpDays.
type ContactInput struct {
	PersonName         string     `json:"personName"`
	PersonRole         string     `json:"personRole"`
	CustomRole         string     `json:"customRole"`
	ContactMethod      string     `json:"contactMethod"`
	EmailAddress       string     `json:"emailAddress"`
	LinkedInProfileURL string     `json:"linkedinProfileUrl"`
	MessageSentAt      *time.Time `json:"messageSentAt"`
	FollowUpDueAt      *time.Time `json:"followUpDueAt"`
}

// ValidateContactInput returns field-level errors for one contact. The
// fieldPrefix lets callers report positions inside a contacts array, e.g.
// "contacts[2].emailAddress".
func ValidateContactInput(input ContactInput, fieldPrefix string) []FieldError {
	fields := make([]FieldError, 0)
	add := func(field string, message string) {
		fields = append(fields, FieldError{Field: fieldPrefix + field, Message: message})
	}

	if strings.TrimSpace(input.PersonName) == "" {
		add("personName", "person name is required")
	}
	if !models.IsValidPersonRole(input.PersonRole) {
		add("personRole", "unknown person role")
	}
	if !models.IsValidContactMethod(input.ContactMethod) {
		add("contactMethod", "unknown contact method")
	}

	email := strings.TrimSpace(input.EmailAddress)
	if email != "" && !emailPattern.MatchString(email) {
		add("emailAddress", "invalid email address")
	}
	linkedin := strings.TrimSpace(input.LinkedInProfileURL)
	if linkedin != "" && !IsWebURL(linkedin) {
		add("linkedinProfileUrl", "invalid profile URL")
	}

	switch input.ContactMethod {
	case models.MethodEmail:
		if email == "" {
			add("emailAddress", "email address is required for the EMAIL method")
		}
	case models.MethodLinkedIn:
		if linkedin == "" {
			add("linkedinProfileUrl", "profile URL is required for the LINKEDIN method")
		}
	}

	return fields
}

// BuildContact converts validated input into a Contact value object,
// applying the timestamp defaults.
func BuildContact(input ContactInput, now time.Time) models.Contact {
	messageSentAt := now
	if input.MessageSentAt != nil {
		messageSentAt = *input.MessageSentAt
	}
	followUpDueAt := messageSentAt.AddDate(0, 0, models.DefaultFollowUpDays)
	if input.FollowUpDueAt != nil {
		followUpDueAt = *input.FollowUpDueAt
	}

	return models.Contact{
		PersonName:         strings.TrimSpace(input.PersonName),
		PersonRole:         input.PersonRole,
		CustomRole:         strings.TrimSpace(input.CustomRole),
		ContactMethod:      input.ContactMethod,
		EmailAddress:       strings.TrimSpace(input.EmailAddress),
		LinkedInProfileURL: strings.TrimSpace(input.LinkedInProfileURL),
		MessageSentAt:      messageSentAt,
		FollowUpDueAt:      followUpDueAt,
	}
}

// IsWebURL accepts absolute http/https URLs with a host.
func IsWebURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

func contactFieldPrefix(index int) string {
	return fmt.Sprintf("contacts[%d].", index)
}
