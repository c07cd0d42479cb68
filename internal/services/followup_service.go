package services

import (
	"sort"
	"strings"
	"time"

	"github.com/coldtrackhq/coldtrack/internal/models"
)

type FollowUpBucket string

const (
	BucketOverdue  FollowUpBucket = "OVERDUE"
	BucketToday    FollowUpBucket = "TODAY"
	BucketUpcoming FollowUpBucket = "UPCOMING"
	BucketSent     FollowUpBucket = "SENT"
)

func ParseFollowUpBucket(raw string) (FollowUpBucket, bool) {
	switch FollowUpBucket(strings.ToUpper(strings.TrimSpace(raw))) {
	case BucketOverdue:
		return BucketOverdue, true
	case BucketToday:
		return BucketToday, true
	case BucketUpcoming:
		return BucketUpcoming, true
	case BucketSent:
		return BucketSent, true
	default:
		return "", false
	}
}

type FollowUpRepository interface {
	ListActiveByUser(userID uint) ([]models.Outreach, error)
	Mutate(outreachID uint, userID uint, mutate func(record *models.Outreach) error) (models.Outreach, bool, error)
}

// FollowUpService classifies outreach records into time-windowed buckets
// and serves them paginated. Day boundaries are computed in the service's
// location; the reminder batch deliberately uses its own fixed zone instead
// of this one.
type FollowUpService struct {
	records  FollowUpRepository
	clock    Clock
	location *time.Location
}

func NewFollowUpService(records FollowUpRepository, clock Clock, location *time.Location) *FollowUpService {
	if clock == nil {
		clock = SystemClock()
	}
	if location == nil {
		location = time.UTC
	}
	return &FollowUpService{records: records, clock: clock, location: location}
}

// ClassifyFollowUp places one record into its bucket, or reports false for
// closed-out records, which never bucket at all. Buckets are mutually
// exclusive: a completed follow-up is SENT regardless of its due date, an
// unsent one is OVERDUE before today's window, TODAY inside it and
// UPCOMING after it. Windows are half-open [midnight, next midnight).
func ClassifyFollowUp(record models.Outreach, now time.Time, location *time.Location) (FollowUpBucket, bool) {
	if models.IsClosedOut(record.Status) {
		return "", false
	}
	if record.FollowUpSentAt != nil {
		return BucketSent, true
	}

	dayStart, dayEnd := DayRange(now, location)
	switch {
	case record.FollowUpDueAt.Before(dayStart):
		return BucketOverdue, true
	case record.FollowUpDueAt.Before(dayEnd):
		return BucketToday, true
	default:
		return BucketUpcoming, true
	}
}

type FollowUpPage struct {
	Items    []models.Outreach `json:"items"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	HasMore  bool              `json:"hasMore"`
}

const defaultFollowUpPageSize = 20

// GetBucketPage returns one page of the bucket ordered by due date
// ascending. HasMore is approximate: bucket membership can shift between
// calls and no strict pagination consistency is promised.
func (service *FollowUpService) GetBucketPage(userID uint, bucket FollowUpBucket, page int, pageSize int) (FollowUpPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultFollowUpPageSize
	}

	records, err := service.records.ListActiveByUser(userID)
	if err != nil {
		return FollowUpPage{}, NewStorage("list follow-ups", err)
	}

	now := service.clock.Now()
	matched := make([]models.Outreach, 0, len(records))
	for _, record := range records {
		if classified, eligible := ClassifyFollowUp(record, now, service.location); eligible && classified == bucket {
			matched = append(matched, record)
		}
	}
	sortByDueDate(matched)

	offset := (page - 1) * pageSize
	if offset >= len(matched) {
		return FollowUpPage{Items: []models.Outreach{}, Page: page, PageSize: pageSize, HasMore: false}, nil
	}

	end := offset + pageSize
	hasMore := end < len(matched)
	if end > len(matched) {
		end = len(matched)
	}
	return FollowUpPage{Items: matched[offset:end], Page: page, PageSize: pageSize, HasMore: hasMore}, nil
}

// ListOverdueIncludingSent is the audit-style overdue view: every active
// record whose due date lies before today's window, whether or not the
// follow-up was already sent. The paginated OVERDUE bucket is stricter and
// excludes sent records.
func (service *FollowUpService) ListOverdueIncludingSent(userID uint) ([]models.Outreach, error) {
	records, err := service.records.ListActiveByUser(userID)
	if err != nil {
		return nil, NewStorage("list overdue follow-ups", err)
	}

	dayStart, _ := DayRange(service.clock.Now(), service.location)
	overdue := make([]models.Outreach, 0, len(records))
	for _, record := range records {
		if record.FollowUpDueAt.Before(dayStart) {
			overdue = append(overdue, record)
		}
	}
	sortByDueDate(overdue)
	return overdue, nil
}

// ToggleFollowUpSent marks the follow-up as completed (stamping now) or
// reopens it (clearing the stamp). The due date is never altered, so
// toggling on and back off restores the original bucketing inputs.
func (service *FollowUpService) ToggleFollowUpSent(userID uint, outreachID uint, sent bool) (models.Outreach, error) {
	now := service.clock.Now()
	record, found, err := service.records.Mutate(outreachID, userID, func(record *models.Outreach) error {
		if sent {
			record.FollowUpSentAt = &now
		} else {
			record.FollowUpSentAt = nil
		}
		return nil
	})
	if err != nil {
		return models.Outreach{}, NewStorage("toggle follow-up sent", err)
	}
	if !found {
		return models.Outreach{}, NewNotFound("outreach not found")
	}
	return record, nil
}

// UpdateFollowUpDueAt reschedules the record-level due date directly.
func (service *FollowUpService) UpdateFollowUpDueAt(userID uint, outreachID uint, dueAt time.Time) (models.Outreach, error) {
	if dueAt.IsZero() {
		return models.Outreach{}, NewValidation("invalid due date",
			FieldError{Field: "dueAt", Message: "due date is required"})
	}

	record, found, err := service.records.Mutate(outreachID, userID, func(record *models.Outreach) error {
		record.FollowUpDueAt = dueAt
		return nil
	})
	if err != nil {
		return models.Outreach{}, NewStorage("update follow-up due date", err)
	}
	if !found {
		return models.Outreach{}, NewNotFound("outreach not found")
	}
	return record, nil
}

func sortByDueDate(records []models.Outreach) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].FollowUpDueAt.Before(records[j].FollowUpDueAt)
	})
}
