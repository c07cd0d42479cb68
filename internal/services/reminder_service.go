package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/coldtrackhq/coldtrack/internal/models"
	"github.com/google/uuid"
)

type MailKind string

const (
	MailKindDailyReminder    MailKind = "daily-reminder"
	MailKindFollowUpReminder MailKind = "follow-up-reminder"
)

// Mailer is the outbound mail collaborator. Implementations must be safe
// for sequential reuse across a whole batch run.
type Mailer interface {
	SendTemplatedEmail(ctx context.Context, to string, kind MailKind, params map[string]string) error
}

type ReminderUserSource interface {
	ListNotifiable() ([]models.User, error)
}

type ReminderOutreachSource interface {
	CountCreatedInRange(userID uint, start time.Time, end time.Time) (int64, error)
	ListActiveByUser(userID uint) ([]models.Outreach, error)
}

// reminderLocation pins the batch's "today" window to UTC+5:30 regardless
// of server locale. The interactive follow-up buckets use the app's
// configured location instead; the two policies are intentionally separate.
var reminderLocation = time.FixedZone("UTC+05:30", 5*3600+30*60)

// ReminderService is the daily batch behind the cron endpoint. For each
// user with notifications enabled it runs two independent checks: "nothing
// logged today" and "follow-ups pending". A user can get zero, one or two
// emails per run; a failure for one user never aborts the rest.
type ReminderService struct {
	users    ReminderUserSource
	records  ReminderOutreachSource
	mailer   Mailer
	clock    Clock
	location *time.Location
}

func NewReminderService(users ReminderUserSource, records ReminderOutreachSource, mailer Mailer, clock Clock, location *time.Location) *ReminderService {
	if clock == nil {
		clock = SystemClock()
	}
	if location == nil {
		location = reminderLocation
	}
	return &ReminderService{
		users:    users,
		records:  records,
		mailer:   mailer,
		clock:    clock,
		location: location,
	}
}

// Run processes every notifiable user and returns how many were handled.
// The only hard failure is being unable to enumerate users; everything
// below that is logged per user and skipped.
func (service *ReminderService) Run(ctx context.Context) (int, error) {
	runID := uuid.NewString()

	users, err := service.users.ListNotifiable()
	if err != nil {
		return 0, fmt.Errorf("list notifiable users: %w", err)
	}

	dayStart, dayEnd := DayRange(service.clock.Now(), service.location)
	processed := 0
	for _, user := range users {
		service.processUser(ctx, runID, user, dayStart, dayEnd)
		processed++
	}

	log.Printf("reminders[%s]: processed %d users", runID, processed)
	return processed, nil
}

func (service *ReminderService) processUser(ctx context.Context, runID string, user models.User, dayStart time.Time, dayEnd time.Time) {
	createdToday, err := service.records.CountCreatedInRange(user.ID, dayStart, dayEnd)
	if err != nil {
		log.Printf("reminders[%s]: daily-activity check failed for user %d: %v", runID, user.ID, err)
	} else if createdToday == 0 {
		params := map[string]string{"name": user.Name}
		if err := service.mailer.SendTemplatedEmail(ctx, user.ReminderAddress(), MailKindDailyReminder, params); err != nil {
			log.Printf("reminders[%s]: send daily reminder failed for user %d: %v", runID, user.ID, err)
		}
	}

	pending, err := service.countPendingFollowUps(user.ID, dayEnd)
	if err != nil {
		log.Printf("reminders[%s]: pending check failed for user %d: %v", runID, user.ID, err)
		return
	}
	if pending == 0 {
		return
	}

	params := map[string]string{
		"name":  user.Name,
		"count": strconv.Itoa(pending),
	}
	if err := service.mailer.SendTemplatedEmail(ctx, user.ReminderAddress(), MailKindFollowUpReminder, params); err != nil {
		log.Printf("reminders[%s]: send follow-up reminder failed for user %d: %v", runID, user.ID, err)
	}
}

// countPendingFollowUps counts active records whose first contact's
// follow-up falls due before the end of the window and whose follow-up has
// not been sent. Closed-out statuses are already filtered by the source.
func (service *ReminderService) countPendingFollowUps(userID uint, dayEnd time.Time) (int, error) {
	records, err := service.records.ListActiveByUser(userID)
	if err != nil {
		return 0, err
	}

	pending := 0
	for _, record := range records {
		if record.FollowUpSentAt != nil {
			continue
		}
		dueAt := record.FirstContact().FollowUpDueAt
		if dueAt.IsZero() {
			continue
		}
		if dueAt.Before(dayEnd) {
			pending++
		}
	}
	return pending, nil
}
