package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coldtrackhq/coldtrack/internal/models"
)

type stubUserSource struct {
	users   []models.User
	listErr error
}

func (stub *stubUserSource) ListNotifiable() ([]models.User, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	notifiable := make([]models.User, 0, len(stub.users))
	for _, user := range stub.users {
		if user.ReceiveNotifications {
			notifiable = append(notifiable, user)
		}
	}
	return notifiable, nil
}

type stubOutreachSource struct {
	createdToday map[uint]int64
	active       map[uint][]models.Outreach
	countErr     map[uint]error
	listErr      map[uint]error
}

func (stub *stubOutreachSource) CountCreatedInRange(userID uint, start time.Time, end time.Time) (int64, error) {
	if err := stub.countErr[userID]; err != nil {
		return 0, err
	}
	return stub.createdToday[userID], nil
}

func (stub *stubOutreachSource) ListActiveByUser(userID uint) ([]models.Outreach, error) {
	if err := stub.listErr[userID]; err != nil {
		return nil, err
	}
	return stub.active[userID], nil
}

type sentMail struct {
	to     string
	kind   MailKind
	params map[string]string
}

type recordingMailer struct {
	sent    []sentMail
	failFor map[string]error
}

func (mailer *recordingMailer) SendTemplatedEmail(ctx context.Context, to string, kind MailKind, params map[string]string) error {
	if err := mailer.failFor[to]; err != nil {
		return err
	}
	mailer.sent = append(mailer.sent, sentMail{to: to, kind: kind, params: params})
	return nil
}

func (mailer *recordingMailer) kindsFor(to string) []MailKind {
	kinds := make([]MailKind, 0)
	for _, mail := range mailer.sent {
		if mail.to == to {
			kinds = append(kinds, mail.kind)
		}
	}
	return kinds
}

func TestRunSendsDailyReminderWhenNothingLoggedToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	users := &stubUserSource{users: []models.User{
		{ID: 1, Name: "Ada", Email: "ada@example.com", ReceiveNotifications: true},
	}}
	records := &stubOutreachSource{createdToday: map[uint]int64{1: 0}}
	mailer := &recordingMailer{}
	service := NewReminderService(users, records, mailer, fixedClock(now), time.UTC)

	processed, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if processed != 1 {
		t.Fatalf("expected 1 processed user, got %d", processed)
	}
	kinds := mailer.kindsFor("ada@example.com")
	if len(kinds) != 1 || kinds[0] != MailKindDailyReminder {
		t.Fatalf("expected one daily reminder, got %v", kinds)
	}
	if mailer.sent[0].params["name"] != "Ada" {
		t.Fatalf("expected name param Ada, got %q", mailer.sent[0].params["name"])
	}
}

func TestRunSkipsDailyReminderWhenUserLoggedActivity(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	users := &stubUserSource{users: []models.User{
		{ID: 1, Name: "Ada", Email: "ada@example.com", ReceiveNotifications: true},
	}}
	records := &stubOutreachSource{createdToday: map[uint]int64{1: 2}}
	mailer := &recordingMailer{}
	service := NewReminderService(users, records, mailer, fixedClock(now), time.UTC)

	if _, err := service.Run(context.Background()); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("expected no mail, got %v", mailer.sent)
	}
}

func TestRunSendsFollowUpReminderWithPendingCount(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	sentAt := now.Add(-time.Hour)
	users := &stubUserSource{users: []models.User{
		{ID: 1, Name: "Ada", Email: "ada@example.com", ReceiveNotifications: true},
	}}
	records := &stubOutreachSource{
		createdToday: map[uint]int64{1: 1},
		active: map[uint][]models.Outreach{1: {
			{ID: 1, UserID: 1, Status: models.StatusSent, Contacts: []models.Contact{{FollowUpDueAt: now.AddDate(0, 0, -1)}}},
			{ID: 2, UserID: 1, Status: models.StatusSent, Contacts: []models.Contact{{FollowUpDueAt: now}}},
			{ID: 3, UserID: 1, Status: models.StatusSent, Contacts: []models.Contact{{FollowUpDueAt: now.AddDate(0, 0, 3)}}},
			{ID: 4, UserID: 1, Status: models.StatusSent, FollowUpSentAt: &sentAt, Contacts: []models.Contact{{FollowUpDueAt: now.AddDate(0, 0, -2)}}},
		}},
	}
	mailer := &recordingMailer{}
	service := NewReminderService(users, records, mailer, fixedClock(now), time.UTC)

	if _, err := service.Run(context.Background()); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	kinds := mailer.kindsFor("ada@example.com")
	if len(kinds) != 1 || kinds[0] != MailKindFollowUpReminder {
		t.Fatalf("expected one follow-up reminder, got %v", kinds)
	}
	if mailer.sent[0].params["count"] != "2" {
		t.Fatalf("expected pending count 2, got %q", mailer.sent[0].params["count"])
	}
}

func TestRunPrefersNotificationEmail(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	users := &stubUserSource{users: []models.User{
		{ID: 1, Name: "Ada", Email: "ada@example.com", NotificationEmail: "alerts@example.com", ReceiveNotifications: true},
	}}
	records := &stubOutreachSource{createdToday: map[uint]int64{1: 0}}
	mailer := &recordingMailer{}
	service := NewReminderService(users, records, mailer, fixedClock(now), time.UTC)

	if _, err := service.Run(context.Background()); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].to != "alerts@example.com" {
		t.Fatalf("expected mail to alerts@example.com, got %v", mailer.sent)
	}
}

func TestRunSkipsOptedOutUsers(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	users := &stubUserSource{users: []models.User{
		{ID: 1, Name: "Ada", Email: "ada@example.com", ReceiveNotifications: false},
	}}
	records := &stubOutreachSource{createdToday: map[uint]int64{1: 0}}
	mailer := &recordingMailer{}
	service := NewReminderService(users, records, mailer, fixedClock(now), time.UTC)

	processed, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if processed != 0 {
		t.Fatalf("expected 0 processed users, got %d", processed)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("expected no mail, got %v", mailer.sent)
	}
}

func TestRunIsolatesPerUserFailures(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	users := &stubUserSource{users: []models.User{
		{ID: 1, Name: "Ada", Email: "ada@example.com", ReceiveNotifications: true},
		{ID: 2, Name: "Bob", Email: "bob@example.com", ReceiveNotifications: true},
	}}
	records := &stubOutreachSource{
		createdToday: map[uint]int64{1: 0, 2: 0},
		countErr:     map[uint]error{1: errors.New("disk gone")},
	}
	mailer := &recordingMailer{failFor: map[string]error{}}
	service := NewReminderService(users, records, mailer, fixedClock(now), time.UTC)

	processed, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if processed != 2 {
		t.Fatalf("expected both users processed, got %d", processed)
	}
	if len(mailer.kindsFor("bob@example.com")) != 1 {
		t.Fatal("expected Bob to still get his reminder")
	}
}

func TestRunFailsWhenUserListUnavailable(t *testing.T) {
	users := &stubUserSource{listErr: errors.New("db down")}
	records := &stubOutreachSource{}
	service := NewReminderService(users, records, &recordingMailer{}, fixedClock(time.Now()), time.UTC)

	if _, err := service.Run(context.Background()); err == nil {
		t.Fatal("expected error when user enumeration fails")
	}
}

func TestDefaultReminderWindowUsesHalfPastFiveOffset(t *testing.T) {
	// 20:00 UTC on March 10 is already 01:30 on March 11 in the batch's
	// fixed UTC+5:30 zone, so a record created at 19:00 UTC counts as
	// "yesterday" there.
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	dayStart, dayEnd := DayRange(now, reminderLocation)

	wantStart := time.Date(2026, 3, 11, 0, 0, 0, 0, reminderLocation)
	if !dayStart.Equal(wantStart) {
		t.Fatalf("expected window start %v, got %v", wantStart, dayStart)
	}
	if !dayEnd.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Fatalf("expected one-day window, got end %v", dayEnd)
	}

	earlier := time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)
	if !earlier.Before(dayStart) {
		t.Fatal("expected 19:00 UTC to fall before the +5:30 day window")
	}
}
