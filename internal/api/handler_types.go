package api

import (
	"time"

	"github.com/coldtrackhq/coldtrack/internal/db"
	"github.com/coldtrackhq/coldtrack/internal/services"
	"gorm.io/gorm"
)

const (
	authCookieName = "coldtrack_session"
	contextUserKey = "current_user"

	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour
)

type Handler struct {
	secretKey    []byte
	cookieSecure bool
	cronSecret   string
	location     *time.Location
	clock        services.Clock

	auth      *services.AuthService
	outreach  *services.OutreachService
	followUps *services.FollowUpService
	leads     *services.LeadService
	reminders *services.ReminderService

	loginLimiter *attemptLimiter
}

// Config carries the wiring knobs for NewHandler; zero values fall back to
// sane defaults (UTC, system clock, no cron secret check).
type Config struct {
	SecretKey    string
	CookieSecure bool
	CronSecret   string
	Location     *time.Location
	Clock        services.Clock
	Mailer       services.Mailer
}

func NewHandler(database *gorm.DB, config Config) *Handler {
	location := config.Location
	if location == nil {
		location = time.UTC
	}
	clock := config.Clock
	if clock == nil {
		clock = services.SystemClock()
	}

	repositories := db.NewRepositories(database)
	return &Handler{
		secretKey:    []byte(config.SecretKey),
		cookieSecure: config.CookieSecure,
		cronSecret:   config.CronSecret,
		location:     location,
		clock:        clock,
		auth:         services.NewAuthService(repositories.Users, clock),
		outreach:     services.NewOutreachService(repositories.Outreaches, clock),
		followUps:    services.NewFollowUpService(repositories.Outreaches, clock, location),
		leads:        services.NewLeadService(repositories.Leads, clock),
		reminders:    services.NewReminderService(repositories.Users, repositories.Outreaches, config.Mailer, clock, nil),
		loginLimiter: newAttemptLimiter(),
	}
}
