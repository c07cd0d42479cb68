package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coldtrackhq/coldtrack/internal/db"
	"github.com/coldtrackhq/coldtrack/internal/models"
	"github.com/coldtrackhq/coldtrack/internal/services"
	"github.com/gofiber/fiber/v2"
)

type nullMailer struct {
	sent int
}

func (mailer *nullMailer) SendTemplatedEmail(ctx context.Context, to string, kind services.MailKind, params map[string]string) error {
	mailer.sent++
	return nil
}

func newTestApp(t *testing.T, config Config) *fiber.App {
	t.Helper()
	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "api-test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if config.SecretKey == "" {
		config.SecretKey = "test-secret-key"
	}
	if config.Mailer == nil {
		config.Mailer = &nullMailer{}
	}

	app := fiber.New()
	RegisterRoutes(app, NewHandler(database, config))
	return app
}

func performJSON(t *testing.T, app *fiber.App, method string, path string, body string, cookie *http.Cookie) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != "" {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if cookie != nil {
		request.AddCookie(cookie)
	}
	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func decodeBody[T any](t *testing.T, response *http.Response) T {
	t.Helper()
	var value T
	if err := json.NewDecoder(response.Body).Decode(&value); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return value
}

func registerUser(t *testing.T, app *fiber.App, email string) *http.Cookie {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Test","email":%q,"password":"Sup3rSecret"}`, email)
	response := performJSON(t, app, fiber.MethodPost, "/api/auth/register", body, nil)
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("register returned %d", response.StatusCode)
	}
	for _, cookie := range response.Cookies() {
		if cookie.Name == authCookieName {
			return cookie
		}
	}
	t.Fatal("register did not set a session cookie")
	return nil
}

func outreachBody(company string, personName string, sentAt time.Time) string {
	return fmt.Sprintf(`{
		"companyName": %q,
		"contacts": [{
			"personName": %q,
			"personRole": "RECRUITER",
			"contactMethod": "EMAIL",
			"emailAddress": "%s@example.com",
			"messageSentAt": %q
		}]
	}`, company, personName, strings.ToLower(personName), sentAt.Format(time.RFC3339))
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t, Config{})
	response := performJSON(t, app, fiber.MethodGet, "/healthz", "", nil)
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t, Config{})
	cookie := registerUser(t, app, "ada@example.com")

	response := performJSON(t, app, fiber.MethodGet, "/api/auth/me", "", cookie)
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("me with cookie returned %d", response.StatusCode)
	}
	me := decodeBody[models.User](t, response)
	if me.Email != "ada@example.com" {
		t.Fatalf("unexpected me payload %+v", me)
	}

	response = performJSON(t, app, fiber.MethodGet, "/api/auth/me", "", nil)
	if response.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("me without cookie returned %d", response.StatusCode)
	}

	response = performJSON(t, app, fiber.MethodPost, "/api/auth/login",
		`{"email":"ada@example.com","password":"wrong"}`, nil)
	if response.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("bad login returned %d", response.StatusCode)
	}

	response = performJSON(t, app, fiber.MethodPost, "/api/auth/login",
		`{"email":"ADA@example.com","password":"Sup3rSecret"}`, nil)
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("login returned %d", response.StatusCode)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	app := newTestApp(t, Config{})
	response := performJSON(t, app, fiber.MethodPost, "/api/auth/register",
		`{"name":"Test","email":"weak@example.com","password":"short"}`, nil)
	if response.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", response.StatusCode)
	}
}

func TestOutreachLifecycle(t *testing.T) {
	app := newTestApp(t, Config{})
	cookie := registerUser(t, app, "ada@example.com")
	now := time.Now().UTC().Truncate(time.Second)

	response := performJSON(t, app, fiber.MethodPost, "/api/outreach", outreachBody("Acme", "Alice", now), cookie)
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("create returned %d", response.StatusCode)
	}
	created := decodeBody[models.Outreach](t, response)
	if created.Status != models.StatusSent {
		t.Fatalf("expected default status SENT, got %s", created.Status)
	}

	response = performJSON(t, app, fiber.MethodPost, "/api/outreach", outreachBody("ACME ", "Bob", now), cookie)
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("merge create returned %d", response.StatusCode)
	}
	merged := decodeBody[models.Outreach](t, response)
	if merged.ID != created.ID || len(merged.Contacts) != 2 {
		t.Fatalf("expected merge into record %d with 2 contacts, got %+v", created.ID, merged)
	}

	path := fmt.Sprintf("/api/outreach/%d/status", created.ID)
	response = performJSON(t, app, fiber.MethodPatch, path, `{"status":"INTERVIEW"}`, cookie)
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("status update returned %d", response.StatusCode)
	}

	response = performJSON(t, app, fiber.MethodPatch, path, `{"status":"NOPE"}`, cookie)
	if response.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("unknown status returned %d", response.StatusCode)
	}

	response = performJSON(t, app, fiber.MethodGet, "/api/outreach/company/acme", "", cookie)
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("company lookup returned %d", response.StatusCode)
	}
	byCompany := decodeBody[[]models.Outreach](t, response)
	if len(byCompany) != 1 {
		t.Fatalf("expected one record for acme, got %d", len(byCompany))
	}

	response = performJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/api/outreach/%d", created.ID), "", cookie)
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("delete returned %d", response.StatusCode)
	}
	response = performJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/outreach/%d", created.ID), "", cookie)
	if response.StatusCode != fiber.StatusNotFound {
		t.Fatalf("get after delete returned %d", response.StatusCode)
	}
}

func TestOutreachIsInvisibleAcrossUsers(t *testing.T) {
	app := newTestApp(t, Config{})
	cookieA := registerUser(t, app, "a@example.com")
	cookieB := registerUser(t, app, "b@example.com")

	response := performJSON(t, app, fiber.MethodPost, "/api/outreach",
		outreachBody("Acme", "Alice", time.Now().UTC()), cookieA)
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("create returned %d", response.StatusCode)
	}
	created := decodeBody[models.Outreach](t, response)

	response = performJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/outreach/%d", created.ID), "", cookieB)
	if response.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for foreign record, got %d", response.StatusCode)
	}
}

func TestDeleteLastContactIsRefused(t *testing.T) {
	app := newTestApp(t, Config{})
	cookie := registerUser(t, app, "ada@example.com")

	response := performJSON(t, app, fiber.MethodPost, "/api/outreach",
		outreachBody("Acme", "Alice", time.Now().UTC()), cookie)
	created := decodeBody[models.Outreach](t, response)

	response = performJSON(t, app, fiber.MethodDelete,
		fmt.Sprintf("/api/outreach/%d/contacts/0", created.ID), "", cookie)
	if response.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for last contact, got %d", response.StatusCode)
	}
}

func TestFollowUpBucketsOverHTTP(t *testing.T) {
	app := newTestApp(t, Config{})
	cookie := registerUser(t, app, "ada@example.com")

	// A message sent ten days ago puts the default follow-up five days in
	// the past.
	sentAt := time.Now().UTC().AddDate(0, 0, -10)
	response := performJSON(t, app, fiber.MethodPost, "/api/outreach", outreachBody("Acme", "Alice", sentAt), cookie)
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("create returned %d", response.StatusCode)
	}
	created := decodeBody[models.Outreach](t, response)

	response = performJSON(t, app, fiber.MethodGet, "/api/followups/overdue", "", cookie)
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("overdue bucket returned %d", response.StatusCode)
	}
	page := decodeBody[services.FollowUpPage](t, response)
	if len(page.Items) != 1 || page.Items[0].ID != created.ID {
		t.Fatalf("expected record in OVERDUE, got %+v", page)
	}

	response = performJSON(t, app, fiber.MethodPost,
		fmt.Sprintf("/api/outreach/%d/followup", created.ID), `{"sent":true}`, cookie)
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("toggle returned %d", response.StatusCode)
	}

	response = performJSON(t, app, fiber.MethodGet, "/api/followups/overdue", "", cookie)
	page = decodeBody[services.FollowUpPage](t, response)
	if len(page.Items) != 0 {
		t.Fatalf("expected empty OVERDUE after toggle, got %+v", page)
	}

	response = performJSON(t, app, fiber.MethodGet, "/api/followups/sent", "", cookie)
	page = decodeBody[services.FollowUpPage](t, response)
	if len(page.Items) != 1 {
		t.Fatalf("expected record in SENT, got %+v", page)
	}

	response = performJSON(t, app, fiber.MethodGet, "/api/followups/overdue-audit", "", cookie)
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("overdue audit returned %d", response.StatusCode)
	}
	audit := decodeBody[[]models.Outreach](t, response)
	if len(audit) != 1 {
		t.Fatalf("expected sent record kept in audit view, got %d items", len(audit))
	}

	response = performJSON(t, app, fiber.MethodGet, "/api/followups/bogus", "", cookie)
	if response.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("unknown bucket returned %d", response.StatusCode)
	}
}

func TestLeadPromotionOverHTTP(t *testing.T) {
	app := newTestApp(t, Config{})
	cookie := registerUser(t, app, "ada@example.com")

	response := performJSON(t, app, fiber.MethodPost, "/api/leads",
		`{"personName":"Carol","profileUrl":"https://linkedin.com/in/carol","companyName":"Initech"}`, cookie)
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("create lead returned %d", response.StatusCode)
	}
	lead := decodeBody[models.ExtensionLead](t, response)

	response = performJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/leads/%d/promote", lead.ID), "", cookie)
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("promote returned %d", response.StatusCode)
	}
	promoted := decodeBody[models.Outreach](t, response)
	if promoted.Status != models.StatusDraft || promoted.CompanyName != "Initech" {
		t.Fatalf("unexpected promoted record %+v", promoted)
	}

	response = performJSON(t, app, fiber.MethodGet, "/api/leads", "", cookie)
	leads := decodeBody[[]models.ExtensionLead](t, response)
	if len(leads) != 0 {
		t.Fatalf("expected lead gone after promotion, got %d", len(leads))
	}
}

func TestCronEndpointSecret(t *testing.T) {
	mailer := &nullMailer{}
	app := newTestApp(t, Config{CronSecret: "topsecret", Mailer: mailer})
	registerUser(t, app, "ada@example.com")

	request := httptest.NewRequest(fiber.MethodGet, "/api/cron/reminders", nil)
	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("cron request failed: %v", err)
	}
	if response.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", response.StatusCode)
	}

	request = httptest.NewRequest(fiber.MethodGet, "/api/cron/reminders", nil)
	request.Header.Set(fiber.HeaderAuthorization, "Bearer topsecret")
	response, err = app.Test(request, -1)
	if err != nil {
		t.Fatalf("cron request failed: %v", err)
	}
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 with token, got %d", response.StatusCode)
	}
	result := decodeBody[map[string]any](t, response)
	if result["success"] != true {
		t.Fatalf("unexpected cron payload %v", result)
	}
	if mailer.sent == 0 {
		t.Fatal("expected the freshly registered user to receive a reminder")
	}
}

func TestNotificationSettingsOverHTTP(t *testing.T) {
	app := newTestApp(t, Config{})
	cookie := registerUser(t, app, "ada@example.com")

	response := performJSON(t, app, fiber.MethodPatch, "/api/settings/notifications",
		`{"notificationEmail":"alerts@example.com","receiveNotifications":false}`, cookie)
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("settings update returned %d", response.StatusCode)
	}

	response = performJSON(t, app, fiber.MethodGet, "/api/settings/notifications", "", cookie)
	settings := decodeBody[map[string]any](t, response)
	if settings["notificationEmail"] != "alerts@example.com" || settings["receiveNotifications"] != false {
		t.Fatalf("unexpected settings %v", settings)
	}
	if settings["reminderAddress"] != "alerts@example.com" {
		t.Fatalf("unexpected reminder address %v", settings["reminderAddress"])
	}
}

func TestDeleteAccountOverHTTP(t *testing.T) {
	app := newTestApp(t, Config{})
	cookie := registerUser(t, app, "ada@example.com")

	response := performJSON(t, app, fiber.MethodPost, "/api/outreach",
		outreachBody("Acme", "Alice", time.Now().UTC()), cookie)
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("create returned %d", response.StatusCode)
	}

	response = performJSON(t, app, fiber.MethodDelete, "/api/settings/account", "", cookie)
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("account delete returned %d", response.StatusCode)
	}

	response = performJSON(t, app, fiber.MethodGet, "/api/auth/me", "", cookie)
	if response.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected session invalid after account deletion, got %d", response.StatusCode)
	}
}
