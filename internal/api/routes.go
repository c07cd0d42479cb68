package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)

	outreach := api.Group("/outreach", handler.AuthRequired)
	outreach.Get("", handler.ListOutreach)
	outreach.Post("", handler.CreateOutreach)
	outreach.Get("/company/:name", handler.ListOutreachByCompany)
	outreach.Get("/:id", handler.GetOutreach)
	outreach.Patch("/:id", handler.UpdateOutreach)
	outreach.Delete("/:id", handler.DeleteOutreach)
	outreach.Patch("/:id/status", handler.SetOutreachStatus)
	outreach.Post("/:id/contacts", handler.AppendContact)
	outreach.Patch("/:id/contacts/:index", handler.UpdateContact)
	outreach.Delete("/:id/contacts/:index", handler.DeleteContact)
	outreach.Post("/:id/followup", handler.ToggleFollowUpSent)
	outreach.Patch("/:id/followup", handler.UpdateFollowUpDueAt)

	followUps := api.Group("/followups", handler.AuthRequired)
	followUps.Get("/overdue-audit", handler.ListOverdueAudit)
	followUps.Get("/:bucket", handler.GetFollowUpBucket)

	leads := api.Group("/leads", handler.AuthRequired)
	leads.Get("", handler.ListLeads)
	leads.Post("", handler.CreateLead)
	leads.Patch("/:id", handler.UpdateLead)
	leads.Delete("/:id", handler.DeleteLead)
	leads.Post("/:id/promote", handler.PromoteLead)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Get("/notifications", handler.GetNotificationSettings)
	settings.Patch("/notifications", handler.UpdateNotificationSettings)
	settings.Delete("/account", handler.DeleteAccount)

	api.Get("/cron/reminders", handler.RunReminders)
}
