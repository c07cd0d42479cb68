package api

import (
	"github.com/coldtrackhq/coldtrack/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetNotificationSettings(c *fiber.Ctx) error {
	user := currentUser(c)
	return c.JSON(fiber.Map{
		"notificationEmail":    user.NotificationEmail,
		"receiveNotifications": user.ReceiveNotifications,
		"reminderAddress":      user.ReminderAddress(),
	})
}

func (handler *Handler) UpdateNotificationSettings(c *fiber.Ctx) error {
	var input services.NotificationSettingsInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	user := currentUser(c)
	updated, err := handler.auth.UpdateNotificationSettings(user.ID, input)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(updated)
}

// DeleteAccount removes the user and cascades to all their outreach
// records and staged leads.
func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user := currentUser(c)
	if err := handler.auth.DeleteAccount(user.ID); err != nil {
		return respondServiceError(c, err)
	}
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}
