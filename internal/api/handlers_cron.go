package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RunReminders is the external trigger surface for the daily reminder
// batch. When a cron secret is configured the caller must present it as a
// bearer token. Re-running is safe: reminders may repeat but no data is
// mutated.
func (handler *Handler) RunReminders(c *fiber.Ctx) error {
	if handler.cronSecret != "" {
		token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if strings.TrimSpace(token) != handler.cronSecret {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
	}

	processed, err := handler.reminders.Run(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"processed": processed,
	})
}
