package api

import (
	"log"
	"strconv"

	"github.com/coldtrackhq/coldtrack/internal/services"
	"github.com/gofiber/fiber/v2"
)

// respondServiceError maps the service error taxonomy onto HTTP. Storage
// failures are logged with context and surfaced opaquely.
func respondServiceError(c *fiber.Ctx, err error) error {
	switch services.KindOf(err) {
	case services.KindUnauthorized:
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	case services.KindNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case services.KindValidation:
		body := fiber.Map{"error": err.Error()}
		if fields := services.FieldsOf(err); len(fields) > 0 {
			body["fields"] = fields
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case services.KindInvalidOperation:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("api: %s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func parseIDParam(c *fiber.Ctx, name string) (uint, bool) {
	raw := c.Params(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

func parseIndexParam(c *fiber.Ctx, name string) (int, bool) {
	raw := c.Params(name)
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

func parseIntQuery(c *fiber.Ctx, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
