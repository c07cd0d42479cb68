package api

import (
	"time"

	"github.com/coldtrackhq/coldtrack/internal/services"
	"github.com/gofiber/fiber/v2"
)

const loginAttemptsLimit = 8
const loginAttemptsWindow = 15 * time.Minute

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	user, err := handler.auth.Register(input)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := handler.setAuthCookie(c, &user, true); err != nil {
		return respondServiceError(c, services.NewStorage("create session", err))
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input loginRequest
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	now := handler.clock.Now()
	limiterKey := requestLimiterKey(c)
	if handler.loginLimiter.tooManyRecent(limiterKey, now, loginAttemptsLimit, loginAttemptsWindow) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts"})
	}

	user, err := handler.auth.Authenticate(input.Email, input.Password)
	if err != nil {
		handler.loginLimiter.addFailure(limiterKey, now, loginAttemptsWindow)
		return respondServiceError(c, err)
	}
	handler.loginLimiter.reset(limiterKey)

	if err := handler.setAuthCookie(c, &user, input.RememberMe); err != nil {
		return respondServiceError(c, services.NewStorage("create session", err))
	}
	return c.JSON(user)
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}
