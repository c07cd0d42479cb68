package api

import (
	"github.com/coldtrackhq/coldtrack/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) AppendContact(c *fiber.Ctx) error {
	outreachID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid outreach id")
	}

	var input services.ContactInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	user := currentUser(c)
	record, err := handler.outreach.AppendContact(user.ID, outreachID, input)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

func (handler *Handler) UpdateContact(c *fiber.Ctx) error {
	outreachID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid outreach id")
	}
	index, ok := parseIndexParam(c, "index")
	if !ok {
		return badRequest(c, "invalid contact index")
	}

	var patch services.ContactPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid input")
	}

	user := currentUser(c)
	record, err := handler.outreach.UpdateContactAt(user.ID, outreachID, index, patch)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(record)
}

func (handler *Handler) DeleteContact(c *fiber.Ctx) error {
	outreachID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid outreach id")
	}
	index, ok := parseIndexParam(c, "index")
	if !ok {
		return badRequest(c, "invalid contact index")
	}

	user := currentUser(c)
	record, err := handler.outreach.DeleteContactAt(user.ID, outreachID, index)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(record)
}
