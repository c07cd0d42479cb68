package api

import (
	"github.com/coldtrackhq/coldtrack/internal/models"
	"github.com/coldtrackhq/coldtrack/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListOutreach(c *fiber.Ctx) error {
	user := currentUser(c)
	records, err := handler.outreach.ListByUser(user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(records)
}

// CreateOutreach creates a record or merges contacts into the user's
// existing record for the company. A missing status defaults to SENT on
// this path; lead promotion defaults to DRAFT instead.
func (handler *Handler) CreateOutreach(c *fiber.Ctx) error {
	var input services.CreateOutreachInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	user := currentUser(c)
	record, err := handler.outreach.CreateOrMerge(user.ID, input, models.StatusSent)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

func (handler *Handler) GetOutreach(c *fiber.Ctx) error {
	outreachID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid outreach id")
	}

	user := currentUser(c)
	record, err := handler.outreach.GetByID(user.ID, outreachID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(record)
}

func (handler *Handler) UpdateOutreach(c *fiber.Ctx) error {
	outreachID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid outreach id")
	}

	var patch services.OutreachPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid input")
	}

	user := currentUser(c)
	record, err := handler.outreach.UpdateFields(user.ID, outreachID, patch)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(record)
}

func (handler *Handler) DeleteOutreach(c *fiber.Ctx) error {
	outreachID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid outreach id")
	}

	user := currentUser(c)
	if err := handler.outreach.Delete(user.ID, outreachID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (handler *Handler) SetOutreachStatus(c *fiber.Ctx) error {
	outreachID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid outreach id")
	}

	var input setStatusRequest
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	user := currentUser(c)
	record, err := handler.outreach.SetStatus(user.ID, outreachID, input.Status)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(record)
}

func (handler *Handler) ListOutreachByCompany(c *fiber.Ctx) error {
	companyName := c.Params("name")
	if companyName == "" {
		return badRequest(c, "company name is required")
	}

	user := currentUser(c)
	records, err := handler.outreach.ListByCompany(user.ID, companyName)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(records)
}
