package api

import (
	"github.com/coldtrackhq/coldtrack/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListLeads(c *fiber.Ctx) error {
	user := currentUser(c)
	leads, err := handler.leads.ListByUser(user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(leads)
}

func (handler *Handler) CreateLead(c *fiber.Ctx) error {
	var input services.LeadInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	user := currentUser(c)
	lead, err := handler.leads.Create(user.ID, input)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lead)
}

func (handler *Handler) UpdateLead(c *fiber.Ctx) error {
	leadID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid lead id")
	}

	var patch services.LeadPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid input")
	}

	user := currentUser(c)
	lead, err := handler.leads.Update(user.ID, leadID, patch)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(lead)
}

func (handler *Handler) DeleteLead(c *fiber.Ctx) error {
	leadID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid lead id")
	}

	user := currentUser(c)
	if err := handler.leads.Delete(user.ID, leadID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// PromoteLead converts a staged lead into an outreach record and removes
// the lead in the same transaction.
func (handler *Handler) PromoteLead(c *fiber.Ctx) error {
	leadID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid lead id")
	}

	user := currentUser(c)
	record, err := handler.leads.Promote(user.ID, leadID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}
