package api

import (
	"time"

	"github.com/coldtrackhq/coldtrack/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetFollowUpBucket(c *fiber.Ctx) error {
	bucket, ok := services.ParseFollowUpBucket(c.Params("bucket"))
	if !ok {
		return badRequest(c, "unknown follow-up bucket")
	}

	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "pageSize", 20)

	user := currentUser(c)
	result, err := handler.followUps.GetBucketPage(user.ID, bucket, page, pageSize)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// ListOverdueAudit is the unpaginated legacy-style overdue view that keeps
// already-sent follow-ups visible.
func (handler *Handler) ListOverdueAudit(c *fiber.Ctx) error {
	user := currentUser(c)
	records, err := handler.followUps.ListOverdueIncludingSent(user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(records)
}

type toggleFollowUpRequest struct {
	Sent bool `json:"sent"`
}

func (handler *Handler) ToggleFollowUpSent(c *fiber.Ctx) error {
	outreachID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid outreach id")
	}

	var input toggleFollowUpRequest
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	user := currentUser(c)
	record, err := handler.followUps.ToggleFollowUpSent(user.ID, outreachID, input.Sent)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(record)
}

type rescheduleFollowUpRequest struct {
	DueAt time.Time `json:"dueAt"`
}

func (handler *Handler) UpdateFollowUpDueAt(c *fiber.Ctx) error {
	outreachID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid outreach id")
	}

	var input rescheduleFollowUpRequest
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	user := currentUser(c)
	record, err := handler.followUps.UpdateFollowUpDueAt(user.ID, outreachID, input.DueAt)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(record)
}
