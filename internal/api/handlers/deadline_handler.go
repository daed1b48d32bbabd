package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cuneytcagriyilmaz/postdesk/internal/service"
	"github.com/cuneytcagriyilmaz/postdesk/internal/transfer"
)

type DeadlineHandler struct {
	s service.DeadlineService
}

func NewDeadlineHandler(s service.DeadlineService) *DeadlineHandler {
	return &DeadlineHandler{s: s}
}

func (h *DeadlineHandler) Create(c *fiber.Ctx) error {
	var dc transfer.DeadlineCreation
	if err := c.BodyParser(&dc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	id, err := h.s.Create(c.Context(), &dc)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *DeadlineHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	deadline, err := h.s.Get(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(deadline)
}

func (h *DeadlineHandler) ListByCustomer(c *fiber.Ctx) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	deadlines, err := h.s.ListByCustomer(c.Context(), customerID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(deadlines)
}

func (h *DeadlineHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var patch transfer.DeadlineUpdate
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.s.Update(c.Context(), id, &patch); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DeadlineHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.s.Cancel(c.Context(), id); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DeadlineHandler) Archive(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	archiveID, err := h.s.Archive(c.Context(), id, body.Reason)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"archive_id": archiveID})
}

func (h *DeadlineHandler) Restore(c *fiber.Ctx) error {
	archiveID, err := parseID(c, "archiveId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	id, err := h.s.Restore(c.Context(), archiveID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}
