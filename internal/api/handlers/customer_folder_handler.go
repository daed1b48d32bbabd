package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/cuneytcagriyilmaz/postdesk/internal/service"
)

type CustomerFolderHandler struct {
	s service.CustomerFolderService
}

func NewCustomerFolderHandler(s service.CustomerFolderService) *CustomerFolderHandler {
	return &CustomerFolderHandler{s: s}
}

func (h *CustomerFolderHandler) ProvisionFolders(c *fiber.Ctx) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.s.EnsureFolders(c.Context(), customerID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *CustomerFolderHandler) SoftDelete(c *fiber.Ctx) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.s.SoftDelete(c.Context(), customerID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CustomerFolderHandler) Restore(c *fiber.Ctx) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.s.Restore(c.Context(), customerID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CustomerFolderHandler) HardDeleteFolder(c *fiber.Ctx) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.s.HardDeleteFolder(c.Context(), customerID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CustomerFolderHandler) UploadMedia(c *fiber.Ctx) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot open file"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot read file"})
	}

	path, err := h.s.SaveMediaFile(c.Context(), customerID, c.FormValue("category"), data)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"path": path})
}
