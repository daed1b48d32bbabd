package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/cuneytcagriyilmaz/postdesk/internal/service"
)

func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// serviceError maps the service error taxonomy onto HTTP statuses so callers
// can tell "fix your input" from "retry later" from "nothing there".
func serviceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrDeadlineNotFound),
		errors.Is(err, service.ErrArchiveNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrFolderNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidTransition):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrCustomerNotActive):
		status = fiber.StatusConflict
	case errors.Is(err, service.ErrServiceUnavailable):
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
