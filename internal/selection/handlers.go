package selection

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"devices": svc.IDs()})
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Select(c.Context(), c.Params("id")); err != nil {
			return selectionError(err)
		}
		return c.JSON(fiber.Map{"devices": svc.IDs()})
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Deselect(c.Context(), c.Params("id")); err != nil {
			return selectionError(err)
		}
		return c.JSON(fiber.Map{"devices": svc.IDs()})
	})
}

func selectionError(err error) error {
	if errors.Is(err, ErrEmptyDeviceID) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
