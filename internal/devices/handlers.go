package devices

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, reg *Registry) {
	r.Get("/", func(c *fiber.Ctx) error {
		list, err := reg.List(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(list)
	})
}
