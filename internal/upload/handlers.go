package upload

import (
	"backend-trailhub/internal/shared/httpx"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req Request
		if err := httpx.ParseBody(c, &req); err != nil {
			return err
		}
		u, err := svc.Reserve(c.Context(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"upload": u})
	})
}
