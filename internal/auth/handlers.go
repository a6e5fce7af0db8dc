package auth

import (
	"backend-trailhub/internal/shared/httpx"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/login", func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := httpx.ParseBody(c, &req); err != nil {
			return err
		}
		resp, err := svc.Login(req)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	})

	r.Get("/verify", func(c *fiber.Ctx) error {
		claims, err := svc.ValidateAccessToken(bearerFromHeader(c.Get("Authorization")))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user_id": claims.UserID, "role": claims.Role})
	})
}
