package post

import (
	"backend-trailhub/internal/shared/httpx"
	"backend-trailhub/internal/store"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, adminMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		posts, err := svc.List(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"posts": posts})
	})

	r.Post("/", func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := httpx.ParseBody(c, &req); err != nil {
			return err
		}
		p, err := svc.Create(c.Context(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": p})
	})

	r.Get("/user/:userId", func(c *fiber.Ctx) error {
		posts, err := svc.ListByUser(c.Context(), c.Params("userId"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"posts": posts})
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		p, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"post": p})
	})

	r.Post("/:id/like", func(c *fiber.Ctx) error {
		p, err := svc.Like(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"post": p})
	})

	r.Patch("/:id", func(c *fiber.Ctx) error {
		var patch store.PostPatch
		if err := httpx.ParseBody(c, &patch); err != nil {
			return err
		}
		p, err := svc.Update(c.Context(), c.Params("id"), patch)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"post": p})
	})

	r.Delete("/:id", adminMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return err
		}
		return httpx.Deleted(c, "Post")
	})
}
