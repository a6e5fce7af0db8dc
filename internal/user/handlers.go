package user

import (
	"backend-trailhub/internal/apperr"
	"backend-trailhub/internal/shared/httpx"
	"backend-trailhub/internal/store"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, adminMiddleware fiber.Handler) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req UpsertRequest
		if err := httpx.ParseBody(c, &req); err != nil {
			return err
		}
		u, created, err := svc.Upsert(c.Context(), req)
		if err != nil {
			return err
		}
		status := fiber.StatusOK
		if created {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(fiber.Map{"user": u})
	})

	r.Get("/uid/:uid", func(c *fiber.Ctx) error {
		u, ok, err := svc.GetByUID(c.Context(), c.Params("uid"))
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("User")
		}
		return c.JSON(fiber.Map{"user": u})
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		u, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user": u})
	})

	r.Get("/:id/completed", func(c *fiber.Ctx) error {
		pins, err := svc.Completed(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"pins": pins})
	})

	r.Patch("/:id", func(c *fiber.Ctx) error {
		var patch store.UserPatch
		if err := httpx.ParseBody(c, &patch); err != nil {
			return err
		}
		u, err := svc.Update(c.Context(), c.Params("id"), patch)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user": u})
	})

	r.Delete("/:id", adminMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return err
		}
		return httpx.Deleted(c, "User")
	})
}
