package pin

import (
	"backend-trailhub/internal/shared/httpx"
	"backend-trailhub/internal/store"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, adminMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		pins, err := svc.List(c.Context(), c.Query("category"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"pins": pins})
	})

	r.Post("/", adminMiddleware, func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := httpx.ParseBody(c, &req); err != nil {
			return err
		}
		p, err := svc.Create(c.Context(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"pin": p})
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		p, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"pin": p})
	})

	r.Patch("/:id", func(c *fiber.Ctx) error {
		var patch store.PinPatch
		if err := httpx.ParseBody(c, &patch); err != nil {
			return err
		}
		p, err := svc.Update(c.Context(), c.Params("id"), patch)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"pin": p})
	})

	r.Delete("/:id", adminMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return err
		}
		return httpx.Deleted(c, "Pin")
	})

	r.Post("/:id/checkin", func(c *fiber.Ctx) error {
		var req CheckInRequest
		if err := httpx.ParseBody(c, &req); err != nil {
			return err
		}
		res, err := svc.CheckIn(c.Context(), c.Params("id"), req)
		if err != nil {
			return err
		}
		return c.JSON(res)
	})
}
