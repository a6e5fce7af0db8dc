package analytics

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"backend-trailhub/internal/shared/httpx"
	"backend-trailhub/internal/store"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the counter, tracking and event log routes on the
// api group.
func RegisterRoutes(api fiber.Router, svc *Service, adminMiddleware fiber.Handler) {
	r := api.Group("/analytics")

	r.Post("/", func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := httpx.ParseBody(c, &req); err != nil {
			return err
		}
		a, err := svc.CreateCounter(c.Context(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"analytics": a})
	})

	r.Get("/", func(c *fiber.Ctx) error {
		counters, err := svc.ListCounters(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"analytics": counters})
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		a, err := svc.GetCounter(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"analytics": a})
	})

	r.Patch("/:id", adminMiddleware, func(c *fiber.Ctx) error {
		var patch store.AnalyticsPatch
		if err := httpx.ParseBody(c, &patch); err != nil {
			return err
		}
		a, err := svc.UpdateCounter(c.Context(), c.Params("id"), patch)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"analytics": a})
	})

	api.Post("/track", func(c *fiber.Ctx) error {
		var req TrackRequest
		if err := httpx.ParseBody(c, &req); err != nil {
			return err
		}
		ev, err := svc.Track(c.Context(), req.EventType, req.Data)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Event tracked successfully", "event": ev})
	})

	api.Get("/admin/export", adminMiddleware, func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		n, err := svc.Export(c.Context(), &buf)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("trailhub-data-%s.csv", time.Now().UTC().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
		c.Set("X-Record-Count", strconv.Itoa(n))
		return c.Send(buf.Bytes())
	})

	api.Get("/events", func(c *fiber.Ctx) error {
		events, err := svc.Events(c.Context(), c.Query("eventType"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"events": events})
	})
}
