package rating

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"backend-trailhub/internal/shared/httpx"
	"backend-trailhub/internal/store"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

func TestRatingRoundTrip(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(nil)})
	RegisterRoutes(app.Group("/api/ratings"), NewService(store.NewMemory(), nil), func(c *fiber.Ctx) error { return c.Next() })

	req := httptest.NewRequest("POST", "/api/ratings", strings.NewReader(`{"userId":"u1","pinId":"p3","rating":5,"review":"Great"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		Rating store.Rating `json:"rating"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Rating.ID == "" || created.Rating.CreatedAt.IsZero() {
		t.Fatalf("expected generated id and createdAt: %s", raw)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/ratings/pin/p3", nil))
	if err != nil {
		t.Fatalf("by pin: %v", err)
	}
	var listed struct {
		Ratings []store.Rating `json:"ratings"`
	}
	raw, _ = io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &listed)
	if len(listed.Ratings) != 1 || listed.Ratings[0].ID != created.Rating.ID {
		t.Fatalf("expected created rating in pin listing: %s", raw)
	}
}

func TestRatingOutOfRangeRejected(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(nil)})
	svc := NewService(store.NewMemory(), nil)
	RegisterRoutes(app.Group("/api/ratings"), svc, func(c *fiber.Ctx) error { return c.Next() })

	req := httptest.NewRequest("POST", "/api/ratings", strings.NewReader(`{"userId":"u1","pinId":"p3","rating":6}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusBadRequest || !strings.Contains(string(raw), "Validation failed") {
		t.Fatalf("expected validation failure: %d %s", resp.StatusCode, raw)
	}
	all, _ := svc.List(t.Context())
	if len(all) != 0 {
		t.Fatalf("rejected rating reached the store")
	}
}
