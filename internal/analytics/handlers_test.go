package analytics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"backend-trailhub/internal/shared/httpx"
	"backend-trailhub/internal/store"

	"github.com/gofiber/fiber/v2"
)

func TestAnalyticsRoutes(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(nil)})
	RegisterRoutes(app.Group("/api"), NewService(store.NewMemory(), nil, nil), func(c *fiber.Ctx) error { return c.Next() })

	do := func(method, path, body string) (int, string) {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s %s: %v", method, path, err)
		}
		raw, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(raw)
	}

	status, raw := do("POST", "/api/track", `{"eventType":"qr_scan","data":{"pinId":"p2"}}`)
	if status != fiber.StatusOK || !strings.Contains(raw, "Event tracked successfully") {
		t.Fatalf("track: %d %s", status, raw)
	}
	if status, _ := do("POST", "/api/track", `{"data":{}}`); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without eventType, got %d", status)
	}

	status, raw = do("GET", "/api/events?eventType=qr_scan", "")
	if status != fiber.StatusOK || !strings.Contains(raw, `"pinId":"p2"`) {
		t.Fatalf("events: %d %s", status, raw)
	}

	status, raw = do("GET", "/api/analytics", "")
	if status != fiber.StatusOK || !strings.Contains(raw, `"qrScans":1`) {
		t.Fatalf("counters: %d %s", status, raw)
	}

	status, raw = do("POST", "/api/analytics", `{"pageViews":5}`)
	if status != fiber.StatusCreated || !strings.Contains(raw, `"pageViews":5`) {
		t.Fatalf("create counter: %d %s", status, raw)
	}
	if status, _ := do("POST", "/api/analytics", `{"pageViews":-1}`); status != fiber.StatusBadRequest {
		t.Fatalf("expected negative counter to be rejected, got %d", status)
	}
	if status, _ := do("GET", "/api/analytics/missing", ""); status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if status, _ := do("PATCH", "/api/analytics/missing", `{"pageViews":1}`); status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}

	status, raw = do("GET", "/api/admin/export", "")
	if status != fiber.StatusOK || !strings.HasPrefix(raw, "Type,ID,User/Vendor") {
		t.Fatalf("export: %d %s", status, raw)
	}
}

func TestExportRouteIsAdminGuarded(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(nil)})
	deny := func(c *fiber.Ctx) error { return fiber.ErrUnauthorized }
	RegisterRoutes(app.Group("/api"), NewService(store.NewMemory(), nil, nil), deny)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/export", nil))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
