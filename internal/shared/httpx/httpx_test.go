package httpx

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"backend-trailhub/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

type body struct {
	Name string `json:"name" validate:"required"`
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var req body
		if err := ParseBody(c, &req); err != nil {
			appErr, _ := apperr.As(err)
			return c.Status(appErr.HTTPStatus()).JSON(fiber.Map{"error": appErr.Message, "details": appErr.Violations})
		}
		return c.JSON(req)
	})
	app.Delete("/", func(c *fiber.Ctx) error {
		return Deleted(c, "Pin")
	})
	return app
}

func TestParseBody(t *testing.T) {
	app := newApp()
	cases := []struct {
		payload string
		status  int
	}{
		{`{"name":"ok"}`, fiber.StatusOK},
		{`{"name":""}`, fiber.StatusBadRequest},
		{`{not json`, fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("POST", "/", strings.NewReader(tc.payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		if resp.StatusCode != tc.status {
			t.Fatalf("%s: expected %d got %d", tc.payload, tc.status, resp.StatusCode)
		}
	}
}

func TestDeleted(t *testing.T) {
	resp, err := newApp().Test(httptest.NewRequest("DELETE", "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "Pin deleted successfully") {
		t.Fatalf("unexpected body %s", raw)
	}
}
