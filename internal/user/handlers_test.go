package user

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

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc, _ := newService(t)
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(nil)})
	RegisterRoutes(app.Group("/api/users"), svc, func(c *fiber.Ctx) error { return c.Next() })
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]json.RawMessage) {
	t.Helper()
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
	out := map[string]json.RawMessage{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestUserRoutes(t *testing.T) {
	app := newTestApp(t)

	status, body := call(t, app, "POST", "/api/users", `{"uid":"auth-1","username":"ana"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	var u store.User
	_ = json.Unmarshal(body["user"], &u)

	status, _ = call(t, app, "POST", "/api/users", `{"uid":"auth-1","completedPins":["p1"]}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 on merge, got %d", status)
	}

	status, body = call(t, app, "GET", "/api/users/uid/auth-1", "")
	if status != fiber.StatusOK || !strings.Contains(string(body["user"]), `"completedPins":["p1"]`) {
		t.Fatalf("get by uid: %d %s", status, body["user"])
	}

	status, body = call(t, app, "GET", "/api/users/"+u.ID+"/completed", "")
	if status != fiber.StatusOK || !strings.Contains(string(body["pins"]), `"id":"p1"`) {
		t.Fatalf("completed pins: %d %s", status, body["pins"])
	}

	status, _ = call(t, app, "PATCH", "/api/users/"+u.ID, `{"totalPhotos":-1}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}

	if status, _ := call(t, app, "GET", "/api/users/uid/nobody", ""); status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if status, _ := call(t, app, "POST", "/api/users", `{"username":"no uid"}`); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if status, _ := call(t, app, "DELETE", "/api/users/"+u.ID, ""); status != fiber.StatusOK {
		t.Fatalf("expected delete, got %d", status)
	}
	if status, _ := call(t, app, "GET", "/api/users/"+u.ID, ""); status != fiber.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
}
