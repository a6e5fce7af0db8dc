package upload

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend-trailhub/internal/shared/httpx"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

func TestUploadHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(nil)})
	RegisterRoutes(app.Group("/api/uploads"), NewService("https://storage.example/uploads/", &recorder{}))

	body, _ := json.Marshal(map[string]string{"userId": "user-1", "fileName": "file.jpg"})
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status: %v", err)
	}

	body, _ = json.Marshal(map[string]string{"fileName": "file.jpg"})
	req = httptest.NewRequest(http.MethodPost, "/api/uploads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without user")
	}
}
