package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend-trailhub/internal/shared/httpx"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func newGuardedApp(handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(zap.NewNop())})
	app.Get("/private", handler, func(c *fiber.Ctx) error {
		if c.Locals("user_id") == nil {
			return fiber.NewError(fiber.StatusUnauthorized)
		}
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func TestJWTMiddleware(t *testing.T) {
	app := newGuardedApp(JWTMiddleware("secret"))
	svc := NewService("secret", "")

	// missing token
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}

	// valid token
	token, _ := svc.signToken("user-1", RoleUser, accessTokenTTL)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok")
	}
}

func TestJWTMiddlewareRejectsOtherSecret(t *testing.T) {
	app := newGuardedApp(JWTMiddleware("secret"))
	token, _ := NewService("other", "").signToken("user-1", RoleUser, accessTokenTTL)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized, got %d", resp.StatusCode)
	}
}

func TestJWTMiddlewareParseError(t *testing.T) {
	orig := parseMiddlewareClaimsFn
	parseMiddlewareClaimsFn = func(string, jwt.Claims, jwt.Keyfunc, ...jwt.ParserOption) (*jwt.Token, error) {
		return nil, errors.New("boom")
	}
	defer func() { parseMiddlewareClaimsFn = orig }()

	app := newGuardedApp(JWTMiddleware("secret"))
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}
}

func TestAdminOnly(t *testing.T) {
	svc := NewService("secret", "")
	adminToken, _ := svc.signToken(RoleAdmin, RoleAdmin, accessTokenTTL)
	userToken, _ := svc.signToken("u1", RoleUser, accessTokenTTL)

	cases := []struct {
		name    string
		enabled bool
		token   string
		want    int
	}{
		{"enabled rejects anonymous", true, "", http.StatusUnauthorized},
		{"enabled rejects user role", true, userToken, http.StatusUnauthorized},
		{"enabled accepts admin", true, adminToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newGuardedApp(AdminOnly("secret", tc.enabled))
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			resp, _ := app.Test(req)
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestAdminOnlyDisabledCallsNext(t *testing.T) {
	app := fiber.New()
	app.Get("/open", AdminOnly("secret", false), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil))
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected pass through, got %d", resp.StatusCode)
	}
}

func TestBearerFromHeader(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":  "abc",
		"bearer abc":  "abc",
		"Basic abc":   "",
		"Bearer":      "",
		"":            "",
		"Bearer  abc": "abc",
	}
	for header, want := range cases {
		if got := bearerFromHeader(header); got != want {
			t.Fatalf("%q: expected %q got %q", header, want, got)
		}
	}
}

func TestParticipantWrites(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(zap.NewNop())})
	app.Use(ParticipantWrites("secret", true))
	ok := func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) }
	app.Get("/posts", ok)
	app.Post("/posts", func(c *fiber.Ctx) error {
		if c.Locals("user_id") != "user-1" {
			return fiber.NewError(fiber.StatusInternalServerError)
		}
		return c.SendStatus(http.StatusCreated)
	})

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/posts", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reads must pass without a token, got %d", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodPost, "/posts", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized write, got %d", resp.StatusCode)
	}

	token, _ := NewService("secret", "").signToken("user-1", RoleUser, accessTokenTTL)
	req := httptest.NewRequest(http.MethodPost, "/posts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected created with token, got %d", resp.StatusCode)
	}
}

func TestParticipantWritesDisabled(t *testing.T) {
	app := fiber.New()
	app.Post("/posts", ParticipantWrites("secret", false), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusCreated)
	})
	resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/posts", nil))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected passthrough, got %d", resp.StatusCode)
	}
}
