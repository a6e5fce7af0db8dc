package auth

import (
	"strings"

	"backend-trailhub/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWTMiddleware validates bearer tokens and stores user_id and role in locals.
func JWTMiddleware(secret string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		claims, err := claimsFromRequest(c, secretBytes)
		if err != nil {
			return err
		}
		c.Locals("user_id", claims.UserID)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

// ParticipantWrites requires an identity provider bearer token on
// participant writes. Reads and preflights pass, as does everything when
// enabled is false.
func ParticipantWrites(secret string, enabled bool) fiber.Handler {
	if !enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	requireToken := JWTMiddleware(secret)
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		return requireToken(c)
	}
}

// AdminOnly guards catalog edits and deletes. With enabled false every
// request passes through.
func AdminOnly(secret string, enabled bool) fiber.Handler {
	if !enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		claims, err := claimsFromRequest(c, secretBytes)
		if err != nil {
			return err
		}
		if claims.Role != RoleAdmin {
			return apperr.Unauthorized("Admin access required")
		}
		c.Locals("user_id", claims.UserID)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

func claimsFromRequest(c *fiber.Ctx, secret []byte) (*Claims, error) {
	token := bearerFromHeader(c.Get("Authorization"))
	if token == "" {
		return nil, apperr.Unauthorized("Missing bearer token")
	}

	parsed, err := parseMiddlewareClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, apperr.Unauthorized("Invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, apperr.Unauthorized("Invalid token")
	}
	return claims, nil
}

var parseMiddlewareClaimsFn = jwt.ParseWithClaims

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
