// Package httpx holds the request helpers shared by the feature handlers.
package httpx

import (
	"backend-trailhub/internal/apperr"
	"backend-trailhub/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// ParseBody decodes the json body into dst and validates it.
func ParseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Invalid("body", "json", "must be a valid JSON object")
	}
	return validate.Struct(dst)
}

// Deleted is the response body for a successful delete.
func Deleted(c *fiber.Ctx, what string) error {
	return c.JSON(fiber.Map{"message": what + " deleted successfully"})
}
