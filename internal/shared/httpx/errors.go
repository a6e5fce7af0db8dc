package httpx

import (
	"errors"

	"backend-trailhub/internal/apperr"
	"backend-trailhub/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type errorBody struct {
	Error   string                  `json:"error"`
	Details []apperr.FieldViolation `json:"details,omitempty"`
}

// ErrorHandler renders every handler error as {"error", "details"}.
// Internal causes are logged and replaced by a generic message.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	log = logger.OrNop(log)
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := apperr.As(err); ok {
			if appErr.Kind == apperr.KindInternal {
				log.Error("request failed",
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.Error(err))
			}
			return c.Status(appErr.HTTPStatus()).JSON(errorBody{
				Error:   appErr.PublicMessage(),
				Details: appErr.Violations,
			})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(errorBody{Error: fe.Message})
		}

		log.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorBody{Error: "Internal server error"})
	}
}
