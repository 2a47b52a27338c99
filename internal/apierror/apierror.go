// Package apierror renders every handler error as a JSON {"message": ...} body.
package apierror

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// InternalMessage is the only text clients see for unexpected failures.
const InternalMessage = "internal server error"

// Body is the JSON shape of every error response.
type Body struct {
	Message string `json:"message"`
}

// Handler is a fiber.ErrorHandler. *fiber.Error values keep their status and
// message; anything else becomes a generic 500 and is logged, never echoed.
func Handler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(Body{Message: fe.Message})
		}

		requestID, _ := c.Locals("X-Request-ID").(string)
		logger.Error("unhandled error",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
		return c.Status(http.StatusInternalServerError).JSON(Body{Message: InternalMessage})
	}
}
