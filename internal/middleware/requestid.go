package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestIDKey is both the header name and the c.Locals key of the request id.
const RequestIDKey = "X-Request-ID"

// RequestID reuses an inbound X-Request-ID or generates one, and always echoes
// it on the response.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(RequestIDKey)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(RequestIDKey, reqID)
		c.Locals(RequestIDKey, reqID)

		return c.Next()
	}
}
