package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and latency for every request passing through.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The app error handler has not run yet; mirror its status choice.
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		RequestsTotal.WithLabelValues(c.Method(), strconv.Itoa(status/100)+"xx").Inc()
		RequestDuration.WithLabelValues(c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}
