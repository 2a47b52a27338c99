package middleware

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/coursegate/coursegate/internal/account"
	"github.com/coursegate/coursegate/internal/observability"
)

const loginRateLimitPrefix = "rl:login:"

// LoginRateLimit limits login attempts per username (or client IP when the body
// carries none) to maxPerMin using a Redis counter. Cache failures fail open:
// the limiter is throttling, not authentication.
func LoginRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		var req struct {
			Username string `json:"username" form:"username"`
		}
		_ = c.BodyParser(&req)
		subject := account.NormalizeUsername(req.Username)
		if subject == "" {
			subject = "ip:" + c.IP()
		}

		ctx := c.UserContext()
		key := loginRateLimitPrefix + subject
		cnt, err := cache.Incr(ctx, key).Result()
		if err != nil {
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(ctx, key, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			observability.RateLimitRejectedTotal.Inc()
			return fiber.NewError(http.StatusTooManyRequests, "too many login attempts, try again later")
		}
		return c.Next()
	}
}
