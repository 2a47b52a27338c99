package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coursegate/coursegate/internal/auth"
)

// RegisterAuthRoutes wires the login endpoint. The rate limiter is optional.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	if rateLimiter != nil {
		r.Post("/auth", rateLimiter, h.Login)
		return
	}
	r.Post("/auth", h.Login)
}
