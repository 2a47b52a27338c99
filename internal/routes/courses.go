package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coursegate/coursegate/internal/course"
)

// RegisterCourseRoutes wires the course catalogue endpoints. idem, when set,
// guards the mutating routes.
func RegisterCourseRoutes(r fiber.Router, h *course.Handler, idem fiber.Handler) {
	group := r.Group("/courses")
	mutating := []fiber.Handler{}
	if idem != nil {
		mutating = append(mutating, idem)
	}
	with := func(next fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, mutating...), next)
	}

	group.Get("/", h.List)
	group.Get("/:code", h.Get)
	group.Post("/", with(h.Create)...)
	group.Patch("/:code", with(h.Patch)...)
	group.Delete("/:code", with(h.Delete)...)
}
