package course

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	missingCreateMessage = "Missing required parameters. Required: code, name, description, scu"
	missingPatchMessage  = "Missing parameters. Accepts: code, name, description, scu"
)

// Handler exposes course HTTP endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler builds a course HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type createRequest struct {
	Code        string `json:"code" form:"code"`
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	SCU         int    `json:"scu" form:"scu"`
}

type patchRequest struct {
	Code        *string `json:"code" form:"code"`
	Name        *string `json:"name" form:"name"`
	Description *string `json:"description" form:"description"`
	SCU         *int    `json:"scu" form:"scu"`
}

type courseResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SCU         int    `json:"scu"`
}

func toResponse(c Course) courseResponse {
	return courseResponse{Code: c.Code, Name: c.Name, Description: c.Description, SCU: c.SCU}
}

// Create adds a course.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return h.missing(c, missingCreateMessage)
	}
	created, err := h.service.Create(c.UserContext(), CreateInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		SCU:         req.SCU,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			return h.missing(c, missingCreateMessage)
		case errors.Is(err, ErrInvalidSCU):
			return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ErrDuplicate):
			return fiber.NewError(http.StatusConflict, fmt.Sprintf("Course with code '%s' already exists.", NormalizeCode(req.Code)))
		default:
			return err
		}
	}
	h.logger.Info("course created", slog.String("code", created.Code))
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "Course added successfully."})
}

// List returns every course.
func (h *Handler) List(c *fiber.Ctx) error {
	courses, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		out = append(out, toResponse(course))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Get returns one course by code.
func (h *Handler) Get(c *fiber.Ctx) error {
	code := c.Params("code")
	course, err := h.service.Get(c.UserContext(), code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, fmt.Sprintf("Course with code '%s' does not exist.", code))
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(course))
}

// Patch updates only the provided fields of a course.
func (h *Handler) Patch(c *fiber.Ctx) error {
	code := c.Params("code")
	var req patchRequest
	if err := c.BodyParser(&req); err != nil {
		return h.missing(c, missingPatchMessage)
	}
	updated, err := h.service.Update(c.UserContext(), code, Patch{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		SCU:         req.SCU,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			return h.missing(c, missingPatchMessage)
		case errors.Is(err, ErrInvalidSCU):
			return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, fmt.Sprintf("Course with code '%s' does not exist.", code))
		case errors.Is(err, ErrDuplicate):
			return fiber.NewError(http.StatusConflict, "Course code already in use.")
		default:
			return err
		}
	}
	h.logger.Info("course updated", slog.String("code", NormalizeCode(code)), slog.String("new_code", updated.Code))
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Course updated successfully"})
}

// Delete removes a course by code.
func (h *Handler) Delete(c *fiber.Ctx) error {
	code := c.Params("code")
	if err := h.service.Delete(c.UserContext(), code); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, fmt.Sprintf("Course with code '%s' does not exist.", code))
		}
		return err
	}
	h.logger.Info("course deleted", slog.String("code", NormalizeCode(code)))
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Course deleted successfully"})
}

func (h *Handler) missing(c *fiber.Ctx, message string) error {
	received := map[string]any{}
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		if err := json.Unmarshal(c.Body(), &received); err != nil || received == nil {
			received = map[string]any{}
		}
	} else {
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			received[string(k)] = string(v)
		})
	}
	return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"message": message, "received": received})
}
