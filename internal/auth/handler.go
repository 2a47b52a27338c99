package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/coursegate/coursegate/internal/account"
	"github.com/coursegate/coursegate/internal/observability"
)

const (
	redacted              = "CONTENT REDACTED"
	missingParamsMessage  = "Missing required parameters. Required: username, password"
	authenticatedMessage  = "Authenticated successfully."
	invalidCredentialsMsg = "Invalid credentials."
	internalErrorMessage  = "internal server error"
)

// CredentialVerifier exchanges credentials for an API token.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (string, error)
}

// Handler exposes the login endpoint.
type Handler struct {
	verifier CredentialVerifier
	logger   *slog.Logger
}

// NewHandler constructs the login handler.
func NewHandler(verifier CredentialVerifier, logger *slog.Logger) *Handler {
	return &Handler{verifier: verifier, logger: logger}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type loginResponse struct {
	Message  string `json:"message"`
	APIToken string `json:"apiToken"`
}

// Login validates the request body and returns the account's API token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	// Unparseable bodies fall through to the missing-parameters response.
	_ = c.BodyParser(&req)

	if req.Username == "" || req.Password == "" {
		observability.LoginAttemptsTotal.WithLabelValues("missing_parameters").Inc()
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
			"message":  missingParamsMessage,
			"received": receivedFields(c),
		})
	}

	token, err := h.verifier.Verify(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			observability.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			h.logger.Warn("login rejected", slog.String("username", account.NormalizeUsername(req.Username)))
			return fiber.NewError(http.StatusUnauthorized, invalidCredentialsMsg)
		}
		observability.LoginAttemptsTotal.WithLabelValues("error").Inc()
		h.logger.Error("login lookup failed", slog.Any("error", err))
		return fiber.NewError(http.StatusInternalServerError, internalErrorMessage)
	}

	observability.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.Status(http.StatusOK).JSON(loginResponse{Message: authenticatedMessage, APIToken: token})
}

// receivedFields echoes the submitted body with the password redacted.
func receivedFields(c *fiber.Ctx) map[string]any {
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
	for k := range received {
		// Body decoding matches field names case-insensitively, so must this.
		if strings.EqualFold(k, "password") {
			received[k] = redacted
		}
	}
	return received
}
