package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/coursegate/coursegate/internal/account"
	"github.com/coursegate/coursegate/internal/apierror"
	"github.com/coursegate/coursegate/internal/auth"
	"github.com/coursegate/coursegate/internal/observability"
)

// UnauthorizedMessage is the body of every gate rejection, whatever the reason.
const UnauthorizedMessage = "You are not authorized to access this route."

// IsAllowListed reports whether path bypasses the bearer check: the root path
// (empty first segment) and anything whose first segment is "auth" in any case.
func IsAllowListed(path string) bool {
	segments := strings.SplitN(path, "/", 3)
	first := ""
	if len(segments) > 1 {
		first = segments[1]
	}
	return first == "" || strings.EqualFold(first, "auth")
}

// BearerGate admits a request only when its bearer token belongs to an account.
// It must run before any route handler; it attaches nothing to the request.
func BearerGate(store account.Store, logger *slog.Logger) fiber.Handler {
	deny := func(c *fiber.Ctx, reason string) error {
		observability.GateDecisionsTotal.WithLabelValues(observability.DecisionDenied, reason).Inc()
		logger.Warn("bearer gate denied request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("reason", reason),
			slog.String("ip", c.IP()),
		)
		return fiber.NewError(http.StatusUnauthorized, UnauthorizedMessage)
	}

	return func(c *fiber.Ctx) error {
		if IsAllowListed(c.Path()) {
			observability.GateDecisionsTotal.WithLabelValues(observability.DecisionAllowed, "allow_list").Inc()
			return c.Next()
		}

		authz := auth.ParseAuthorization(c.Get(fiber.HeaderAuthorization))
		if authz.Kind != auth.Token {
			return deny(c, authz.Kind.String())
		}

		if _, err := store.FindByToken(c.UserContext(), authz.Token); err != nil {
			if errors.Is(err, account.ErrNotFound) {
				return deny(c, "unknown_token")
			}
			observability.GateDecisionsTotal.WithLabelValues(observability.DecisionError, "store_error").Inc()
			logger.Error("bearer gate lookup failed", slog.String("path", c.Path()), slog.Any("error", err))
			return fiber.NewError(http.StatusInternalServerError, apierror.InternalMessage)
		}

		observability.GateDecisionsTotal.WithLabelValues(observability.DecisionAllowed, "token").Inc()
		return c.Next()
	}
}
