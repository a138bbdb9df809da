package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/swiftcart/authgate/internal/auth"
	"github.com/swiftcart/authgate/internal/config"
	"github.com/swiftcart/authgate/internal/identity"
	"github.com/swiftcart/authgate/pkg/authapi"
)

// Locals keys set by BearerAuth for downstream handlers.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// BearerAuth validates the bearer token on protected routes and loads the
// authenticated user. Rejections carry the session_expired wire code so
// clients can distinguish an expired credential from other failures.
func BearerAuth(cfg config.Config, repo identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return sessionExpired(c, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		claims, err := auth.ParseAndVerifyHS256(tokenStr, []byte(cfg.JWTSecret))
		if err != nil {
			return sessionExpired(c, "invalid or expired token")
		}
		sub, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)

		user, err := repo.FindByID(c.UserContext(), sub)
		if err != nil {
			return sessionExpired(c, "invalid or expired token")
		}
		if role != user.Role {
			// Stale role claim; force a fresh login rather than trusting either side.
			return sessionExpired(c, "invalid or expired token")
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalRole, user.Role)
		return c.Next()
	}
}

// RequireRole gates a route group to a single role. Client-side redirects by
// role are convenience only; this is the actual enforcement point.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if got, _ := c.Locals(LocalRole).(string); got != role {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

func sessionExpired(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusUnauthorized).JSON(authapi.ErrorBody{Error: authapi.ErrorDetail{
		Code:    authapi.CodeSessionExpired,
		Message: message,
	}})
}
