package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
)

const (
	localUserID = "userID"
	localEmail  = "email"
	localRole   = "role"
)

// AuthMiddleware validates the bearer token and stores the caller in locals.
func AuthMiddleware(jwtService *JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperr.Unauthorized("Missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return apperr.Unauthorized("Invalid authorization header format. Use: Bearer <token>")
		}

		claims, err := jwtService.ValidateAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			return apperr.Unauthorized("Invalid or expired token")
		}

		c.Locals(localUserID, claims.UserID)
		c.Locals(localEmail, claims.Email)
		c.Locals(localRole, claims.Role)
		return c.Next()
	}
}

// RequireRole only lets callers with one of roles through.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(localRole).(string)
		if !ok || role == "" {
			return apperr.Unauthorized("Unauthorized")
		}
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return apperr.Forbidden("Insufficient permissions")
	}
}

// CurrentUser returns the authenticated caller stored by AuthMiddleware.
func CurrentUser(c *fiber.Ctx) (uuid.UUID, string, bool) {
	id, ok := c.Locals(localUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, "", false
	}
	role, _ := c.Locals(localRole).(string)
	return id, role, true
}
