package middleware

import (
	"errors"
	"log"
	"strings"

	"stockroom/internal/adapters/persistence/models"
	"stockroom/internal/core/domain"
	"stockroom/internal/core/services"
	"stockroom/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// userKey is the Locals key holding the resolved *models.User
const userKey = "currentUser"

// RequireAuth resolves the bearer token through the session resolver (ledger
// check included) and stores the user in Locals.
func RequireAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)

		user, err := authService.ResolveToken(c.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUnauthenticated):
				return response.Unauthorized(c, "Access token required")
			case errors.Is(err, domain.ErrInvalidToken):
				return response.Unauthorized(c, "Invalid token")
			default:
				log.Printf("❌ Session resolution failed: %v", err)
				return response.InternalServerError(c, "Failed to authenticate")
			}
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// RequireAdmin allows only admins past. Must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return response.Unauthorized(c, "Access token required")
		}
		if err := services.RequireAdmin(user); err != nil {
			return response.Forbidden(c, "Admin privileges required")
		}
		return c.Next()
	}
}

// RequireApproved allows only admin-approved users past. Must run after
// RequireAuth.
func RequireApproved() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return response.Unauthorized(c, "Access token required")
		}
		if err := services.RequireAdminApproved(user); err != nil {
			return response.Forbidden(c, "User not approved by admin")
		}
		return c.Next()
	}
}

// CurrentUser returns the user resolved by RequireAuth, or nil
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

func extractBearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
