package middleware

import (
	"strings"

	"minilms/backend/config"
	"minilms/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware requires a valid bearer token. On success the decoded
// identity is stored in locals for the handler: "userID" (uint) and
// "role" (string).
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.Unauthorized(c, "Authentication token is missing")
		}

		// Header must be exactly "Bearer <token>".
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return utils.Unauthorized(c, "Invalid token format")
		}

		claims, err := utils.ValidateToken(parts[1], cfg)
		if err != nil {
			return utils.Unauthorized(c, "Invalid or expired token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

// RequireRole rejects authenticated users whose role does not match.
// Must be stacked after AuthMiddleware.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		currentRole, ok := c.Locals("role").(string)
		if !ok {
			return utils.Unauthorized(c, "Authentication required")
		}
		if currentRole != role {
			return utils.Forbidden(c, "Access denied. "+role+" role required")
		}
		return c.Next()
	}
}
