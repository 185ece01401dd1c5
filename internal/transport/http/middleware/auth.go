package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taskboard/backend/internal/core/ports"
)

// PrincipalKey is the fiber locals key carrying the authenticated username.
const PrincipalKey = "principal"

func UserAuth(auth ports.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		principal, err := auth.ValidateToken(header[len(prefix):])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		c.Locals(PrincipalKey, principal)
		return c.Next()
	}
}

// Principal returns the authenticated username for the request, or "" when
// the route is unauthenticated.
func Principal(c *fiber.Ctx) string {
	principal, _ := c.Locals(PrincipalKey).(string)
	return principal
}
