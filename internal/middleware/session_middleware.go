package middleware

import (
	"strings"

	"go-resupply-order/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// BearerToken extracts the token from "Authorization: Bearer <token>".
// It returns "" when the header is absent or malformed.
func BearerToken(c *fiber.Ctx) string {
	parts := strings.Fields(c.Get("Authorization"))
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// RequireSession validates the anonymous session token and stores the
// session ID in c.Locals("session_id").
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		tokenString := BearerToken(c)
		if tokenString == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("session_id", claims.SessionID)
		return c.Next()
	}
}
