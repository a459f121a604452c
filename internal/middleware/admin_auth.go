package middleware

import (
	"crypto/subtle"
	"log"

	"github.com/gofiber/fiber/v2"
)

// RequireAdminKey guards the admin CRUD routes with a shared API key.
// An empty configured key disables the check (local development).
func RequireAdminKey(apiKey string) fiber.Handler {
	if apiKey == "" {
		log.Println("ADMIN_API_KEY not set - admin routes are unprotected")
	}

	return func(c *fiber.Ctx) error {
		if apiKey == "" {
			return c.Next()
		}

		provided := c.Get("X-Admin-Key")
		if provided == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Missing admin key",
			})
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid admin key",
			})
		}

		return c.Next()
	}
}
