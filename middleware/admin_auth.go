package middleware

import (
	"crypto/subtle"
	"encoding/base64"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminAuthMiddleware guards the admin CRUD routes. Two credentials are
// accepted: HTTP Basic with username "admin" and the configured password, or
// the configured static token in the X-Admin-Token header. Everything else
// gets a uniform 401.
func AdminAuthMiddleware(adminPassword, adminToken string) fiber.Handler {
	if adminPassword == "" && adminToken == "" {
		log.Fatal("❌ admin credentials not configured: set ADMIN_PASSWORD or ADMIN_TOKEN")
	}

	return func(c *fiber.Ctx) error {
		if adminPassword != "" && checkBasicAuth(c.Get("Authorization"), adminPassword) {
			return c.Next()
		}

		if adminToken != "" {
			token := c.Get("X-Admin-Token")
			if token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) == 1 {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}
}

func checkBasicAuth(header, adminPassword string) bool {
	if !strings.HasPrefix(header, "Basic ") {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
	if err != nil {
		return false
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok || username != "admin" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(adminPassword)) == 1
}
