package middleware

import (
	"encoding/base64"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newAuthTestApp(password, token string) *fiber.App {
	app := fiber.New()
	app.Get("/api/admin/events", AdminAuthMiddleware(password, token), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestAdminAuth(t *testing.T) {
	testCases := []struct {
		name       string
		password   string
		token      string
		authHeader string
		tokenValue string
		wantStatus int
	}{
		{"no credentials sent", "secret", "tok", "", "", 401},
		{"valid basic auth", "secret", "", basic("admin", "secret"), "", 200},
		{"wrong basic password", "secret", "", basic("admin", "nope"), "", 401},
		{"wrong basic username", "secret", "", basic("root", "secret"), "", 401},
		{"malformed basic header", "secret", "", "Basic not-base64!!", "", 401},
		{"bearer scheme rejected", "secret", "tok", "Bearer tok", "", 401},
		{"valid token header", "", "tok", "", "tok", 200},
		{"wrong token header", "", "tok", "", "bad", 401},
		{"token works alongside password", "secret", "tok", "", "tok", 200},
		{"basic rejected when only token configured", "", "tok", basic("admin", "tok"), "", 401},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newAuthTestApp(tc.password, tc.token)

			req := httptest.NewRequest("GET", "/api/admin/events", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			if tc.tokenValue != "" {
				req.Header.Set("X-Admin-Token", tc.tokenValue)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("Status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}
		})
	}
}
