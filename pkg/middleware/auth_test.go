package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"fin-dashboard/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(m *auth.JWTManager) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(m, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalUserID).(string))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Hour, time.Hour)
	app := newTestApp(m)

	access, err := m.GenerateToken("user-42", "bob", "bob@example.com")
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken("user-42")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: fiber.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", status: fiber.StatusUnauthorized},
		{name: "refresh token", header: "Bearer " + refresh, status: fiber.StatusUnauthorized},
		{name: "access token", header: "Bearer " + access, status: fiber.StatusOK},
		{name: "raw access token", header: access, status: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.status == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				require.Equal(t, "user-42", string(body))
			}
		})
	}
}
