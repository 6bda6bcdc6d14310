package middleware

import (
	"strings"

	"fin-dashboard/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	LocalUserID   = "userID"
	LocalUsername = "username"
	LocalEmail    = "email"
)

// AuthMiddleware validates the bearer access token and stores its owner in Locals.
func AuthMiddleware(jwtManager *auth.JWTManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			logger.Warn("Missing authorization token", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization token required",
			})
		}
		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			logger.Warn("Invalid token", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalEmail, claims.Email)

		return c.Next()
	}
}
