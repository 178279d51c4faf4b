package middleware

import (
	"strings"

	"ff-portal/logger"
	"ff-portal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionMiddleware validates the Bearer session token with the identity
// provider and attaches the user id and role claims for handlers.
func SessionMiddleware(identity services.IdentityProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if authHeader == "" || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing session token",
				"code":  services.CodeInvalidToken,
			})
		}

		sess, err := identity.Validate(c.UserContext(), token)
		if err != nil {
			logger.Debug("[SESSION] rejected token",
				zap.String("path", c.Path()),
				zap.String("token_prefix", prefix(token)),
				zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired session",
				"code":  services.CodeInvalidToken,
			})
		}

		attach(c, sess, token)
		return c.Next()
	}
}

// AdminOnly admits sessions whose role claims include admin.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !services.ViewerFrom(c).IsAdmin() {
			logger.Warn("[SESSION] admin route denied",
				zap.String("path", c.Path()),
				zap.Any("user_id", c.Locals("user_id")))
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "administrator role required",
				"code":  "forbidden",
			})
		}
		return c.Next()
	}
}

func attach(c *fiber.Ctx, sess *services.Session, token string) {
	c.Locals("user_id", sess.UserID)
	c.Locals("user_roles", sess.Roles)
	c.Locals("session_token", token)
}

func prefix(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	return token
}
