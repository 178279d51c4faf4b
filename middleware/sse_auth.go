package middleware

import (
	"strings"

	"ff-portal/logger"
	"ff-portal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SSEAuthMiddleware validates the `token` query parameter. EventSource
// clients cannot set an Authorization header.
//
// Usage:
//
//	app.Get("/stream", middleware.SSEAuthMiddleware(identity), streamService.StreamUpdates)
func SSEAuthMiddleware(identity services.IdentityProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Query("token"))
		if token == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing token in query",
				"code":  services.CodeInvalidToken,
			})
		}

		sess, err := identity.Validate(c.UserContext(), token)
		if err != nil {
			logger.Info("[SSEAuth] validation failed",
				zap.String("token_prefix", prefix(token)),
				zap.String("remote", c.IP()),
				zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
				"code":  services.CodeInvalidToken,
			})
		}

		attach(c, sess, token)
		logger.Debug("[SSEAuth] authenticated", zap.String("user_id", sess.UserID))
		return c.Next()
	}
}
