package middleware

import (
	"strings"

	"skool-lms/internal/config"
	"skool-lms/internal/pkg/jwt"
	"skool-lms/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the access token and stores the caller's
// identity in the request locals. The token is read from the
// Authorization header first, then from the access_token cookie so that
// browser clients keep working without an interceptor.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.Validate(tokenString, config.AppConfig.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("isAdmin", claims.IsAdmin)

		return c.Next()
	}
}

// AdminOnly rejects requests whose token does not carry the admin flag.
// Must run after AuthMiddleware.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, ok := c.Locals("isAdmin").(bool)
		if !ok || !isAdmin {
			return response.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	return c.Cookies("access_token")
}
