package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/oceandive/divemarket/internal/dto"
	"github.com/oceandive/divemarket/internal/models"
	"github.com/oceandive/divemarket/internal/services"
)

const (
	principalKey = "principal"
	tokenKey     = "access_token"
)

// TokenProtected resolves the bearer token to a principal before any
// handler runs. No handler reads an ambient auth context; the principal
// travels through request locals.
func TokenProtected(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(
				dto.Fail("Unauthorized: invalid or expired token"))
		}

		user, token, err := tokens.Resolve(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(
				dto.Fail("Unauthorized: invalid or expired token"))
		}

		c.Locals(principalKey, user)
		c.Locals(tokenKey, token)
		return c.Next()
	}
}

// Principal returns the authenticated user set by TokenProtected.
func Principal(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(principalKey).(*models.User)
	return user
}

// CurrentToken returns the token record that authenticated this request.
func CurrentToken(c *fiber.Ctx) *models.AccessToken {
	token, _ := c.Locals(tokenKey).(*models.AccessToken)
	return token
}
