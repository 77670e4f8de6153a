package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oceandive/divemarket/internal/dto"
	"github.com/oceandive/divemarket/internal/models"
)

// RoleRequired rejects principals whose role differs from the endpoint's
// role. The response is identical for every mismatch so a caller never
// learns which role was expected.
func RoleRequired(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := Principal(c)
		if user == nil || user.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail("Access denied"))
		}
		return c.Next()
	}
}
