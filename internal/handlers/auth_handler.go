package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/oceandive/divemarket/internal/dto"
	"github.com/oceandive/divemarket/internal/middleware"
	"github.com/oceandive/divemarket/internal/models"
	"github.com/oceandive/divemarket/internal/services"
)

// AuthHandler exposes the credential lifecycle. Handlers are factories
// parameterized by role; the role guard itself runs as middleware.
type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
		}

		data, err := h.auth.Register(role, &req)
		if err != nil {
			return respondError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(
			dto.OK(role.Label()+" registered successfully", data))
	}
}

func (h *AuthHandler) Login(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
		}

		data, err := h.auth.Login(role, &req)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(dto.OK("Login successful", data))
	}
}

// Logout revokes the presenting token only; other sessions stay valid.
func (h *AuthHandler) Logout(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := middleware.CurrentToken(c)
		if err := h.auth.Logout(token.ID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.OK(role.Label()+" logged out successfully", nil))
	}
}

// GenericLogout is the role-agnostic variant available to any principal.
func (h *AuthHandler) GenericLogout(c *fiber.Ctx) error {
	token := middleware.CurrentToken(c)
	if err := h.auth.Logout(token.ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Logged out successfully", nil))
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user := middleware.Principal(c)
	if err := h.auth.WithProfile(user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Response{Status: true, Data: user})
}

func (h *AuthHandler) UpdateProfile(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.UpdateProfileRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
		}

		user, err := h.auth.UpdateProfile(middleware.Principal(c), &req)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(dto.OK(role.Label()+" profile updated", user))
	}
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	if err := h.auth.ChangePassword(middleware.Principal(c), &req); err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.OK("Password changed successfully", nil))
}

// CurrentUser returns the principal with the profile matching its role.
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	user := middleware.Principal(c)
	if err := h.auth.WithProfile(user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Response{Status: true, Data: user})
}

// CheckUser is the admin-only cross-role lookup.
func (h *AuthHandler) CheckUser(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(checkUserMissMessage(role)))
		}

		data, err := h.auth.CheckUser(role, userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(dto.Fail(checkUserMissMessage(role)))
			}
			return respondError(c, err)
		}

		return c.JSON(dto.Response{Status: true, Data: data})
	}
}

func checkUserMissMessage(role models.Role) string {
	return fmt.Sprintf("The specified user does not exist or is not a %s", role)
}

func respondError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.Response{
			Status:  false,
			Message: "Validation failed",
			Errors:  vErr.Fields,
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Invalid email or password"))
	case errors.Is(err, services.ErrCurrentPassword):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Current password is incorrect"))
	case errors.Is(err, services.ErrAccountDisabled):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail("Account has been disabled"))
	case errors.Is(err, services.ErrGoogleMembersOnly):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail("Only members can sign in with Google"))
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("User not found"))
	default:
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error"))
	}
}
