package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/oceandive/divemarket/internal/config"
	"github.com/oceandive/divemarket/internal/dto"
	"github.com/oceandive/divemarket/internal/services"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const stateCookie = "oauth_state"

// SocialHandler drives the Google OAuth flow: redirect, code exchange,
// ID-token verification, then account reconciliation in SocialService.
type SocialHandler struct {
	social   *services.SocialService
	verifier *services.GoogleVerifier
	oauth    *oauth2.Config
}

func NewSocialHandler(cfg *config.Config, social *services.SocialService, verifier *services.GoogleVerifier) *SocialHandler {
	return &SocialHandler{
		social:   social,
		verifier: verifier,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Redirect sends the browser to Google's consent screen. offline access
// plus prompt=consent so a refresh token comes back on every grant.
func (h *SocialHandler) Redirect(c *fiber.Ctx) error {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return respondError(c, err)
	}
	state := base64.URLEncoding.EncodeToString(raw)

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		MaxAge:   600,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	url := h.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	return c.Redirect(url, fiber.StatusTemporaryRedirect)
}

// Callback is single-attempt: any unexpected failure surfaces as a 500
// with the underlying message, and the caller may retry the whole
// redirect flow.
func (h *SocialHandler) Callback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(stateCookie) {
		return h.fail(c, errors.New("state mismatch"))
	}

	code := c.Query("code")
	if code == "" {
		return h.fail(c, errors.New("missing authorization code"))
	}

	if h.verifier == nil {
		return h.fail(c, errors.New("google login is not configured"))
	}

	token, err := h.oauth.Exchange(c.UserContext(), code)
	if err != nil {
		return h.fail(c, err)
	}

	rawID, _ := token.Extra("id_token").(string)
	if rawID == "" {
		return h.fail(c, errors.New("no id_token in token response"))
	}

	claims, err := h.verifier.Verify(rawID)
	if err != nil {
		return h.fail(c, err)
	}

	ident := &services.GoogleIdentity{
		ID:           claims.Subject,
		Email:        claims.Email,
		Name:         claims.Name,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		seconds := int64(time.Until(token.Expiry).Seconds())
		ident.ExpiresIn = &seconds
	}

	data, err := h.social.HandleGoogleCallback(ident)
	if err != nil {
		if errors.Is(err, services.ErrGoogleMembersOnly) {
			return respondError(c, err)
		}
		return h.fail(c, err)
	}

	return c.JSON(dto.OK("Google login successful", data))
}

func (h *SocialHandler) fail(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(
		dto.Fail("Google login failed: " + err.Error()))
}
