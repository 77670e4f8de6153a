package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/oceandive/divemarket/internal/dto"
	"github.com/oceandive/divemarket/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const googleProvider = "google"

// GoogleIdentity is the external identity resolved from the OAuth
// callback: verified ID-token claims plus the token exchange results.
type GoogleIdentity struct {
	ID           string
	Email        string
	Name         string
	AccessToken  string
	RefreshToken string
	ExpiresIn    *int64
}

// SocialService reconciles Google identities with local accounts. Only
// members may use this login method.
type SocialService struct {
	db     *gorm.DB
	tokens *TokenService
}

func NewSocialService(db *gorm.DB, tokens *TokenService) *SocialService {
	return &SocialService{db: db, tokens: tokens}
}

// HandleGoogleCallback resolves the identity to a local user, creating
// the user and the social link when needed, then mints a bearer token
// through the same issuer as password login.
func (s *SocialService) HandleGoogleCallback(ident *GoogleIdentity) (*dto.AuthData, error) {
	var user models.User

	var account models.SocialAccount
	err := s.db.Where("provider = ? AND provider_id = ?", googleProvider, ident.ID).
		First(&account).Error
	switch {
	case err == nil:
		// Known external identity; resolve its owner.
		if err := s.db.First(&user, "id = ?", account.UserID).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve linked user: %w", err)
		}
		if user.Role != models.RoleMember {
			return nil, ErrGoogleMembersOnly
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.resolveOrCreateMember(ident, &user); err != nil {
			return nil, err
		}
		if err := s.linkAccount(ident, user.ID); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("failed to look up social account: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, "google-auth")
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("MemberProfile").First(&user, "id = ?", user.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return &dto.AuthData{
		User:      &user,
		Token:     token,
		TokenType: "Bearer",
	}, nil
}

// resolveOrCreateMember links by email when a password account already
// exists, otherwise creates a new member with an unusable password.
func (s *SocialService) resolveOrCreateMember(ident *GoogleIdentity, user *models.User) error {
	err := s.db.Where("email = ?", ident.Email).First(user).Error
	switch {
	case err == nil:
		if user.Role != models.RoleMember {
			return ErrGoogleMembersOnly
		}
		return nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, err := unusablePassword()
		if err != nil {
			return err
		}
		*user = models.User{
			ID:       uuid.New(),
			Name:     ident.Name,
			Email:    ident.Email,
			Password: hash,
			Role:     models.RoleMember,
			IsActive: true,
		}
		if err := s.db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		// Profile creation failure is logged and swallowed: the user
		// exists without a profile, which is recoverable, and token
		// issuance must not be blocked.
		profile := models.MemberProfile{ID: uuid.New(), UserID: user.ID}
		if err := s.db.Create(&profile).Error; err != nil {
			slog.Error("failed to create member profile during Google signup",
				"error", err, "user_id", user.ID.String())
		}
		return nil

	default:
		return fmt.Errorf("failed to look up user by email: %w", err)
	}
}

func (s *SocialService) linkAccount(ident *GoogleIdentity, userID uuid.UUID) error {
	account := models.SocialAccount{
		ID:            uuid.New(),
		UserID:        userID,
		Provider:      googleProvider,
		ProviderID:    ident.ID,
		ProviderEmail: ident.Email,
		AccessToken:   ident.AccessToken,
		ExpiresIn:     ident.ExpiresIn,
	}
	// Persist the refresh token only when the provider sent one.
	if ident.RefreshToken != "" {
		rt := ident.RefreshToken
		account.RefreshToken = &rt
	}

	if err := s.db.Create(&account).Error; err != nil {
		return fmt.Errorf("failed to link Google account: %w", err)
	}
	return nil
}

// unusablePassword hashes random bytes so the account has no
// password-login path.
func unusablePassword() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(base64.URLEncoding.EncodeToString(raw)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
