package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oceandive/divemarket/internal/models"
	"gorm.io/gorm"
)

// TokenService mints and resolves opaque bearer tokens. The plaintext is
// returned once at mint time; only its SHA-256 is stored, so a leaked
// table cannot be replayed. Revocation is per token.
type TokenService struct {
	db *gorm.DB
}

func NewTokenService(db *gorm.DB) *TokenService {
	return &TokenService{db: db}
}

// Issue mints one token for the user and returns the plaintext.
func (s *TokenService) Issue(userID uuid.UUID, name string) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.AccessToken{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		TokenHash: HashToken(rawToken),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store access token: %w", err)
	}

	return rawToken, nil
}

// Resolve maps a presented plaintext token to its owner and stored record.
func (s *TokenService) Resolve(rawToken string) (*models.User, *models.AccessToken, error) {
	var token models.AccessToken
	if err := s.db.Where("token_hash = ?", HashToken(rawToken)).First(&token).Error; err != nil {
		return nil, nil, ErrInvalidToken
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", token.UserID).Error; err != nil {
		return nil, nil, ErrInvalidToken
	}

	now := time.Now()
	s.db.Model(&token).Update("last_used_at", now)

	return &user, &token, nil
}

// Revoke deletes exactly one token. Other sessions of the same user keep
// their tokens.
func (s *TokenService) Revoke(tokenID uuid.UUID) error {
	return s.db.Delete(&models.AccessToken{}, "id = ?", tokenID).Error
}

func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
