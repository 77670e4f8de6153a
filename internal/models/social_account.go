package models

import (
	"time"

	"github.com/google/uuid"
)

// SocialAccount links a federated identity to a local user. One external
// identity maps to at most one local user; the (provider, provider_id)
// pair is unique.
type SocialAccount struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Provider      string    `gorm:"size:50;not null;uniqueIndex:idx_social_provider_id" json:"provider"`
	ProviderID    string    `gorm:"size:255;not null;uniqueIndex:idx_social_provider_id" json:"provider_id"`
	ProviderEmail string    `gorm:"size:255" json:"provider_email"`
	AccessToken   string    `gorm:"type:text" json:"-"`
	RefreshToken  *string   `gorm:"type:text" json:"-"`
	ExpiresIn     *int64    `json:"expires_in"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
