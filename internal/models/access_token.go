package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessToken is the stored side of an opaque bearer credential. Only the
// SHA-256 of the plaintext is persisted. Revocation deletes the row and
// affects that token alone; a user may hold several at once.
type AccessToken struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name       string     `gorm:"size:100;not null" json:"name"`
	TokenHash  string     `gorm:"uniqueIndex;not null;size:64" json:"-"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
