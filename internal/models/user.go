package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is fixed at account creation and never changed by profile updates.
type Role string

const (
	RoleMember   Role = "member"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Label returns the capitalized role name used in user-facing messages.
func (r Role) Label() string {
	switch r {
	case RoleMember:
		return "Member"
	case RoleProvider:
		return "Provider"
	case RoleAdmin:
		return "Admin"
	}
	return string(r)
}

// ProfileRelation is the GORM association preloaded for this role.
func (r Role) ProfileRelation() string {
	switch r {
	case RoleProvider:
		return "ProviderProfile"
	case RoleAdmin:
		return "AdminProfile"
	default:
		return "MemberProfile"
	}
}

// User is the shared identity record. Exactly one profile row of the
// variant matching Role exists once registration completes.
type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string     `gorm:"size:255;not null" json:"name"`
	Email           string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password        string     `gorm:"not null" json:"-"`
	Phone           *string    `gorm:"size:20" json:"phone"`
	Role            Role       `gorm:"size:20;not null;index" json:"role"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	MemberProfile   *MemberProfile   `gorm:"foreignKey:UserID" json:"member_profile,omitempty"`
	ProviderProfile *ProviderProfile `gorm:"foreignKey:UserID" json:"provider_profile,omitempty"`
	AdminProfile    *AdminProfile    `gorm:"foreignKey:UserID" json:"admin_profile,omitempty"`
}

// ForRole returns a GORM scope that filters by role.
func ForRole(role Role) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("role = ?", role)
	}
}
