package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MemberProfile extends a member-role User.
type MemberProfile struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Birthday         *time.Time `json:"birthday"`
	Gender           *string    `gorm:"size:10" json:"gender"`
	Address          *string    `gorm:"size:255" json:"address"`
	EmergencyContact *string    `gorm:"size:100" json:"emergency_contact"`
	EmergencyPhone   *string    `gorm:"size:20" json:"emergency_phone"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ProviderProfile extends a provider-role User with the dive-business record.
type ProviderProfile struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	BusinessName    string         `gorm:"size:255;not null" json:"business_name"`
	BusinessLicense *string        `gorm:"size:100" json:"business_license"`
	Description     *string        `gorm:"type:text" json:"description"`
	ContactPerson   *string        `gorm:"size:100" json:"contact_person"`
	ContactPhone    *string        `gorm:"size:20" json:"contact_phone"`
	ContactEmail    *string        `gorm:"size:255" json:"contact_email"`
	Address         *string        `gorm:"size:255" json:"address"`
	DiveSites       *string        `gorm:"type:text" json:"dive_sites"`
	Services        *string        `gorm:"type:text" json:"services"`
	Certifications  *string        `gorm:"type:text" json:"certifications"`
	Facilities      *string        `gorm:"type:text" json:"facilities"`
	BusinessHours   *string        `gorm:"size:255" json:"business_hours"`
	IsVerified      bool           `gorm:"default:false" json:"is_verified"`
	Rating          float64        `gorm:"default:0" json:"rating"`
	Website         *string        `gorm:"size:255" json:"website"`
	SocialMedia     datatypes.JSON `gorm:"type:jsonb" json:"social_media"`
	LogoURL         *string        `gorm:"size:255" json:"logo_url"`
	BannerURL       *string        `gorm:"size:255" json:"banner_url"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// AdminProfile extends an admin-role User.
type AdminProfile struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Position    *string        `gorm:"size:100" json:"position"`
	Department  *string        `gorm:"size:100" json:"department"`
	Permissions datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"permissions"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// HasPermission reports whether the permission string is granted.
func (p *AdminProfile) HasPermission(permission string) bool {
	var perms []string
	if err := json.Unmarshal(p.Permissions, &perms); err != nil {
		return false
	}
	for _, granted := range perms {
		if granted == permission {
			return true
		}
	}
	return false
}

// SetPermissions replaces the granted permission set.
func (p *AdminProfile) SetPermissions(perms []string) error {
	b, err := json.Marshal(perms)
	if err != nil {
		return err
	}
	p.Permissions = datatypes.JSON(b)
	return nil
}
