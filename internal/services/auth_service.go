package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oceandive/divemarket/internal/dto"
	"github.com/oceandive/divemarket/internal/models"
	"github.com/oceandive/divemarket/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService implements the credential lifecycle for all three roles.
// The per-role differences live entirely in profileOps; everything else
// is one shared code path parameterized by models.Role.
type AuthService struct {
	db     *gorm.DB
	tokens *TokenService
}

func NewAuthService(db *gorm.DB, tokens *TokenService) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

// profileOps is the per-role strategy: how to validate registration
// fields, create the profile row, and merge partial updates. A nil merge
// means the role has no profile-field update path.
type profileOps struct {
	validate func(req *dto.RegisterRequest, errs validation.Errors)
	create   func(tx *gorm.DB, userID uuid.UUID, req *dto.RegisterRequest) error
	merge    func(db *gorm.DB, userID uuid.UUID, req *dto.UpdateProfileRequest) error
}

var roleProfiles = map[models.Role]profileOps{
	models.RoleMember: {
		validate: func(req *dto.RegisterRequest, errs validation.Errors) {
			validation.In(errs, "gender", deref(req.Gender), "male", "female", "other")
			validation.Date(errs, "birthday", deref(req.Birthday))
		},
		create: func(tx *gorm.DB, userID uuid.UUID, req *dto.RegisterRequest) error {
			profile := models.MemberProfile{
				ID:     uuid.New(),
				UserID: userID,
				Gender: req.Gender,
			}
			if req.Birthday != nil {
				if t, err := time.Parse("2006-01-02", *req.Birthday); err == nil {
					profile.Birthday = &t
				}
			}
			return tx.Create(&profile).Error
		},
		// Members update only shared user fields; there is no
		// member profile-field path on this endpoint.
		merge: nil,
	},
	models.RoleProvider: {
		validate: func(req *dto.RegisterRequest, errs validation.Errors) {
			validation.Required(errs, "business_name", deref(req.BusinessName))
			validation.MaxLen(errs, "business_name", deref(req.BusinessName), 255)
			validation.Email(errs, "contact_email", deref(req.ContactEmail))
		},
		create: func(tx *gorm.DB, userID uuid.UUID, req *dto.RegisterRequest) error {
			profile := models.ProviderProfile{
				ID:            uuid.New(),
				UserID:        userID,
				BusinessName:  deref(req.BusinessName),
				Description:   req.Description,
				ContactPerson: req.ContactPerson,
				ContactPhone:  req.ContactPhone,
				ContactEmail:  req.ContactEmail,
				Address:       req.Address,
				BusinessHours: req.BusinessHours,
				IsActive:      true,
			}
			return tx.Create(&profile).Error
		},
		merge: func(db *gorm.DB, userID uuid.UUID, req *dto.UpdateProfileRequest) error {
			updates := map[string]interface{}{}
			applyField(updates, "business_name", req.BusinessName)
			applyField(updates, "description", req.Description)
			applyField(updates, "contact_person", req.ContactPerson)
			applyField(updates, "contact_phone", req.ContactPhone)
			applyField(updates, "contact_email", req.ContactEmail)
			applyField(updates, "address", req.Address)
			applyField(updates, "business_hours", req.BusinessHours)
			if len(updates) == 0 {
				return nil
			}
			return db.Model(&models.ProviderProfile{}).
				Where("user_id = ?", userID).
				Updates(updates).Error
		},
	},
	models.RoleAdmin: {
		validate: func(req *dto.RegisterRequest, errs validation.Errors) {
			validation.MaxLen(errs, "position", deref(req.Position), 100)
			validation.MaxLen(errs, "department", deref(req.Department), 100)
		},
		create: func(tx *gorm.DB, userID uuid.UUID, req *dto.RegisterRequest) error {
			profile := models.AdminProfile{
				ID:         uuid.New(),
				UserID:     userID,
				Position:   req.Position,
				Department: req.Department,
			}
			return tx.Create(&profile).Error
		},
		merge: func(db *gorm.DB, userID uuid.UUID, req *dto.UpdateProfileRequest) error {
			updates := map[string]interface{}{}
			applyField(updates, "position", req.Position)
			applyField(updates, "department", req.Department)
			if len(updates) == 0 {
				return nil
			}
			return db.Model(&models.AdminProfile{}).
				Where("user_id = ?", userID).
				Updates(updates).Error
		},
	},
}

// Register creates a User with the role forced to the endpoint's role, the
// matching profile row, and one access token. All field violations are
// reported together.
func (s *AuthService) Register(role models.Role, req *dto.RegisterRequest) (*dto.AuthData, error) {
	ops := roleProfiles[role]
	errs := validation.Errors{}

	validation.Required(errs, "name", req.Name)
	validation.MaxLen(errs, "name", req.Name, 255)
	validation.Required(errs, "email", req.Email)
	validation.Email(errs, "email", req.Email)
	validation.MaxLen(errs, "email", req.Email, 255)
	validation.Required(errs, "password", req.Password)
	validation.MinLen(errs, "password", req.Password, 6)
	validation.Confirmed(errs, "password", req.Password, req.PasswordConfirmation)
	if req.Phone != nil {
		validation.MaxLen(errs, "phone", *req.Phone, 20)
	}
	ops.validate(req, errs)

	// Courtesy check; the unique index on users.email is the final
	// arbiter for concurrent registrations.
	if req.Email != "" {
		var count int64
		s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
		if count > 0 {
			validation.Taken(errs, "email")
		}
	}

	if !errs.Empty() {
		return nil, &ValidationError{Fields: errs}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Phone:    req.Phone,
		Role:     role,
		IsActive: true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if err := ops.create(tx, user.ID, req); err != nil {
			return fmt.Errorf("failed to create %s profile: %w", role, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.authData(&user, "auth_token")
}

// Login authenticates a (email, role) pair. A wrong-role login fails
// identically to an unknown email, and the disabled check runs only after
// the password verified.
func (s *AuthService) Login(role models.Role, req *dto.LoginRequest) (*dto.AuthData, error) {
	errs := validation.Errors{}
	validation.Required(errs, "email", req.Email)
	validation.Email(errs, "email", req.Email)
	validation.Required(errs, "password", req.Password)
	if !errs.Empty() {
		return nil, &ValidationError{Fields: errs}
	}

	var user models.User
	if err := s.db.Scopes(models.ForRole(role)).Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.authData(&user, "auth_token")
}

// Logout revokes exactly the presenting token.
func (s *AuthService) Logout(tokenID uuid.UUID) error {
	return s.tokens.Revoke(tokenID)
}

// WithProfile attaches the profile relation matching the user's role.
func (s *AuthService) WithProfile(user *models.User) error {
	return s.db.Preload(user.Role.ProfileRelation()).First(user, "id = ?", user.ID).Error
}

// UpdateProfile applies a partial update. Only submitted fields mutate:
// shared fields on the User row, role fields on the profile row when the
// role has a profile-field path.
func (s *AuthService) UpdateProfile(user *models.User, req *dto.UpdateProfileRequest) (*models.User, error) {
	errs := validation.Errors{}
	if req.Name.Set && req.Name.Value != nil {
		validation.MaxLen(errs, "name", *req.Name.Value, 255)
	}
	if req.Email.Set && req.Email.Value != nil {
		validation.Email(errs, "email", *req.Email.Value)
		validation.MaxLen(errs, "email", *req.Email.Value, 255)

		var count int64
		s.db.Model(&models.User{}).
			Where("email = ? AND id <> ?", *req.Email.Value, user.ID).
			Count(&count)
		if count > 0 {
			validation.Taken(errs, "email")
		}
	}
	if req.Phone.Set && req.Phone.Value != nil {
		validation.MaxLen(errs, "phone", *req.Phone.Value, 20)
	}
	if !errs.Empty() {
		return nil, &ValidationError{Fields: errs}
	}

	updates := map[string]interface{}{}
	applyField(updates, "name", req.Name)
	applyField(updates, "email", req.Email)
	applyField(updates, "phone", req.Phone)
	if len(updates) > 0 {
		if err := s.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	if ops := roleProfiles[user.Role]; ops.merge != nil {
		if err := ops.merge(s.db, user.ID, req); err != nil {
			return nil, fmt.Errorf("failed to update %s profile: %w", user.Role, err)
		}
	}

	var fresh models.User
	if err := s.db.Preload(user.Role.ProfileRelation()).First(&fresh, "id = ?", user.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return &fresh, nil
}

// ChangePassword verifies the current password before anything persists.
// Existing tokens stay valid; other sessions are not logged out.
func (s *AuthService) ChangePassword(user *models.User, req *dto.ChangePasswordRequest) error {
	errs := validation.Errors{}
	validation.Required(errs, "current_password", req.CurrentPassword)
	validation.Required(errs, "password", req.Password)
	validation.MinLen(errs, "password", req.Password, 6)
	validation.Confirmed(errs, "password", req.Password, req.PasswordConfirmation)
	if !errs.Empty() {
		return &ValidationError{Fields: errs}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrCurrentPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("password", string(hash)).Error
}

// CheckUser is the privileged admin lookup of a member or provider by id.
func (s *AuthService) CheckUser(role models.Role, userID uuid.UUID) (*dto.CheckUserData, error) {
	var user models.User
	err := s.db.Scopes(models.ForRole(role)).
		Preload(role.ProfileRelation()).
		First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	var profile interface{}
	switch role {
	case models.RoleProvider:
		profile = user.ProviderProfile
	default:
		profile = user.MemberProfile
	}

	return &dto.CheckUserData{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.Password,
		CreatedAt:    user.CreatedAt.Format("2006-01-02 15:04:05"),
		Profile:      profile,
	}, nil
}

func (s *AuthService) authData(user *models.User, tokenName string) (*dto.AuthData, error) {
	token, err := s.tokens.Issue(user.ID, tokenName)
	if err != nil {
		return nil, err
	}

	if err := s.WithProfile(user); err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return &dto.AuthData{
		User:      user,
		Token:     token,
		TokenType: "Bearer",
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// applyField includes a column in the update set whenever the JSON key
// was submitted, explicit null included.
func applyField(updates map[string]interface{}, column string, f dto.Field[string]) {
	if !f.Set {
		return
	}
	if f.Value == nil {
		updates[column] = nil
		return
	}
	updates[column] = *f.Value
}
