package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/oceandive/divemarket/internal/dto"
	"github.com/oceandive/divemarket/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestSocial(t *testing.T) (*SocialService, *AuthService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	tokens := NewTokenService(db)
	return NewSocialService(db, tokens), NewAuthService(db, tokens), db
}

func googleIdentity() *GoogleIdentity {
	return &GoogleIdentity{
		ID:          "google-sub-123",
		Email:       "g@x.com",
		Name:        "G User",
		AccessToken: "ya29.token",
	}
}

func TestCallbackCreatesMemberAndLink(t *testing.T) {
	social, _, db := newTestSocial(t)

	data, err := social.HandleGoogleCallback(googleIdentity())
	require.NoError(t, err)

	assert.Equal(t, models.RoleMember, data.User.Role)
	assert.True(t, data.User.IsActive)
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "Bearer", data.TokenType)
	require.NotNil(t, data.User.MemberProfile)

	var account models.SocialAccount
	require.NoError(t, db.Where("provider = ? AND provider_id = ?", "google", "google-sub-123").First(&account).Error)
	assert.Equal(t, data.User.ID, account.UserID)
	assert.Equal(t, "g@x.com", account.ProviderEmail)
	assert.Nil(t, account.RefreshToken)
}

// Two callbacks for the same external identity resolve to one local
// user and one link row; only the tokens multiply.
func TestCallbackIsIdempotent(t *testing.T) {
	social, _, db := newTestSocial(t)

	first, err := social.HandleGoogleCallback(googleIdentity())
	require.NoError(t, err)
	second, err := social.HandleGoogleCallback(googleIdentity())
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.NotEqual(t, first.Token, second.Token)

	var users, accounts int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.SocialAccount{}).Count(&accounts)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, 1, accounts)
}

// Profile creation failing during Google signup does not block the
// account or the token. The error is logged and the user simply has no
// profile row until repaired.
func TestCallbackToleratesProfileCreateFailure(t *testing.T) {
	social, _, db := newTestSocial(t)
	require.NoError(t, db.Exec(`CREATE TRIGGER block_profile_insert
		BEFORE INSERT ON member_profiles
		BEGIN SELECT RAISE(ABORT, 'profile insert blocked'); END`).Error)

	data, err := social.HandleGoogleCallback(googleIdentity())
	require.NoError(t, err)
	assert.NotEmpty(t, data.Token)
	assert.Nil(t, data.User.MemberProfile)

	var users, accounts, profiles int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.SocialAccount{}).Count(&accounts)
	db.Model(&models.MemberProfile{}).Count(&profiles)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, 1, accounts)
	assert.Zero(t, profiles)
}

func TestCallbackLinksExistingMemberByEmail(t *testing.T) {
	social, auth, db := newTestSocial(t)
	existing := seedUser(t, auth, models.RoleMember, "g@x.com")

	data, err := social.HandleGoogleCallback(googleIdentity())
	require.NoError(t, err)
	assert.Equal(t, existing.ID, data.User.ID)

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 1, users)
}

func TestCallbackRejectsNonMemberAccount(t *testing.T) {
	social, auth, db := newTestSocial(t)
	seedUser(t, auth, models.RoleProvider, "g@x.com")

	_, err := social.HandleGoogleCallback(googleIdentity())
	assert.ErrorIs(t, err, ErrGoogleMembersOnly)

	// No new user, no link row.
	var users, accounts int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.SocialAccount{}).Count(&accounts)
	assert.EqualValues(t, 1, users)
	assert.Zero(t, accounts)
}

func TestCallbackRejectsNonMemberLinkedAccount(t *testing.T) {
	social, auth, db := newTestSocial(t)
	provider := seedUser(t, auth, models.RoleProvider, "p@x.com")

	// A link row pointing at a non-member account (e.g. the account's
	// role changed out of band) is refused on the fast path too.
	require.NoError(t, db.Create(&models.SocialAccount{
		ID:         uuid.New(),
		UserID:     provider.ID,
		Provider:   "google",
		ProviderID: "google-sub-123",
	}).Error)

	_, err := social.HandleGoogleCallback(googleIdentity())
	assert.ErrorIs(t, err, ErrGoogleMembersOnly)
}

func TestCallbackStoresRefreshTokenWhenPresent(t *testing.T) {
	social, _, db := newTestSocial(t)

	ident := googleIdentity()
	ident.RefreshToken = "1//refresh"
	expires := int64(3599)
	ident.ExpiresIn = &expires

	_, err := social.HandleGoogleCallback(ident)
	require.NoError(t, err)

	var account models.SocialAccount
	require.NoError(t, db.First(&account, "provider_id = ?", ident.ID).Error)
	require.NotNil(t, account.RefreshToken)
	assert.Equal(t, "1//refresh", *account.RefreshToken)
	require.NotNil(t, account.ExpiresIn)
	assert.EqualValues(t, 3599, *account.ExpiresIn)
}

// The social accounts created without a password must not be able to
// log in through the password path with an empty or guessed password.
func TestSocialAccountHasNoPasswordLogin(t *testing.T) {
	social, auth, _ := newTestSocial(t)

	data, err := social.HandleGoogleCallback(googleIdentity())
	require.NoError(t, err)

	_, err = auth.Login(models.RoleMember, &dto.LoginRequest{Email: data.User.Email, Password: ""})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = auth.Login(models.RoleMember, &dto.LoginRequest{Email: data.User.Email, Password: "password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
