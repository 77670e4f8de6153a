package services

import (
	"fmt"
	"testing"

	"github.com/oceandive/divemarket/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory store per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.MemberProfile{},
		&models.ProviderProfile{},
		&models.AdminProfile{},
		&models.SocialAccount{},
		&models.AccessToken{},
	))
	return db
}

func newTestAuth(t *testing.T) (*AuthService, *TokenService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	tokens := NewTokenService(db)
	return NewAuthService(db, tokens), tokens, db
}

func strptr(s string) *string { return &s }
