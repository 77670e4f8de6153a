package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/oceandive/divemarket/internal/config"
	"github.com/oceandive/divemarket/internal/handlers"
	"github.com/oceandive/divemarket/internal/models"
	"github.com/oceandive/divemarket/internal/routes"
	"github.com/oceandive/divemarket/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestApp wires the full route table against an in-memory database.
// Each test gets its own app so the per-IP rate limiters start fresh.
func newTestApp(t *testing.T) *fiber.App {
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

	tokens := services.NewTokenService(db)
	auth := services.NewAuthService(db, tokens)
	social := services.NewSocialService(db, tokens)

	app := fiber.New()
	routes.Setup(app, tokens,
		handlers.NewAuthHandler(auth),
		handlers.NewSocialHandler(&config.Config{}, social, nil),
		handlers.NewHealthHandler(),
	)
	return app
}

func request(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func registerBody(email string) map[string]any {
	return map[string]any{
		"name":                  "A",
		"email":                 email,
		"password":              "secret1",
		"password_confirmation": "secret1",
		"business_name":         "Blue Reef Diving",
	}
}

// registerToken signs up a user through the API and returns the bearer
// token from the response.
func registerToken(t *testing.T, app *fiber.App, role, email string) string {
	t.Helper()
	code, body := request(t, app, http.MethodPost, "/api/"+role+"/register", "", registerBody(email))
	require.Equal(t, http.StatusCreated, code, "register response: %v", body)
	data := body["data"].(map[string]any)
	return data["token"].(string)
}

func TestRegisterEndpoint(t *testing.T) {
	app := newTestApp(t)

	code, body := request(t, app, http.MethodPost, "/api/member/register", "", registerBody("m@x.com"))
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, "Member registered successfully", body["message"])

	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "Bearer", data["token_type"])

	user := data["user"].(map[string]any)
	assert.Equal(t, "member", user["role"])
	// The hash is never serialized.
	assert.NotContains(t, user, "password")
}

func TestRegisterEndpointCollectsErrors(t *testing.T) {
	app := newTestApp(t)

	code, body := request(t, app, http.MethodPost, "/api/provider/register", "", map[string]any{
		"email":                 "not-an-email",
		"password":              "secret1",
		"password_confirmation": "secret1",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, false, body["status"])
	assert.Equal(t, "Validation failed", body["message"])

	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "business_name")
}

func TestLoginEndpointWrongPassword(t *testing.T) {
	app := newTestApp(t)
	registerToken(t, app, "member", "m@x.com")

	code, body := request(t, app, http.MethodPost, "/api/member/login", "", map[string]any{
		"email":    "m@x.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid email or password", body["message"])
}

// A valid token for the wrong role gets the same opaque refusal as any
// other forbidden access.
func TestRoleGuardUniformMessage(t *testing.T) {
	app := newTestApp(t)
	token := registerToken(t, app, "member", "m@x.com")

	code, body := request(t, app, http.MethodGet, "/api/provider/profile", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, false, body["status"])
	assert.Equal(t, "Access denied", body["message"])

	code, body = request(t, app, http.MethodGet, "/api/admin/check-member/"+"00000000-0000-0000-0000-000000000000", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Access denied", body["message"])
}

func TestMissingTokenUnauthorized(t *testing.T) {
	app := newTestApp(t)

	code, body := request(t, app, http.MethodGet, "/api/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, false, body["status"])

	code, _ = request(t, app, http.MethodGet, "/api/user", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLogoutRevokesPresentingToken(t *testing.T) {
	app := newTestApp(t)
	token := registerToken(t, app, "member", "m@x.com")

	code, body := request(t, app, http.MethodPost, "/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Logged out successfully", body["message"])

	code, _ = request(t, app, http.MethodGet, "/api/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminCheckEndpoints(t *testing.T) {
	app := newTestApp(t)
	adminToken := registerToken(t, app, "admin", "a@x.com")
	providerToken := registerToken(t, app, "provider", "p@x.com")

	// Resolve the provider's id via the generic user endpoint.
	code, body := request(t, app, http.MethodGet, "/api/user", providerToken, nil)
	require.Equal(t, http.StatusOK, code)
	providerID := body["data"].(map[string]any)["id"].(string)

	code, body = request(t, app, http.MethodGet, "/api/admin/check-provider/"+providerID, adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "p@x.com", data["email"])
	assert.NotEmpty(t, data["password_hash"])
	profile := data["profile"].(map[string]any)
	assert.Equal(t, "Blue Reef Diving", profile["business_name"])

	// Same id through the member lookup misses: role mismatch reads as
	// not found.
	code, body = request(t, app, http.MethodGet, "/api/admin/check-member/"+providerID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "The specified user does not exist or is not a member", body["message"])

	// Malformed ids miss the same way.
	code, _ = request(t, app, http.MethodGet, "/api/admin/check-member/not-a-uuid", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpdateProfileNullClearsField(t *testing.T) {
	app := newTestApp(t)
	token := registerToken(t, app, "member", "m@x.com")

	code, body := request(t, app, http.MethodPut, "/api/member/profile", token, map[string]any{
		"phone": "555-0101",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Member profile updated", body["message"])
	user := body["data"].(map[string]any)
	assert.Equal(t, "555-0101", user["phone"])

	// Explicit null clears the column; an absent key leaves it alone.
	code, body = request(t, app, http.MethodPut, "/api/member/profile", token, map[string]any{
		"phone": nil,
		"name":  "Renamed",
	})
	require.Equal(t, http.StatusOK, code)
	user = body["data"].(map[string]any)
	assert.Nil(t, user["phone"])
	assert.Equal(t, "Renamed", user["name"])
}

func TestChangePasswordEndpoint(t *testing.T) {
	app := newTestApp(t)
	token := registerToken(t, app, "member", "m@x.com")

	code, body := request(t, app, http.MethodPut, "/api/member/change-password", token, map[string]any{
		"current_password":      "wrong",
		"password":              "newsecret",
		"password_confirmation": "newsecret",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Current password is incorrect", body["message"])

	code, body = request(t, app, http.MethodPut, "/api/member/change-password", token, map[string]any{
		"current_password":      "secret1",
		"password":              "newsecret",
		"password_confirmation": "newsecret",
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Password changed successfully", body["message"])

	code, _ = request(t, app, http.MethodPost, "/api/member/login", "", map[string]any{
		"email":    "m@x.com",
		"password": "newsecret",
	})
	assert.Equal(t, http.StatusOK, code)
}
