package dto

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/oceandive/divemarket/internal/models"
)

// Field distinguishes an absent JSON key from an explicit null. Partial
// updates mutate a column whenever the key was submitted, null included.
type Field[T any] struct {
	Set   bool
	Value *T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Value = nil
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

type RegisterRequest struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
	Phone                *string `json:"phone"`

	// Member fields
	Birthday *string `json:"birthday"`
	Gender   *string `json:"gender"`

	// Provider fields
	BusinessName  *string `json:"business_name"`
	Description   *string `json:"description"`
	ContactPerson *string `json:"contact_person"`
	ContactPhone  *string `json:"contact_phone"`
	ContactEmail  *string `json:"contact_email"`
	Address       *string `json:"address"`
	BusinessHours *string `json:"business_hours"`

	// Admin fields
	Position   *string `json:"position"`
	Department *string `json:"department"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name  Field[string] `json:"name"`
	Email Field[string] `json:"email"`
	Phone Field[string] `json:"phone"`

	// Provider fields
	BusinessName  Field[string] `json:"business_name"`
	Description   Field[string] `json:"description"`
	ContactPerson Field[string] `json:"contact_person"`
	ContactPhone  Field[string] `json:"contact_phone"`
	ContactEmail  Field[string] `json:"contact_email"`
	Address       Field[string] `json:"address"`
	BusinessHours Field[string] `json:"business_hours"`

	// Admin fields
	Position   Field[string] `json:"position"`
	Department Field[string] `json:"department"`
}

type ChangePasswordRequest struct {
	CurrentPassword      string `json:"current_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// AuthData is the success payload shared by password and Google login.
type AuthData struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
}

// CheckUserData is the privileged admin lookup payload. The password hash
// is exposed deliberately; this is a debug capability, not a profile read.
type CheckUserData struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"password_hash"`
	CreatedAt    string      `json:"created_at"`
	Profile      interface{} `json:"profile"`
}

// Response is the envelope every endpoint returns.
type Response struct {
	Status  bool                `json:"status"`
	Message string              `json:"message,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func OK(message string, data interface{}) Response {
	return Response{Status: true, Message: message, Data: data}
}

func Fail(message string) Response {
	return Response{Status: false, Message: message}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
