package services

import (
	"errors"

	"github.com/oceandive/divemarket/internal/validation"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// including an email registered under a different role. Callers must
	// not be able to tell the causes apart.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account has been disabled")
	ErrCurrentPassword    = errors.New("current password is incorrect")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrGoogleMembersOnly  = errors.New("only members can sign in with Google")
)

// ValidationError carries every field violation collected for a request.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string { return "validation failed" }
