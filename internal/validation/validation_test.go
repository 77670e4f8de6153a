package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	errs := Errors{}
	Required(errs, "name", "  ")
	Required(errs, "email", "a@b.co")

	assert.Contains(t, errs, "name")
	assert.NotContains(t, errs, "email")
}

func TestEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com"}
	invalid := []string{"not-an-email", "a@b", "@example.com", "a b@c.co"}

	for _, v := range valid {
		errs := Errors{}
		Email(errs, "email", v)
		assert.Empty(t, errs, v)
	}
	for _, v := range invalid {
		errs := Errors{}
		Email(errs, "email", v)
		assert.Contains(t, errs, "email", v)
	}
}

func TestEmailSkipsEmpty(t *testing.T) {
	errs := Errors{}
	Email(errs, "email", "")
	assert.Empty(t, errs)
}

func TestMinLen(t *testing.T) {
	errs := Errors{}
	MinLen(errs, "password", "12345", 6)
	assert.Contains(t, errs, "password")

	errs = Errors{}
	MinLen(errs, "password", "123456", 6)
	assert.Empty(t, errs)
}

func TestConfirmed(t *testing.T) {
	errs := Errors{}
	Confirmed(errs, "password", "secret1", "secret2")
	assert.Contains(t, errs, "password")
}

func TestIn(t *testing.T) {
	errs := Errors{}
	In(errs, "gender", "male", "male", "female", "other")
	assert.Empty(t, errs)

	In(errs, "gender", "robot", "male", "female", "other")
	assert.Contains(t, errs, "gender")
}

func TestDate(t *testing.T) {
	errs := Errors{}
	parsed, ok := Date(errs, "birthday", "1990-01-02")
	require.True(t, ok)
	assert.Equal(t, 1990, parsed.Year())
	assert.Empty(t, errs)

	_, ok = Date(errs, "birthday", "02/01/1990")
	assert.False(t, ok)
	assert.Contains(t, errs, "birthday")
}

func TestCollectsAllViolations(t *testing.T) {
	errs := Errors{}
	Required(errs, "name", "")
	Required(errs, "email", "")
	MinLen(errs, "password", "abc", 6)

	assert.Len(t, errs, 3)
	assert.False(t, errs.Empty())
}
