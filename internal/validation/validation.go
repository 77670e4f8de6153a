// Package validation provides collecting field validators. Every rule
// appends to the same Errors map so a response reports all violations
// together instead of failing on the first.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Errors maps a field name to the messages recorded against it.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Empty() bool { return len(e) == 0 }

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func Required(e Errors, field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, fmt.Sprintf("The %s field is required.", field))
	}
}

func MaxLen(e Errors, field, value string, max int) {
	if len(value) > max {
		e.Add(field, fmt.Sprintf("The %s may not be greater than %d characters.", field, max))
	}
}

func MinLen(e Errors, field, value string, min int) {
	if value != "" && len(value) < min {
		e.Add(field, fmt.Sprintf("The %s must be at least %d characters.", field, min))
	}
}

func Email(e Errors, field, value string) {
	if value != "" && !emailPattern.MatchString(value) {
		e.Add(field, fmt.Sprintf("The %s must be a valid email address.", field))
	}
}

// Confirmed checks that the confirmation field repeats the value.
func Confirmed(e Errors, field, value, confirmation string) {
	if value != confirmation {
		e.Add(field, fmt.Sprintf("The %s confirmation does not match.", field))
	}
}

// In checks membership in a closed value set. Empty values pass; pair
// with Required when the field is mandatory.
func In(e Errors, field, value string, allowed ...string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	e.Add(field, fmt.Sprintf("The selected %s is invalid.", field))
}

// Date checks a YYYY-MM-DD value and returns the parsed time when valid.
func Date(e Errors, field, value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		e.Add(field, fmt.Sprintf("The %s is not a valid date.", field))
		return time.Time{}, false
	}
	return t, true
}

// Taken records the uniqueness violation for a field.
func Taken(e Errors, field string) {
	e.Add(field, fmt.Sprintf("The %s has already been taken.", field))
}
