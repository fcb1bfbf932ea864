package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var emailRegexp = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "is required"}
	}
	if !emailRegexp.MatchString(email) {
		return ValidationError{Field: "email", Message: "is not a valid address"}
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks a display name is present and not absurdly long.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "is required"}
	}
	if len(name) > 100 {
		return ValidationError{Field: "name", Message: "must be 100 characters or fewer"}
	}
	return nil
}

// ValidateRole checks the account role is one of the known values.
func ValidateRole(role string) error {
	switch role {
	case "teacher", "student":
		return nil
	}
	return ValidationError{Field: "role", Message: "must be teacher or student"}
}
