package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// User field constraints.
const (
	UsernameMinLength = 3
	UsernameMaxLength = 30
	PasswordMinLength = 6
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegistrationInput is the transport-independent payload for creating a user.
type RegistrationInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateRegistration checks the payload against the user field constraints
// and returns the aggregated list of violations.
func ValidateRegistration(in *RegistrationInput) []string {
	var errs []string

	username := strings.TrimSpace(in.Username)
	if len(username) < UsernameMinLength {
		errs = append(errs, fmt.Sprintf("Username must be at least %d characters", UsernameMinLength))
	} else if len(username) > UsernameMaxLength {
		errs = append(errs, fmt.Sprintf("Username must be less than %d characters", UsernameMaxLength))
	}

	if !emailRegex.MatchString(in.Email) {
		errs = append(errs, "Valid email is required")
	}

	if len(in.Password) < PasswordMinLength {
		errs = append(errs, fmt.Sprintf("Password must be at least %d characters", PasswordMinLength))
	}

	return errs
}
