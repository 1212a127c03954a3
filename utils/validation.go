package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 6
	// bcrypt only accepts 72 bytes.
	MaxPasswordLength = 72
)

// ValidateUsername trims the name and checks its length.
func ValidateUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(username)
	n := utf8.RuneCountInString(trimmed)
	if n < MinUsernameLength {
		return "", fmt.Errorf("username must be at least %d characters long", MinUsernameLength)
	}
	if n > MaxUsernameLength {
		return "", fmt.Errorf("username must be no more than %d characters long", MaxUsernameLength)
	}
	return trimmed, nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password must be no more than %d bytes long", MaxPasswordLength)
	}
	return nil
}
