package utils

import "strings"

// ValidatePassword checks password strength for registration and password
// changes. Email format is enforced by the request binding.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	return true, ""
}

// SanitizeInput trims whitespace and strips null bytes from free-text fields
// before they are persisted.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	return strings.ReplaceAll(input, "\x00", "")
}
