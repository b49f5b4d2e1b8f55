package utils

import (
	"regexp"
)

var (
	emailShape   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRule = regexp.MustCompile(`^[a-z0-9]+$`)
)

// IsEmail decides whether a login identifier or token subject names an email or a username.
func IsEmail(identifier string) bool {
	return emailShape.MatchString(identifier)
}

// IsUsername reports whether s uses only lowercase letters and digits.
func IsUsername(s string) bool {
	return usernameRule.MatchString(s)
}
