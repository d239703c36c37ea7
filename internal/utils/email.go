package utils

import (
	"net/mail"
	"strings"
	"unicode"
)

// NormalizeEmail trims and lowercases an address so it can be used as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsPlausibleEmail accepts a bare address such as "a@example.com" and rejects
// display-name forms, missing domains and embedded whitespace.
func IsPlausibleEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1
}

// IsPlainDisplayName rejects names carrying control characters such as CR or
// LF, which would otherwise end up inside mail headers.
func IsPlainDisplayName(name string) bool {
	return strings.IndexFunc(name, unicode.IsControl) < 0
}
