package validation

import (
	"net/mail"
	"strings"

	"github.com/eehealth/api/internal/apperr"
)

// NormalizeEmail lowercases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// ValidateEmail validates email format and length
// Uses Go's built-in net/mail parser which follows RFC 5322
func ValidateEmail(email string) error {
	if email == "" {
		return apperr.Validation("email", "is required")
	}

	// RFC 5321: total max 254 with @
	if len(email) > 254 {
		return apperr.Validation("email", "is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperr.Validation("email", "is not a valid address")
	}

	return nil
}
