package validation

import (
	"strings"

	"github.com/eehealth/api/internal/apperr"
)

var commonPatterns = []string{
	"password", "123456", "qwerty", "admin", "letmein",
	"welcome", "monkey", "dragon", "master", "sunshine",
}

// ValidatePassword enforces a 12 character minimum and blocks common patterns
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return apperr.Validation("password", "must be at least 12 characters")
	}

	// bcrypt silently truncates anything past 72 bytes
	if len(password) > 72 {
		return apperr.Validation("password", "must not exceed 72 characters")
	}

	lower := strings.ToLower(password)
	for _, pattern := range commonPatterns {
		if strings.Contains(lower, pattern) {
			return apperr.Validation("password", "is too common, please choose a stronger one")
		}
	}

	return nil
}
