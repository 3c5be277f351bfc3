package validation

import (
	"strings"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/eehealth/api/internal/apperr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxGoalTextLength = 500

// RequiredText trims value and rejects it when empty or overly long.
func RequiredText(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", apperr.Validation(field, "is required")
	}
	if utf8.RuneCountInString(trimmed) > maxGoalTextLength {
		return "", apperr.Validation(field, "is too long (max 500 characters)")
	}
	return trimmed, nil
}

// NormalizeArea title-cases a life area label so "health" and "Health" group together.
func NormalizeArea(area string) string {
	fields := strings.Fields(area)
	return cases.Title(language.English).String(strings.Join(fields, " "))
}

// ParseDate parses a civil date in YYYY-MM-DD form.
func ParseDate(field, value string) (civil.Date, error) {
	if strings.TrimSpace(value) == "" {
		return civil.Date{}, apperr.Validation(field, "is required")
	}
	d, err := civil.ParseDate(strings.TrimSpace(value))
	if err != nil || !d.IsValid() {
		return civil.Date{}, apperr.Validation(field, "must be a date in YYYY-MM-DD format")
	}
	return d, nil
}
