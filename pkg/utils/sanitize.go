package utils

import (
	"html"
	"strings"
	"unicode"
)

// SanitizeString trims whitespace and escapes HTML entities.
func SanitizeString(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}

// SanitizeUsername lowercases a login name and drops control characters.
func SanitizeUsername(username string) string {
	username = strings.ToLower(strings.TrimSpace(username))

	var result strings.Builder
	for _, r := range username {
		if unicode.IsPrint(r) && !unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
