package validators

import (
	"strings"
	"unicode"
)

// SanitizeString trims whitespace, drops control characters except newlines,
// and truncates to maxLen runes so multibyte input is never split.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	trimmed := strings.TrimSpace(cleaned)
	if maxLen > 0 {
		runes := []rune(trimmed)
		if len(runes) > maxLen {
			return strings.TrimSpace(string(runes[:maxLen]))
		}
	}
	return trimmed
}
