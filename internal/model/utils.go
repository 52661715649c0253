package model

import "unicode/utf8"

// TruncateString cuts s to at most maxLength bytes without splitting a rune.
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	cut := maxLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
