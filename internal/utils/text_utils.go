package utils

import (
	"unicode/utf8"
)

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters.
// Uploaded files and pasted text are read as UTF-8; invalid sequences are
// dropped before extraction sees them.
func SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				// Skip invalid UTF-8 sequences
				continue
			}
		}
		result = append(result, r)
	}
	return string(result)
}

// Preview truncates text to maxSize bytes on a valid UTF-8 boundary, for
// logging raw input without flooding the log.
func Preview(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "..."
}
