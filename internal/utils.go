package internal

import (
	"strings"
	"time"
)

// Version is the handytools release version
const Version = "0.4.1"

// FileStamp formats t the way browsers print Date.toISOString and then
// replaces ':' and '.' with '-' so the result is safe inside a filename.
// Format: 2006-01-02T15-04-05-000Z
func FileStamp(t time.Time) string {
	iso := t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	return strings.NewReplacer(":", "-", ".", "-").Replace(iso)
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAlphaNumeric checks if a rune is alphanumeric
func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
