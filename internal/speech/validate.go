package speech

import "strings"

// ValidateText rejects empty and whitespace-only text
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}
	return nil
}
