package speech

import "strings"

// Voice describes one voice an engine offers. ID is what the engine
// expects; Lang is a BCP 47 style tag such as "en-US".
type Voice struct {
	ID      string
	Name    string
	Lang    string
	Default bool
}

// String returns the string representation of the voice.
func (v Voice) String() string {
	if v.ID == "" {
		return "default"
	}
	if v.Name == "" || v.Name == v.ID {
		return v.ID
	}
	return v.Name + " (" + v.ID + ")"
}

// SelectVoice finds the voice whose ID or Name equals id. The second result
// is false when id is empty or unknown; the zero Voice then stands for the
// engine default. Not finding a voice is never an error.
func SelectVoice(voices []Voice, id string) (Voice, bool) {
	if id == "" {
		return Voice{}, false
	}
	for _, v := range voices {
		if v.ID == id || v.Name == id {
			return v, true
		}
	}
	return Voice{}, false
}

// VoicesForLanguage returns the voices whose language tag starts with
// prefix, compared case-insensitively. "en" matches "en", "en-US" and
// "en-GB". An empty prefix returns all voices.
func VoicesForLanguage(voices []Voice, prefix string) []Voice {
	prefix = strings.ToLower(strings.TrimSpace(prefix))

	var matched []Voice
	for _, v := range voices {
		if strings.HasPrefix(strings.ToLower(v.Lang), prefix) {
			matched = append(matched, v)
		}
	}
	return matched
}

// DefaultVoice returns the voice the engine marks as default
func DefaultVoice(voices []Voice) (Voice, bool) {
	for _, v := range voices {
		if v.Default {
			return v, true
		}
	}
	return Voice{}, false
}
