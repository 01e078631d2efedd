package validators

import "strings"

// SanitizeString trims input and caps it at maxLen bytes.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// SanitizeOptional trims an optional value, dropping it when blank.
func SanitizeOptional(input *string, maxLen int) *string {
	if input == nil {
		return nil
	}
	v := SanitizeString(*input, maxLen)
	if v == "" {
		return nil
	}
	return &v
}
