// Package checkout holds the field-level rules shared by checkout validation
// and order payload building.
package checkout

import (
	"regexp"
	"strings"
)

// MinPhoneDigits is the number of digits a contact phone must carry.
const MinPhoneDigits = 10

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)
)

// IsValidEmail checks the address has a local part, a domain and a TLD.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// IsValidPhone accepts digits, spaces, +, -, and parentheses with at least
// MinPhoneDigits digits.
func IsValidPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return false
	}
	return CountDigits(phone) >= MinPhoneDigits
}

// CountDigits returns how many ASCII digits s contains.
func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// ResolveEmail returns the first non-blank candidate, in order.
func ResolveEmail(candidates ...string) string {
	for _, c := range candidates {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
